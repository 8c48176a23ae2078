// Command fastkmeans benchmarks the exact k-means variants.
//
//	fastkmeans run  [-script file | -plan file] [-store local|s3|minio] [-json] [-metrics-addr :2112]
//	fastkmeans gen  -n 10000 -d 2 -k 20 -spread 0.1 -seed 1 -o data.txt.gz
//
// Without -script or -plan, run reads script commands from stdin.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/fastkmeans"
	"github.com/hupe1980/fastkmeans/blobstore"
	minioStore "github.com/hupe1980/fastkmeans/blobstore/minio"
	s3Store "github.com/hupe1980/fastkmeans/blobstore/s3"
	"github.com/hupe1980/fastkmeans/datagen"
	"github.com/hupe1980/fastkmeans/driver"
	"github.com/hupe1980/fastkmeans/metric"
	"github.com/hupe1980/fastkmeans/report"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: fastkmeans <run|gen> [flags]")
	fmt.Fprintln(os.Stderr, "algorithms:", fastkmeans.Names())
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "run":
		err = runCmd(ctx, os.Args[2:])
	case "gen":
		err = genCmd(ctx, os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "fastkmeans:", err)
		os.Exit(1)
	}
}

// storeFlags selects where datasets are read from and written to.
type storeFlags struct {
	kind     string
	root     string
	bucket   string
	prefix   string
	region   string
	endpoint string
	access   string
	secret   string
	secure   bool

	partSize    int64
	concurrency int
	noChecksum  bool
}

func (f *storeFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.kind, "store", "local", "dataset store: local, s3 or minio")
	fs.StringVar(&f.root, "root", ".", "root directory of the local store")
	fs.StringVar(&f.bucket, "bucket", "", "bucket of the s3 or minio store")
	fs.StringVar(&f.prefix, "prefix", "", "key prefix inside the bucket")
	fs.StringVar(&f.region, "region", "", "s3 region")
	fs.StringVar(&f.endpoint, "endpoint", "", "s3 or minio endpoint")
	fs.StringVar(&f.access, "access-key", os.Getenv("MINIO_ACCESS_KEY"), "minio access key")
	fs.StringVar(&f.secret, "secret-key", os.Getenv("MINIO_SECRET_KEY"), "minio secret key")
	fs.BoolVar(&f.secure, "secure", false, "use TLS for minio")
	fs.Int64Var(&f.partSize, "part-size", 0, "s3 multipart part size in MiB (0 keeps the default)")
	fs.IntVar(&f.concurrency, "upload-concurrency", 0, "s3 concurrent part uploads (0 keeps the default)")
	fs.BoolVar(&f.noChecksum, "no-checksum", false, "disable CRC32C checksums on s3 uploads")
}

func (f *storeFlags) open(ctx context.Context) (blobstore.Store, error) {
	switch f.kind {
	case "local":
		return blobstore.NewLocalStore(f.root), nil
	case "s3":
		if f.bucket == "" {
			return nil, errors.New("-bucket is required for the s3 store")
		}
		var opts []s3Store.Option
		if f.prefix != "" {
			opts = append(opts, s3Store.WithPrefix(f.prefix))
		}
		if f.region != "" {
			opts = append(opts, s3Store.WithRegion(f.region))
		}
		if f.endpoint != "" {
			opts = append(opts, s3Store.WithEndpoint(f.endpoint))
		}
		opts = append(opts, s3Store.WithUploadConfig(f.uploadConfig()))
		return s3Store.New(ctx, f.bucket, opts...)
	case "minio":
		if f.bucket == "" || f.endpoint == "" {
			return nil, errors.New("-bucket and -endpoint are required for the minio store")
		}
		client, err := minio.New(f.endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(f.access, f.secret, ""),
			Secure: f.secure,
		})
		if err != nil {
			return nil, err
		}
		return minioStore.NewStore(client, f.bucket, f.prefix), nil
	default:
		return nil, fmt.Errorf("unknown store %q", f.kind)
	}
}

func (f *storeFlags) uploadConfig() s3Store.UploadConfig {
	cfg := s3Store.DefaultUploadConfig()
	if f.partSize > 0 {
		cfg.PartSize = f.partSize * 1024 * 1024
	}
	if f.concurrency > 0 {
		cfg.Concurrency = f.concurrency
	}
	cfg.EnableChecksum = !f.noChecksum
	return cfg
}

func runCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	var sf storeFlags
	sf.register(fs)
	script := fs.String("script", "", "command script (default stdin)")
	planFile := fs.String("plan", "", "YAML plan")
	asJSON := fs.Bool("json", false, "write results as JSON")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *script != "" && *planFile != "" {
		return errors.New("-script and -plan are mutually exclusive")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := fastkmeans.NewTextLogger(level)

	var metrics fastkmeans.MetricsCollector
	if *metricsAddr != "" {
		metrics = metric.NewPrometheusCollector(nil)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: *metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() { _ = srv.Close() }()
		logger.Info("serving metrics", "addr", *metricsAddr)
	}

	store, err := sf.open(ctx)
	if err != nil {
		return err
	}

	session := driver.New(driver.Config{
		Source:  store,
		Out:     os.Stdout,
		Logger:  logger,
		Metrics: metrics,
	})

	var runErr error
	if *planFile != "" {
		f, err := os.Open(*planFile)
		if err != nil {
			return err
		}
		plan, err := driver.LoadPlan(f)
		_ = f.Close()
		if err != nil {
			return err
		}
		runErr = session.RunPlan(ctx, plan)
	} else {
		var in io.Reader = os.Stdin
		if *script != "" {
			f, err := os.Open(*script)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		runErr = session.RunScript(ctx, in)
	}

	results := session.Results()
	if *asJSON {
		if err := report.WriteJSON(os.Stdout, results); err != nil {
			return err
		}
	} else if len(results) > 0 {
		if err := report.WriteTable(os.Stdout, results); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout)
		if err := report.WriteSummaryTable(os.Stdout, report.Summarize(results)); err != nil {
			return err
		}
		for _, m := range session.Mismatches() {
			fmt.Fprintln(os.Stdout, m)
		}
	}

	if n := len(session.Mismatches()); n > 0 && runErr == nil {
		runErr = fmt.Errorf("%d run(s) disagree with their reference", n)
	}
	return runErr
}

func genCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	var sf storeFlags
	sf.register(fs)
	var cfg datagen.Config
	fs.IntVar(&cfg.N, "n", 10000, "number of points")
	fs.IntVar(&cfg.D, "d", 2, "dimension")
	fs.IntVar(&cfg.K, "k", 10, "number of Gaussian clusters")
	fs.Float64Var(&cfg.Spread, "spread", 0.1, "standard deviation around each cluster center")
	fs.Uint64Var(&cfg.Seed, "seed", 1, "random seed")
	out := fs.String("o", "", "output name; .gz, .zst and .lz4 compress")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errors.New("-o is required")
	}

	res, err := datagen.Generate(cfg)
	if err != nil {
		return err
	}
	store, err := sf.open(ctx)
	if err != nil {
		return err
	}
	return fastkmeans.SaveDataset(ctx, store, *out, res.Dataset)
}
