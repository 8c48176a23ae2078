// Package s3 provides an S3 implementation of the blobstore.Store interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("datasets/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	ds, err := fastkmeans.LoadDataset(ctx, store, "birch.txt.zst")
//
// # Features
//
//   - Streaming reads for dataset loading
//   - Multipart uploads for large datasets
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
