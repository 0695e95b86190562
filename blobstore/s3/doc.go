// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-corpora",
//	    s3.WithPrefix("librispeech/train-clean-100/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	p, err := seqdata.Open(ctx, store, dict, cfg)
//
// # Features
//
//   - Ranged GETs for partial reads
//   - Multipart uploads with CRC32C checksums for large blobs
//   - Automatic pagination for listing
//   - Custom endpoints for S3-compatible services
package s3
