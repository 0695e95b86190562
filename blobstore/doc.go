// Package blobstore provides the storage abstraction behind a data directory.
//
// A data directory is a flat namespace of immutable blobs, one per example
// field (e.g. "000000001.in", "000000001.tgt"). Store is the interface every
// backend implements; implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, reads through read-only mmap
//   - MemoryStore: in-memory, for tests and generated fixtures
//   - CachingStore: wraps any Store with a byte-bounded LRU and Prefetch
//   - minio.Store: MinIO and other S3-compatible services
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//
// # Custom Implementations
//
//	type Store interface {
//	    Open(ctx, name) (Blob, error)
//	    List(ctx, prefix) ([]string, error)
//	    Put(ctx, name, data) error
//	}
//
// Open must return an error satisfying errors.Is(err, ErrNotFound) for a
// missing blob, and List must return names relative to the store root in
// lexical order.
package blobstore
