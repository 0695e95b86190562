// Package minio provides a blobstore.Store backed by MinIO.
//
// MinIO is an S3-compatible object store. The package uses the official MinIO
// Go client and also works against Ceph, SeaweedFS and Garage.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "corpora", "timit/train")
//	p, err := seqdata.Open(ctx, store, dict, cfg)
//
// Blobs are read with ranged GETs; wrap the store in blobstore.CachingStore
// so later epochs do not go back to the network.
package minio
