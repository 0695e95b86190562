// Package seqdata turns a directory of variable-length sequence examples into
// padded, length-bucketed training batches.
//
// A data directory holds one blob per example and field, named %09d.<field>
// with ids from 1: feature sequences (little-endian float32, optionally zstd
// or lz4 compressed), whitespace-separated target tokens and optional extra
// fields. Directories live in a blobstore.Store: the local file system, memory,
// MinIO or S3.
//
// # Quick Start
//
//	dict, _ := dictionary.Load("tokens.dict")
//	cfg := seqdata.DefaultConfig()
//	cfg.DataDir = "train"
//	cfg.BatchSize = 32
//	cfg.Shuffle = true
//	cfg.Workers = 4
//
//	p, err := seqdata.OpenLocal(ctx, "/data", dict, cfg)
//	if err != nil {
//	    return err
//	}
//	for epoch := 0; epoch < 10; epoch++ {
//	    for batch, err := range p.Batches(ctx) {
//	        if err != nil {
//	            return err
//	        }
//	        // batch.Input has shape [B, maxLen, channels], zero padded
//	        // past batch.Lengths[i]; batch.Targets holds the labels.
//	    }
//	}
//
// # Stages
//
// Open reads the directory (package source), keeps this rank's contiguous
// shard (dataset.Partition) and drops examples whose lengths the encoder
// cannot align (dataset.Filter with Config.LengthRule). Every epoch each
// worker then shuffles or limits the admitted examples (dataset.Resample),
// groups them by input length into padded batches (dataset.BucketBatcher) and
// hands them to the caller (package iterator).
//
// # Shuffling Across Workers
//
// Each worker builds its own pipeline instance. By default every worker draws
// its own permutation, so a multi-worker epoch may visit some examples twice
// and others not at all. Set Config.ConsistentShuffle to give all workers the
// same permutation; each example is then visited exactly once per epoch.
//
// # Size Manifests
//
// Computing lengths requires reading every blob. WithWriteManifest stores the
// sizes in sizes.json next to the examples; later Opens read them from there.
package seqdata
