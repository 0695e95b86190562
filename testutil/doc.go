// Package testutil provides testing utilities for seqdata.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Examples
//
//	rng := testutil.NewRNG(seed)
//	examples := rng.Examples(32, 10, 80, 4, []string{"a", "b", "c"}, 6)
//
// # Data Directories
//
//	store := blobstore.NewMemoryStore()
//	err := testutil.DefaultFixture("train").Write(ctx, store, examples)
package testutil
