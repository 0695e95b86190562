// Package hash provides the checksums and seed mixing used by seqdata.
//
// Size manifests carry a CRC32-Castagnoli checksum of their size table:
//
//	sum := hash.SizesChecksum(sizes)
//
// Shuffle seeds for parallel workers are derived with Mix, a SplitMix64
// finalizer, so that nearby inputs give unrelated seeds:
//
//	seed := hash.Mix(base, uint64(worker), uint64(epoch))
package hash
