package dataset

// Partition returns shard rank (1-based) of worldSize equal, contiguous shards.
//
// Each shard holds Size()/worldSize examples; the remainder is not assigned to
// any shard so that all shards have the same size for a given world size.
// worldSize == 1 returns ds unchanged.
func Partition[T any](ds Dataset[T], worldSize, rank int) (Dataset[T], error) {
	if worldSize < 1 || rank < 1 || rank > worldSize {
		return nil, &InvalidRankError{Rank: rank, WorldSize: worldSize}
	}
	if worldSize == 1 {
		return ds, nil
	}
	block := ds.Size() / worldSize
	return Resample(ds, Range{Start: (rank - 1) * block, Len: block}, block), nil
}
