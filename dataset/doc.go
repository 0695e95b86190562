// Package dataset provides lazily evaluated, index-addressable datasets and
// the transforms that turn raw examples into padded training batches.
//
// Every stage is a Dataset: it reports a Size and returns the element at an
// index in [0, Size()). Stages hold a reference to their upstream dataset and
// own only the index-mapping state they introduce.
//
// # Composition
//
// A typical chain shards the examples, drops the ones whose lengths the
// encoder cannot handle, shuffles what is left and groups it into batches:
//
//	shard, _ := dataset.Partition(data, worldSize, rank)
//	sizes, _ := dataset.Partition(sizeView, worldSize, rank)
//
//	admitted, _ := dataset.Filter(ctx, sizes, dataset.LengthRule{KernelWidth: 3, DownsampleFactor: 2})
//	shuffle := dataset.NewShuffle(admitted.Count(), -1, seed)
//	m := dataset.Compose(shuffle, admitted.Subset())
//
//	batches, _ := dataset.NewBucketBatcher(
//	    dataset.Resample(shard, m, -1),
//	    dataset.Resample(sizes, m, -1),
//	    32, 100,
//	)
//
// The same IndexMap is applied to the data and the size views so that both
// stay aligned; the shuffle permutation behind it is generated once per epoch
// no matter how many goroutines read through it.
//
// # Epochs
//
// Shuffle.Reset (or Resampled.Resample) clears the permutation; the next read
// draws a fresh one. BucketBatcher.Reset drops the cached batch grouping, which
// depends on the shuffled order.
package dataset
