// Package source exposes a data directory as two indexable views.
//
// A data directory holds one blob per example and field, named
// "%09d.<field>" with example ids starting at 1:
//
//	000000001.in   000000001.tgt   000000001.wrd
//	000000002.in   000000002.tgt   000000002.wrd
//
// The number of examples is the number of input blobs; ids must be
// contiguous. Source.Data returns full example records (decoded input
// features, encoded target tokens, optional extra fields). Source.Sizes
// returns lightweight records holding only the input and target lengths,
// which is what filtering and bucketing read.
//
// Size records come from a "sizes.json" manifest when one matching the
// directory exists; otherwise they are computed from the blobs. For raw
// feature blobs the input length is derived from the blob size alone.
package source
