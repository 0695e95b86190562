package cache

import (
	"context"
	"hash/maphash"

	"github.com/hupe1980/seqdata/internal/resource"
)

const numShards = 64

// ShardedLRU distributes keys across 64 LRU shards.
type ShardedLRU struct {
	shards [numShards]*LRU
	seed   maphash.Seed
}

// NewShardedLRU creates a sharded cache. The capacity is split evenly.
func NewShardedLRU(capacity int64, rc *resource.Controller) *ShardedLRU {
	shardCapacity := max(capacity/numShards, 1)

	s := &ShardedLRU{seed: maphash.MakeSeed()}
	for i := range numShards {
		s.shards[i] = NewLRU(shardCapacity, rc)
	}
	return s
}

func (s *ShardedLRU) shard(key string) *LRU {
	return s.shards[maphash.String(s.seed, key)%numShards]
}

// Get implements Cache.
func (s *ShardedLRU) Get(ctx context.Context, key string) ([]byte, bool) {
	return s.shard(key).Get(ctx, key)
}

// Set implements Cache.
func (s *ShardedLRU) Set(ctx context.Context, key string, b []byte) {
	s.shard(key).Set(ctx, key, b)
}

// Invalidate implements Cache. It visits every shard.
func (s *ShardedLRU) Invalidate(predicate func(key string) bool) {
	for _, sh := range s.shards {
		sh.Invalidate(predicate)
	}
}

// Stats implements Cache.
func (s *ShardedLRU) Stats() (hits, misses int64) {
	for _, sh := range s.shards {
		h, m := sh.Stats()
		hits += h
		misses += m
	}
	return hits, misses
}

// Size implements Cache.
func (s *ShardedLRU) Size() int64 {
	var total int64
	for _, sh := range s.shards {
		total += sh.Size()
	}
	return total
}
