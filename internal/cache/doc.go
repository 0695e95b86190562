// Package cache provides byte-bounded LRU caches for blob contents.
//
// LRU is a single-lock cache. ShardedLRU spreads keys over 64 LRU shards to
// reduce contention when many loader workers hit the cache at once. Both
// optionally account their bytes against a resource.Controller; a value the
// controller refuses is simply not cached.
package cache
