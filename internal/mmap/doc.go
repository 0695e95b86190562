// Package mmap provides read-only memory maps of local blob files.
//
// Feature blobs are read whole and decoded once, so a mapping avoids a copy
// through kernel buffers and lets the page cache be shared between worker
// processes reading the same shard.
//
//	m, err := mmap.Open("000000001.in")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// Unix uses mmap(2) and madvise(2). Windows uses CreateFileMapping and
// MapViewOfFile; Advise is a no-op there.
//
// A Mapping is safe for concurrent reads. Close is idempotent, but callers must
// not touch the result of Bytes after Close returns.
package mmap
