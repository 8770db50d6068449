// Package mmap maps files read-only into memory.
//
// The local blob store reads snapshot files through a mapping so that block
// decoding works on the page cache directly instead of copying through a
// read buffer.
//
//	m, err := mmap.Open("vec.snap")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// Unix platforms use mmap(2) and madvise(2). Windows uses
// CreateFileMapping/MapViewOfFile; Advise is a no-op there.
//
// A File is safe for concurrent reads. Callers must not touch Bytes after
// Close returns.
package mmap
