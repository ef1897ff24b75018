// Package pool keeps size-classed sync.Pool buckets for the byte buffers
// used by container serialization and the word buffers produced by the block
// coder.
package pool

import "sync"

// Size classes, in elements.
const (
	Size256B = 256
	Size4K   = 4096
	Size64K  = 65536
	Size1M   = 1048576
)

var sizes = [...]int{Size256B, Size4K, Size64K, Size1M}

// bucketIndex returns the bucket for a request of size elements.
func bucketIndex(size int) int {
	for i, s := range sizes[:len(sizes)-1] {
		if size <= s {
			return i
		}
	}
	return len(sizes) - 1
}

// buckets is one sync.Pool per size class for slices of T.
type buckets[T any] struct {
	pools [len(sizes)]sync.Pool
}

func newBuckets[T any]() *buckets[T] {
	b := &buckets[T]{}
	for i := range b.pools {
		sz := sizes[i]
		b.pools[i].New = func() any {
			s := make([]T, sz)
			return &s
		}
	}
	return b
}

func (b *buckets[T]) get(size int) []T {
	sp := b.pools[bucketIndex(size)].Get().(*[]T)
	s := *sp
	if cap(s) < size {
		s = make([]T, size)
		*sp = s
		return s
	}
	return s[:size]
}

func (b *buckets[T]) put(s []T) {
	c := cap(s)
	if c < Size256B {
		return
	}
	// A slice is filed under the largest class it can fully serve.
	idx := bucketIndex(c)
	if c < sizes[idx] {
		if idx == 0 {
			return
		}
		idx--
	}
	s = s[:c]
	b.pools[idx].Put(&s)
}

var (
	bytePools = newBuckets[byte]()
	wordPools = newBuckets[uint32]()
)

// Get returns a byte slice of length size. The contents are not zeroed.
// The caller should call Put when done.
func Get(size int) []byte {
	return bytePools.get(size)
}

// Put returns a byte slice obtained from Get. Slices with capacity below
// Size256B are dropped.
func Put(b []byte) {
	bytePools.put(b)
}

// GetWords returns a uint32 slice of length n. The contents are not zeroed.
func GetWords(n int) []uint32 {
	return wordPools.get(n)
}

// PutWords returns a word slice obtained from GetWords.
func PutWords(w []uint32) {
	wordPools.put(w)
}
