package internal

import (
	"iter"
)

// IterSeq2FlatMap maps every element of seq to a dual-return iterator, and
// concatenates those iterators into a single iterator sequence. Each
// mapped iterator is only built once the previous one is exhausted.
func IterSeq2FlatMap[K any, V any, T1 any, T2 any](seq iter.Seq2[K, V], fn func(K, V) iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for key, value := range seq {
			for val1, val2 := range fn(key, value) {
				if !yield(val1, val2) {
					return // Stop if the consumer stops
				}
			}
		}
	}
}
