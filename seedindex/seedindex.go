// Package seedindex resolves a seed (k-mer) to every sequence position that
// contains it.
package seedindex

import (
	"fmt"

	"github.com/cespare/xxhash"

	"github.com/mudesheng/oga/utils"
)

// Hit is one occurrence of a seed: the sequence id and the 0-based position
// of the seed's first base on the forward strand.
type Hit struct {
	SeqID int
	Pos   int
}

// Searcher is the read-only lookup used by the overlap finder. Search must be
// safe for concurrent use, case sensitive and exact. The order of the returned
// hits is not significant.
type Searcher interface {
	Search(kmer []byte) []Hit
}

// KmerIndex is a fixed seed length Searcher. Occurrences are bucketed by the
// xxhash of the k-mer and checked against the sequence bytes on lookup.
type KmerIndex struct {
	Kmerlen int
	MaxOcc  int // seeds with more occurrences are masked, 0 disables masking
	seqs    [][]byte
	table   map[uint64][]Hit
}

// NewKmerIndex indexes every k-mer of every sequence. The sequences are
// referenced, not copied, and must not be modified while the index is in use.
func NewKmerIndex(seqs [][]byte, kmerlen, maxOcc int) (*KmerIndex, error) {
	if kmerlen <= 0 {
		return nil, fmt.Errorf("[NewKmerIndex] kmer length %d must > 0", kmerlen)
	}
	ki := &KmerIndex{Kmerlen: kmerlen, MaxOcc: maxOcc, seqs: seqs}
	var total int
	for _, s := range seqs {
		if len(s) >= kmerlen {
			total += len(s) - kmerlen + 1
		}
	}
	ki.table = make(map[uint64][]Hit, total)
	for id, s := range seqs {
		for i := 0; i+kmerlen <= len(s); i++ {
			h := xxhash.Sum64(s[i : i+kmerlen])
			ki.table[h] = append(ki.table[h], Hit{SeqID: id, Pos: i})
		}
	}
	return ki, nil
}

// Search returns every occurrence of kmer. Seeds whose length differs from
// Kmerlen, and masked seeds, have no hits.
func (ki *KmerIndex) Search(kmer []byte) []Hit {
	if len(kmer) != ki.Kmerlen {
		return nil
	}
	bucket, ok := ki.table[xxhash.Sum64(kmer)]
	if !ok {
		return nil
	}
	hits := make([]Hit, 0, len(bucket))
	for _, h := range bucket {
		if utils.BytesEqual(ki.seqs[h.SeqID][h.Pos:h.Pos+ki.Kmerlen], kmer) {
			hits = append(hits, h)
		}
	}
	if ki.MaxOcc > 0 && len(hits) > ki.MaxOcc {
		return nil
	}
	return hits
}

// NumSeqs returns the number of indexed sequences.
func (ki *KmerIndex) NumSeqs() int {
	return len(ki.seqs)
}

// NumKmers returns the number of distinct hash buckets.
func (ki *KmerIndex) NumKmers() int {
	return len(ki.table)
}
