package seedindex

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func sortHits(hits []Hit) []Hit {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].SeqID != hits[j].SeqID {
			return hits[i].SeqID < hits[j].SeqID
		}
		return hits[i].Pos < hits[j].Pos
	})
	return hits
}

func TestKmerIndexSearch(t *testing.T) {
	seqs := [][]byte{[]byte("AAAACCCC"), []byte("CCCCGGGG"), []byte("AACC")}
	ki, err := NewKmerIndex(seqs, 4, 0)
	require.NoError(t, err)
	require.Equal(t, 3, ki.NumSeqs())

	require.Equal(t, []Hit{{SeqID: 0, Pos: 4}, {SeqID: 1, Pos: 0}}, sortHits(ki.Search([]byte("CCCC"))))
	require.Equal(t, []Hit{{SeqID: 0, Pos: 2}, {SeqID: 2, Pos: 0}}, sortHits(ki.Search([]byte("AACC"))))
	require.Equal(t, []Hit{{SeqID: 1, Pos: 4}}, ki.Search([]byte("GGGG")))
	require.Empty(t, ki.Search([]byte("TTTT")))
	// case sensitive
	require.Empty(t, ki.Search([]byte("cccc")))
	// wrong seed length
	require.Empty(t, ki.Search([]byte("CCC")))
}

func TestKmerIndexRepeatedKmer(t *testing.T) {
	seqs := [][]byte{[]byte("ACACACAC")}
	ki, err := NewKmerIndex(seqs, 4, 0)
	require.NoError(t, err)
	require.Equal(t, []Hit{{0, 0}, {0, 2}, {0, 4}}, sortHits(ki.Search([]byte("ACAC"))))
	require.Equal(t, 2, ki.NumKmers())
}

func TestKmerIndexMaxOcc(t *testing.T) {
	seqs := [][]byte{[]byte("ACACACAC"), []byte("GGACACTT")}
	ki, err := NewKmerIndex(seqs, 4, 2)
	require.NoError(t, err)
	require.Empty(t, ki.Search([]byte("ACAC")))
	require.Len(t, ki.Search([]byte("GACA")), 1)
}

func TestKmerIndexShortSequences(t *testing.T) {
	ki, err := NewKmerIndex([][]byte{[]byte("AC"), nil}, 4, 0)
	require.NoError(t, err)
	require.Equal(t, 0, ki.NumKmers())
	require.Empty(t, ki.Search([]byte("ACGT")))

	_, err = NewKmerIndex(nil, 0, 0)
	require.Error(t, err)
}

func TestKmerIndexConcurrentSearch(t *testing.T) {
	seqs := [][]byte{[]byte("ACGTTGCAACGGATTACA"), []byte("GATTACAGGGCCCTTTAAA")}
	ki, err := NewKmerIndex(seqs, 5, 0)
	require.NoError(t, err)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				hits := ki.Search([]byte("GATTA"))
				if len(hits) != 2 {
					t.Errorf("expected 2 hits, got %d", len(hits))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func Benchmark_KmerIndexSearch(b *testing.B) {
	s := []byte("ACGTTGCAACGGATTACAGATTACAGGGCCCTTTAAACGTTGCAACGGATTACAGATTACAGG")
	ki, _ := NewKmerIndex([][]byte{s}, 11, 0)
	kmer := s[7:18]
	for i := 0; i < b.N; i++ {
		ki.Search(kmer)
	}
}
