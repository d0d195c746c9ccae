package overlap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccumulatorMerge(t *testing.T) {
	acc := NewAccumulator(4, 2, nil)
	acc.Reset(0)
	require.True(t, acc.AddHit(0, 5, 10))
	require.True(t, acc.AddHit(3, 5, 14)) // diag 11 joins 10
	require.True(t, acc.AddHit(6, 5, 30)) // diag 24 is new
	require.True(t, acc.AddHit(7, 5, 20)) // diag 13 joins 11
	require.Equal(t, []Alignment{
		{PosRef: 0, PosPartner: 10, LenRef: 11, LenPartner: 14, Hits: 3, Diag: 13},
		{PosRef: 6, PosPartner: 30, LenRef: 4, LenPartner: 4, Hits: 1, Diag: 24},
	}, acc.Alignments(5))
	require.Equal(t, 10, acc.Alignments(5)[0].Offset())
	require.Equal(t, 2, acc.NumAlignments())
}

func TestAccumulatorCeilingWinsTie(t *testing.T) {
	acc := NewAccumulator(4, 2, nil)
	acc.Reset(0)
	acc.AddHit(0, 7, 10)
	acc.AddHit(0, 7, 14)
	acc.AddHit(1, 7, 13) // diag 12, two away from both
	require.Equal(t, []Alignment{
		{PosRef: 0, PosPartner: 10, LenRef: 4, LenPartner: 4, Hits: 1, Diag: 10},
		{PosRef: 0, PosPartner: 14, LenRef: 5, LenPartner: 4, Hits: 2, Diag: 12},
	}, acc.Alignments(7))
}

func TestAccumulatorExactDiag(t *testing.T) {
	acc := NewAccumulator(4, 0, nil)
	acc.Reset(1)
	for i := 0; i < 5; i++ {
		acc.AddHit(i, 2, i+3)
	}
	acc.AddHit(2, 2, 6) // diag 4, outside a zero tolerance
	l := acc.Alignments(2)
	require.Len(t, l, 2)
	require.Equal(t, 3, l[0].Diag)
	require.Equal(t, 5, l[0].Hits)
	require.Equal(t, 8, l[0].LenRef)
	require.Equal(t, 4, l[1].Diag)
}

func TestAccumulatorPartners(t *testing.T) {
	acc := NewAccumulator(4, 1, func(id int) bool { return id == 9 })
	acc.Reset(3)
	require.Equal(t, 3, acc.Ref())
	require.False(t, acc.AddHit(0, 9, 0))
	acc.AddHit(0, 7, 0)
	acc.AddHit(0, 5, 0)
	acc.AddHit(1, 7, 1)
	require.Equal(t, []int{5, 7}, acc.Partners())
	require.Nil(t, acc.Alignments(9))

	acc.Reset(4)
	require.Empty(t, acc.Partners())
	require.Nil(t, acc.Alignments(7))
	require.Zero(t, acc.NumAlignments())
}
