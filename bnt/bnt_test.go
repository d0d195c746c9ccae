package bnt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetReverseCompByteArr(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"A", "T"},
		{"AAAACCCC", "GGGGTTTT"},
		{"ACGTN", "NACGT"},
		{"acgt", "acgt"},
		{"CCCCGGGG", "CCCCGGGG"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, string(GetReverseCompByteArr([]byte(c.in))), "input %q", c.in)
	}
}

func TestGetReverseCompByteArr2Reuse(t *testing.T) {
	buf := make([]byte, 0, 16)
	out := GetReverseCompByteArr2([]byte("AACC"), buf)
	require.Equal(t, "GGTT", string(out))
	require.Equal(t, cap(buf), cap(out))
	out = GetReverseCompByteArr2([]byte("ACGTACGTACGTACGTACGT"), buf)
	require.Equal(t, "ACGTACGTACGTACGTACGT", string(out))
}

func Benchmark_GetReverseCompByteArr2(b *testing.B) {
	s := []byte("ACGTTGCAACGGATTACAGATTACAGGGCCCTTTAAA")
	var buf []byte
	for i := 0; i < b.N; i++ {
		buf = GetReverseCompByteArr2(s, buf)
	}
}
