package bnt

import (
	"github.com/biogo/biogo/alphabet"
)

// BntRev maps a nucleotide character to its complement, keeping case.
// Characters unknown to the redundant DNA alphabet complement to 'N'.
var BntRev [256]byte

func init() {
	for i := range BntRev {
		BntRev[i] = 'N'
	}
	for i := 0; i < 256; i++ {
		if c, ok := alphabet.DNAredundant.Complement(alphabet.Letter(i)); ok {
			BntRev[i] = byte(c)
		}
	}
}

func GetReverseCompByteArr(seq []byte) []byte {
	sl := len(seq)
	rv := make([]byte, sl)
	for i := 0; i < len(rv); i++ {
		rv[i] = BntRev[seq[sl-1-i]]
	}

	return rv
}

// GetReverseCompByteArr2 is GetReverseCompByteArr reusing rSeq when it is large enough.
func GetReverseCompByteArr2(seq []byte, rSeq []byte) []byte {
	sl := len(seq)
	var rv []byte
	if cap(rSeq) < sl {
		rv = make([]byte, sl)
	} else {
		rv = rSeq[:sl]
	}
	for i := 0; i < sl; i++ {
		rv[i] = BntRev[seq[sl-1-i]]
	}

	return rv
}
