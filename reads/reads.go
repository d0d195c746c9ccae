package reads

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ReadSet holds the loaded reads; the read id is the index.
type ReadSet struct {
	Seqs  [][]byte
	Names []string
	Bases int64
	// Skipped counts reads dropped for being shorter than their library's min_rd_len.
	Skipped int
}

// GetReadsFileFormat splits the suffix of fn into the record format, "fa"
// or "fq", and the compression, "", "gz", "zst" or "br".
func GetReadsFileFormat(fn string) (format, compress string, err error) {
	sfn := strings.Split(fn, ".")
	if len(sfn) < 2 {
		return "", "", fmt.Errorf("reads file: %v need suffix '*.[fa|fasta|fq|fastq][.gz|.zst|.br]'", fn)
	}
	tmp := sfn[len(sfn)-1]
	switch tmp {
	case "gz", "zst", "br":
		if len(sfn) < 3 {
			return "", "", fmt.Errorf("reads file: %v need suffix '*.[fa|fasta|fq|fastq].%s'", fn, tmp)
		}
		compress = tmp
		tmp = sfn[len(sfn)-2]
	}
	switch tmp {
	case "fa", "fasta":
		format = "fa"
	case "fq", "fastq":
		format = "fq"
	default:
		return "", "", fmt.Errorf("reads file: %v need suffix '*.[fa|fasta|fq|fastq][.gz|.zst|.br]'", fn)
	}
	return format, compress, nil
}

type readCloser struct {
	io.Reader
	closers []func() error
}

func (rc *readCloser) Close() (err error) {
	for i := len(rc.closers) - 1; i >= 0; i-- {
		if e := rc.closers[i](); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// OpenReadsFile opens fn and undoes its compression.
func OpenReadsFile(fn string) (io.ReadCloser, string, error) {
	format, compress, err := GetReadsFileFormat(fn)
	if err != nil {
		return nil, "", err
	}
	fp, err := os.Open(fn)
	if err != nil {
		return nil, "", err
	}
	rc := &readCloser{closers: []func() error{fp.Close}}
	switch compress {
	case "gz":
		gzr, err := gzip.NewReader(fp)
		if err != nil {
			fp.Close()
			return nil, "", fmt.Errorf("%s: %w", fn, err)
		}
		rc.closers = append(rc.closers, gzr.Close)
		rc.Reader = gzr
	case "zst":
		zr, err := zstd.NewReader(fp, zstd.WithDecoderConcurrency(1))
		if err != nil {
			fp.Close()
			return nil, "", fmt.Errorf("%s: %w", fn, err)
		}
		rc.closers = append(rc.closers, func() error { zr.Close(); return nil })
		rc.Reader = zr
	case "br":
		rc.Reader = brotli.NewReader(fp)
	default:
		rc.Reader = fp
	}
	rc.Reader = bufio.NewReaderSize(rc.Reader, 1<<20)
	return rc, format, nil
}

func newSeqReader(r io.Reader, format string) seqio.Reader {
	if format == "fq" {
		return fastq.NewReader(r, linear.NewQSeq("", nil, alphabet.DNA, alphabet.Sanger))
	}
	return fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA))
}

func header(name, desc string) string {
	if desc == "" {
		return name
	}
	return name + " " + desc
}

// LoadReadsFile appends the reads of fn with at least minLen bases to rs.
// Bases are upper cased.
func (rs *ReadSet) LoadReadsFile(fn string, minLen int) error {
	rc, format, err := OpenReadsFile(fn)
	if err != nil {
		return err
	}
	defer rc.Close()
	sr := newSeqReader(rc, format)
	for {
		s, err := sr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("read file: %s error: %w", fn, err)
		}
		var seq []byte
		switch l := s.(type) {
		case *linear.Seq:
			seq = make([]byte, len(l.Seq))
			for j, v := range l.Seq {
				seq[j] = byte(v)
			}
		case *linear.QSeq:
			seq = make([]byte, len(l.Seq))
			for j, v := range l.Seq {
				seq[j] = byte(v.L)
			}
		default:
			return fmt.Errorf("read file: %s unexpected record type %T", fn, s)
		}
		if len(seq) < minLen {
			rs.Skipped++
			continue
		}
		rs.Seqs = append(rs.Seqs, bytes.ToUpper(seq))
		rs.Names = append(rs.Names, header(s.Name(), s.Description()))
		rs.Bases += int64(len(seq))
	}
	return nil
}

// LoadReads loads every file of every library whose profile matches
// seqProfile, AnyProfile loading all. Read ids follow the order of the
// libraries and files in cfgInfo.
func LoadReads(cfgInfo CfgInfo, seqProfile uint8) (*ReadSet, error) {
	rs := &ReadSet{}
	for _, lib := range cfgInfo.Libs {
		if seqProfile != AnyProfile && lib.SeqProfile != AnyProfile && lib.SeqProfile != seqProfile {
			continue
		}
		for _, fn := range lib.FnName {
			if err := rs.LoadReadsFile(fn, lib.MinRdLen); err != nil {
				return nil, fmt.Errorf("[LoadReads] lib %s: %w", lib.Name, err)
			}
		}
	}
	return rs, nil
}
