// Package reads loads the configuration file and the reads files it lists.
package reads

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	AnyProfile = 0
	Illumina   = 1
	PacBio     = 2
	Nanopore   = 3
)

type LibInfo struct {
	Name       string   `toml:"name"`
	SeqProfile uint8    `toml:"seq_profile"` // 0 any, 1 Illumina, 2 PacBio, 3 Nanopore
	MinRdLen   int      `toml:"min_rd_len"`  // shorter reads are skipped
	FnName     []string `toml:"files"`
}

// OverlapCfg is the [overlap] table. Zero values keep the defaults; a zero
// seed length derives the seed geometry from the error rates.
type OverlapCfg struct {
	SubstitutionRate float64 `toml:"substitution_rate"`
	IndelRate        float64 `toml:"indel_rate"`
	CoverRate        float64 `toml:"cover_rate"`
	SeedLen          int     `toml:"seed_len"`
	SeedStep         int     `toml:"seed_step"`
	MaxDiagDiff      int     `toml:"max_diag_diff"`
	MinCoverRate     float64 `toml:"min_cover_rate"`
	BorderRate       float64 `toml:"border_rate"`
	MinHits          int     `toml:"min_hits"`
	MaxOcc           int     `toml:"max_occ"` // mask seeds occurring more often, 0 disables
}

type CfgInfo struct {
	Libs    []LibInfo  `toml:"lib"`
	Overlap OverlapCfg `toml:"overlap"`
}

// ParseCfg reads the TOML configuration file fn.
func ParseCfg(fn string) (cfgInfo CfgInfo, err error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		return cfgInfo, err
	}
	if err = toml.Unmarshal(data, &cfgInfo); err != nil {
		return cfgInfo, fmt.Errorf("[ParseCfg] %s: %w", fn, err)
	}
	for i, lib := range cfgInfo.Libs {
		if lib.Name == "" {
			return cfgInfo, fmt.Errorf("[ParseCfg] %s: lib %d has no name", fn, i)
		}
		if len(lib.FnName) == 0 {
			return cfgInfo, fmt.Errorf("[ParseCfg] %s: lib %s has no files", fn, lib.Name)
		}
		if lib.SeqProfile > Nanopore {
			return cfgInfo, fmt.Errorf("[ParseCfg] %s: lib %s unknown seq_profile %d", fn, lib.Name, lib.SeqProfile)
		}
		for _, f := range lib.FnName {
			if _, _, err = GetReadsFileFormat(f); err != nil {
				return cfgInfo, fmt.Errorf("[ParseCfg] lib %s: %w", lib.Name, err)
			}
		}
	}
	return cfgInfo, nil
}

// WriteCfg writes cfgInfo in the format read by ParseCfg.
func WriteCfg(fn string, cfgInfo CfgInfo) error {
	data, err := toml.Marshal(cfgInfo)
	if err != nil {
		return err
	}
	return os.WriteFile(fn, data, 0644)
}
