package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hgvskit/hgvskit/internal/cache"
	"github.com/hgvskit/hgvskit/internal/provider"
	"github.com/hgvskit/hgvskit/internal/vconfig"
)

// defaultHgvskitPath returns the root directory hgvskit downloads reference
// data into: ~/.hgvskit/<assembly>.
func defaultHgvskitPath(assembly string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".hgvskit", strings.ToLower(assembly))
}

// findGENCODEFiles looks for a DuckDB cache, or a GTF+FASTA pair, under dir.
// Every path that matches is returned (empty when not found); the caller
// decides which one takes priority.
func findGENCODEFiles(dir, assembly string) (duckdbPath, gtfPath, fastaPath, genomeFastaPath, canonicalPath string) {
	if matches, _ := filepath.Glob(filepath.Join(dir, "*.duckdb")); len(matches) > 0 {
		duckdbPath = matches[0]
	}

	assemblyLower := strings.ToLower(assembly)
	gtfPattern := "gencode.v*.annotation.gtf.gz"
	fastaPattern := "gencode.v*.pc_transcripts.fa.gz"
	if assemblyLower == "grch37" {
		gtfPattern = "gencode.v*lift37.annotation.gtf.gz"
		fastaPattern = "gencode.v*lift37.pc_transcripts.fa.gz"
	}

	if matches, _ := filepath.Glob(filepath.Join(dir, gtfPattern)); len(matches) > 0 {
		gtfPath = matches[0]
	}
	if matches, _ := filepath.Glob(filepath.Join(dir, fastaPattern)); len(matches) > 0 {
		fastaPath = matches[0]
	}
	if matches, _ := filepath.Glob(filepath.Join(dir, "*.genome.fa.gz")); len(matches) > 0 {
		genomeFastaPath = matches[0]
	}

	cPath := filepath.Join(dir, cache.CanonicalFileName())
	if _, err := os.Stat(cPath); err == nil {
		canonicalPath = cPath
	}
	return
}

// openProvider resolves effective assembly/cache settings from persisted
// config plus any CLI overrides, then loads a provider.Gencode from
// whichever reference data is on disk: a pre-converted DuckDB cache takes
// priority over a raw GTF/FASTA pair.
func openProvider() (*provider.Gencode, error) {
	cfg, err := vconfig.Load(flagConfigPath)
	if err != nil {
		return nil, err
	}

	assembly := cfg.Assembly
	if flagAssembly != "" {
		assembly = flagAssembly
	}
	if assembly == "" {
		assembly = "GRCh38"
	}

	dir := cfg.Provider.CachePath
	if flagCachePath != "" {
		dir = flagCachePath
	}
	if dir == "" {
		dir = defaultHgvskitPath(assembly)
	}

	if logger != nil {
		logger.Debug("resolving reference data", zap.String("assembly", assembly), zap.String("dir", dir))
	}

	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		// --cache pointed directly at a DuckDB file.
		return provider.NewGencodeFromDuckDB(dir, "")
	}

	duckdbPath, gtfPath, fastaPath, genomeFastaPath, canonicalPath := findGENCODEFiles(dir, assembly)
	if duckdbPath != "" {
		return provider.NewGencodeFromDuckDB(duckdbPath, genomeFastaPath)
	}
	if gtfPath == "" {
		return nil, fmt.Errorf("no GENCODE cache found in %s\nhint: run `hgvskit download --assembly %s` first", dir, assembly)
	}
	return provider.NewGencodeCached(provider.GencodeOptions{
		GTFPath:               gtfPath,
		TranscriptFASTAPath:   fastaPath,
		GenomeFASTAPath:       genomeFastaPath,
		CanonicalOverridesTSV: canonicalPath,
	}, dir)
}
