package scan

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/schema"
)

// Scanner finds candidate files and their "any" occurrences for one project.
type Scanner struct {
	cfg *contract.Config
}

// NewScanner creates a scanner bound to a validated config.
func NewScanner(cfg *contract.Config) *Scanner {
	return &Scanner{cfg: cfg}
}

// DiscoverCandidates enumerates candidate source files and scans each for
// "any" occurrences. Results are deterministic: candidates sort by path and
// occurrences are in ascending line order.
func (s *Scanner) DiscoverCandidates(ctx context.Context) ([]schema.FileCandidate, error) {
	// --- 1. Candidate file enumeration ---
	// A recursive grep narrows the file list cheaply; when grep is missing or
	// fails the manual walk produces the same set, just slower.
	files, err := s.grepCandidateFiles(ctx)
	if err != nil {
		files, err = s.walkCandidateFiles()
		if err != nil {
			return nil, err
		}
	}

	// --- 2. Filtering ---
	files = s.filterFiles(files)
	if len(files) == 0 {
		return []schema.FileCandidate{}, nil
	}

	// --- 3. Per-file occurrence scan ---
	candidates := s.scanFiles(files)

	// --- 4. Deterministic ordering ---
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Path < candidates[j].Path
	})
	return candidates, nil
}

// grepCandidateFiles lists files containing the word "any" via a recursive
// grep. Every registry pattern requires "any" as a whole word, so this is a
// strict superset of the real candidate set; scanFiles separates the wheat.
func (s *Scanner) grepCandidateFiles(ctx context.Context) ([]string, error) {
	args := []string{"-r", "-l", "-w", "--include=*.ts", "--include=*.tsx", "any"}
	args = append(args, s.cfg.SourceDirs...)

	cmd := exec.CommandContext(ctx, "grep", args...)
	cmd.Dir = s.cfg.ProjectPath
	out, err := cmd.Output()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Exit code 1 means no matches, which is a valid empty result.
		if exitErr.ExitCode() == 1 {
			return []string{}, nil
		}
		return nil, errors.New("grep failed")
	} else if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	files := make([]string, 0, len(lines))
	for _, line := range lines {
		if line != "" {
			files = append(files, filepath.ToSlash(line))
		}
	}
	return files, nil
}

// walkCandidateFiles enumerates TypeScript files under the configured source
// dirs with a manual directory walk. Missing source dirs are skipped: a
// project that only has src/ should not fail because lib/ is configured.
func (s *Scanner) walkCandidateFiles() ([]string, error) {
	var files []string
	for _, dir := range s.cfg.SourceDirs {
		root := filepath.Join(s.cfg.ProjectPath, dir)
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(s.cfg.ProjectPath, path)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if contract.ShouldIgnore(rel+"/", s.cfg.Excludes) {
					return fs.SkipDir
				}
				return nil
			}
			if isSourceFile(rel) {
				files = append(files, rel)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// filterFiles applies the path filter, excludes and extension check, and
// drops duplicates from overlapping source dirs.
func (s *Scanner) filterFiles(files []string) []string {
	seen := make(map[string]struct{}, len(files))
	filtered := make([]string, 0, len(files))
	pathFilterSet := s.cfg.PathFilter != ""

	for _, f := range files {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}

		if pathFilterSet && !strings.HasPrefix(f, s.cfg.PathFilter) {
			continue
		}
		if contract.ShouldIgnore(f, s.cfg.Excludes) {
			continue
		}
		if !isSourceFile(f) {
			continue
		}
		filtered = append(filtered, f)
	}
	return filtered
}

// scanFiles reads each file and extracts occurrences using a worker pool.
// Files without occurrences produce no candidate.
func (s *Scanner) scanFiles(files []string) []schema.FileCandidate {
	fileCh := make(chan string, len(files))
	resultCh := make(chan schema.FileCandidate, len(files))
	var wg sync.WaitGroup

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	// Start worker pool
	for range workers {
		wg.Go(func() {
			for f := range fileCh {
				candidate, err := s.scanFile(f)
				if err != nil {
					// Unreadable files drop out of the run; the campaign
					// must not abort because one file vanished mid-scan.
					contract.LogWarn("Skipping unreadable file "+f, err)
					continue
				}
				if len(candidate.Occurrences) > 0 {
					resultCh <- candidate
				}
			}
		})
	}

	// Send files to worker channel
	for _, f := range files {
		fileCh <- f
	}
	close(fileCh)

	// Wait for all workers to finish processing
	wg.Wait()
	close(resultCh)

	candidates := make([]schema.FileCandidate, 0, len(files))
	for c := range resultCh {
		candidates = append(candidates, c)
	}
	return candidates
}

// scanFile extracts the occurrences of a single file, one per matching line.
func (s *Scanner) scanFile(relPath string) (schema.FileCandidate, error) {
	data, err := os.ReadFile(filepath.Join(s.cfg.ProjectPath, relPath))
	if err != nil {
		return schema.FileCandidate{}, err
	}

	var occurrences []schema.Occurrence
	for i, line := range strings.Split(string(data), "\n") {
		pattern, ok := MatchLine(line)
		if !ok {
			continue
		}
		occurrences = append(occurrences, schema.Occurrence{
			FilePath:   relPath,
			LineNumber: i + 1,
			Line:       line,
			Pattern:    pattern,
		})
	}
	return schema.FileCandidate{Path: relPath, Occurrences: occurrences}, nil
}

// isSourceFile reports whether the path is a TypeScript source file.
// Declaration files count: their annotations classify with a type-definition
// discount rather than being skipped outright.
func isSourceFile(path string) bool {
	return strings.HasSuffix(path, ".ts") || strings.HasSuffix(path, ".tsx")
}
