package txn

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/schema"
)

// memoryWarnBytes is the heap size above which a build validation carries a
// memory warning.
const memoryWarnBytes = 512 << 20

// ValidateBuild proves overall build health after a batch: a full compiler
// check, an optional scoped test run, and a wall-clock bound. A check that
// exceeds cfg.MaxBuildTime fails the validation even when it compiled clean.
func ValidateBuild(ctx context.Context, checker contract.TypeChecker, cfg *contract.Config) schema.BuildValidation {
	v := schema.BuildValidation{}

	// --- 1. Compiler check with wall-clock accounting ---
	start := time.Now()
	diags, err := checker.Check(ctx, cfg.ProjectPath)
	v.BuildTime = time.Since(start)
	if err != nil {
		v.Errors = []string{fmt.Sprintf("compiler check did not run: %v", err)}
		v.ErrorCount = 1
		return v
	}
	v.Errors = diags
	v.ErrorCount = len(diags)
	if v.ErrorCount > 0 {
		return v
	}

	maxBuild := cfg.MaxBuildTime
	if maxBuild <= 0 {
		maxBuild = contract.DefaultMaxBuildTime
	}
	if v.BuildTime > maxBuild {
		v.Errors = []string{fmt.Sprintf("build took %s, above the %s limit", v.BuildTime.Round(time.Millisecond), maxBuild)}
		v.ErrorCount = 1
		return v
	}

	// --- 2. Resource pressure ---
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	v.MemoryWarning = mem.HeapAlloc > memoryWarnBytes

	// --- 3. Optional scoped test run ---
	if cfg.RunTests {
		v.TestsRun = true
		if err := checker.RunTests(ctx, cfg.ProjectPath, cfg.TestScope); err != nil {
			v.Errors = append(v.Errors, fmt.Sprintf("tests failed: %v", err))
			v.ErrorCount = len(v.Errors)
			return v
		}
		v.TestsPassed = true
	}

	v.Success = true
	return v
}

// VerifyRollbackCapability proves each enrolled backup can actually restore
// its file: the backup must exist, be non-empty and readable, and a dry-run
// restore into a scratch directory must byte-match the backup. Working files
// are never written.
func (t *Transaction) VerifyRollbackCapability() schema.RollbackCheck {
	check := schema.RollbackCheck{Verified: true}

	scratch, err := os.MkdirTemp("", "typesweep-restore-*")
	if err != nil {
		check.Verified = false
		check.Problems = append(check.Problems, fmt.Sprintf("scratch dir: %v", err))
		return check
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	for i, rel := range t.order {
		check.CheckedFiles++
		backupPath := t.backups[rel]

		info, err := os.Stat(backupPath)
		if err != nil {
			check.Verified = false
			check.Problems = append(check.Problems, fmt.Sprintf("%s: backup missing: %v", rel, err))
			continue
		}
		if info.Size() == 0 {
			check.Verified = false
			check.Problems = append(check.Problems, fmt.Sprintf("%s: backup is empty", rel))
			continue
		}

		data, err := os.ReadFile(backupPath)
		if err != nil {
			check.Verified = false
			check.Problems = append(check.Problems, fmt.Sprintf("%s: backup unreadable: %v", rel, err))
			continue
		}

		// Dry-run restore into scratch, then byte-compare against the backup.
		target := filepath.Join(scratch, fmt.Sprintf("restore-%d", i))
		if err := os.WriteFile(target, data, 0o600); err != nil {
			check.Verified = false
			check.Problems = append(check.Problems, fmt.Sprintf("%s: dry-run restore: %v", rel, err))
			continue
		}
		restored, err := os.ReadFile(target)
		if err != nil || !bytes.Equal(restored, data) {
			check.Verified = false
			check.Problems = append(check.Problems, fmt.Sprintf("%s: dry-run restore does not match backup", rel))
		}
	}
	return check
}
