package txn

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/schema"
)

// ApplyReplacement performs one guarded substitution: mutate the line, then
// optionally prove the project still compiles. A validation failure restores
// the file from its backup and reports the parsed compiler errors. The
// returned error is reserved for restore failures, which callers must treat
// as fatal.
func (t *Transaction) ApplyReplacement(ctx context.Context, checker contract.TypeChecker, r schema.Replacement) (schema.ReplacementResult, error) {
	// --- 1. Guarded line substitution ---
	res := t.applyLine(r)
	if !res.Success || !r.ValidationRequired {
		return res, nil
	}

	// --- 2. Bounded compiler check ---
	diags, err := checker.Check(ctx, t.projectPath)
	if err != nil {
		// The check never ran, so the mutation is unproven and must not stay.
		if restoreErr := t.RollbackFile(r.FilePath); restoreErr != nil {
			return res, restoreErr
		}
		res.Success = false
		res.RollbackPerformed = true
		res.Reason = fmt.Sprintf("compiler check did not run: %v", err)
		return res, nil
	}
	if len(diags) > 0 {
		if restoreErr := t.RollbackFile(r.FilePath); restoreErr != nil {
			return res, restoreErr
		}
		res.Success = false
		res.RollbackPerformed = true
		res.CompilerErrors = diags
		res.Reason = fmt.Sprintf("%d compiler errors after substitution", len(diags))
		return res, nil
	}
	return res, nil
}

// ProcessBatch applies every replacement, then runs one consolidated compiler
// check over the project. If the check reports errors or cannot run, every
// file the batch touched is restored, including files whose individual write
// succeeded. The returned error is reserved for restore failures.
func (t *Transaction) ProcessBatch(ctx context.Context, checker contract.TypeChecker, replacements []schema.Replacement) (schema.BatchApplyResult, error) {
	result := schema.BatchApplyResult{FilesModified: []string{}}

	// --- 1. Apply all substitutions ---
	modified := make(map[string]struct{})
	for _, r := range replacements {
		res := t.applyLine(r)
		if !res.Success {
			// A stale line is a per-item no-op; the rest of the batch proceeds.
			contract.LogWarn(fmt.Sprintf("Skipping %s:%d", r.FilePath, r.LineNumber), errors.New(res.Reason))
			continue
		}
		result.Applied++
		if _, seen := modified[r.FilePath]; !seen {
			modified[r.FilePath] = struct{}{}
			result.FilesModified = append(result.FilesModified, r.FilePath)
		}
	}
	if result.Applied == 0 {
		// Nothing was mutated, so there is nothing to validate.
		result.Success = true
		return result, nil
	}

	// --- 2. One consolidated compiler check ---
	diags, err := checker.Check(ctx, t.projectPath)
	if err != nil {
		diags = []string{fmt.Sprintf("compiler check did not run: %v", err)}
	}
	if len(diags) == 0 {
		result.Success = true
		return result, nil
	}

	// --- 3. Whole-batch restore ---
	result.CompilerErrors = diags
	if rbErr := t.Rollback(); rbErr != nil {
		return result, rbErr
	}
	result.RollbackPerformed = true
	return result, nil
}

// applyLine performs the exact literal substitution for one replacement.
// The file must be enrolled and its current line must match the expected
// original byte for byte. Any mismatch is a no-op failure, never a crash.
func (t *Transaction) applyLine(r schema.Replacement) schema.ReplacementResult {
	res := schema.ReplacementResult{FilePath: r.FilePath, LineNumber: r.LineNumber}

	if _, enrolled := t.backups[r.FilePath]; !enrolled {
		res.Reason = "file not enrolled in transaction, no backup exists"
		return res
	}

	abs := filepath.Join(t.projectPath, r.FilePath)
	data, err := os.ReadFile(abs)
	if err != nil {
		res.Reason = fmt.Sprintf("read failed: %v", err)
		return res
	}

	lines := strings.Split(string(data), "\n")
	if r.LineNumber < 1 || r.LineNumber > len(lines) {
		res.Reason = fmt.Sprintf("line %d out of range (file has %d lines)", r.LineNumber, len(lines))
		return res
	}
	if lines[r.LineNumber-1] != r.Original {
		res.Reason = "line text changed since discovery"
		return res
	}

	// Marked touched before the write: a partial write leaves the file dirty
	// and rollback must cover it.
	lines[r.LineNumber-1] = r.Updated
	t.touched[r.FilePath] = struct{}{}
	if err := os.WriteFile(abs, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		res.Reason = fmt.Sprintf("write failed: %v", err)
		return res
	}
	res.Success = true
	return res
}
