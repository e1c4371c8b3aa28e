// Package txn applies source replacements under a durable-backup transaction.
//
// Every mutation follows the same contract: a timestamped backup of the file
// is written before the first byte of the working copy changes, and a failed
// validation restores the pre-mutation content from that backup. The backup
// directory is append-only for the life of a run and is the sole undo
// mechanism.
package txn

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// backupStampLayout is the timestamp embedded in backup file names.
const backupStampLayout = "20060102T150405.000"

// Transaction scopes a set of file mutations to one undo boundary. Begin
// takes the backups, Commit keeps the mutations, Rollback restores every
// touched file. A Transaction is single-use and not safe for concurrent use;
// the campaign loop drives it strictly sequentially.
type Transaction struct {
	projectPath string
	backupRoot  string
	stamp       string

	backups map[string]string   // relative path -> absolute backup path
	order   []string            // enrollment order, for deterministic restores
	touched map[string]struct{} // relative paths with modified working copies
}

// NewTransaction creates an empty transaction rooted at the project.
// Backups land under backupRoot, which is created on Begin.
func NewTransaction(projectPath, backupRoot string) *Transaction {
	return &Transaction{
		projectPath: projectPath,
		backupRoot:  backupRoot,
		stamp:       time.Now().UTC().Format(backupStampLayout),
		backups:     make(map[string]string),
		touched:     make(map[string]struct{}),
	}
}

// Begin enrolls the given files, writing one durable backup per file before
// returning. A failure on any file aborts enrollment with no working file
// modified; backups already written stay behind as harmless extra copies.
// Re-enrolling a file keeps its original pre-mutation backup.
func (t *Transaction) Begin(files []string) error {
	if err := os.MkdirAll(t.backupRoot, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	for _, rel := range files {
		if _, ok := t.backups[rel]; ok {
			continue
		}
		data, err := os.ReadFile(filepath.Join(t.projectPath, rel))
		if err != nil {
			return fmt.Errorf("read %s for backup: %w", rel, err)
		}
		backupPath := t.backupPathFor(rel)
		if err := os.WriteFile(backupPath, data, 0o644); err != nil {
			return fmt.Errorf("write backup for %s: %w", rel, err)
		}
		t.backups[rel] = backupPath
		t.order = append(t.order, rel)
	}
	return nil
}

// Commit accepts all mutations. Backups are kept on disk for audit and for
// the rollback-capability self-check; only the undo obligation is cleared.
func (t *Transaction) Commit() {
	t.touched = make(map[string]struct{})
}

// Rollback restores every touched file from its backup, in enrollment order.
// It restores as many files as it can; the first failure is reported after
// the sweep finishes so one bad backup does not strand the rest.
func (t *Transaction) Rollback() error {
	var firstErr error
	for _, rel := range t.order {
		if _, dirty := t.touched[rel]; !dirty {
			continue
		}
		if err := t.restore(rel); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		delete(t.touched, rel)
	}
	return firstErr
}

// RollbackFile restores a single touched file from its backup.
func (t *Transaction) RollbackFile(rel string) error {
	if err := t.restore(rel); err != nil {
		return err
	}
	delete(t.touched, rel)
	return nil
}

// TouchedFiles returns the enrolled files whose working copies have been
// modified and not rolled back, in enrollment order.
func (t *Transaction) TouchedFiles() []string {
	out := make([]string, 0, len(t.touched))
	for _, rel := range t.order {
		if _, dirty := t.touched[rel]; dirty {
			out = append(out, rel)
		}
	}
	return out
}

// BackupPathFor returns the backup location for an enrolled file and whether
// the file is enrolled at all.
func (t *Transaction) BackupPathFor(rel string) (string, bool) {
	p, ok := t.backups[rel]
	return p, ok
}

// backupPathFor derives the deterministic backup name for a relative path.
// Separators flatten to "__" so one directory holds the whole run.
func (t *Transaction) backupPathFor(rel string) string {
	flat := strings.ReplaceAll(filepath.ToSlash(rel), "/", "__")
	return filepath.Join(t.backupRoot, flat+"."+t.stamp+".bak")
}

// restore copies the backup content over the working file. A missing or
// unreadable backup surfaces as a BackupIntegrityError.
func (t *Transaction) restore(rel string) error {
	backupPath, ok := t.backups[rel]
	if !ok {
		return &BackupIntegrityError{FilePath: rel, Err: errors.New("no backup enrolled")}
	}
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return &BackupIntegrityError{FilePath: rel, Err: err}
	}
	if err := os.WriteFile(filepath.Join(t.projectPath, rel), data, 0o644); err != nil {
		return fmt.Errorf("restore %s: %w", rel, err)
	}
	return nil
}
