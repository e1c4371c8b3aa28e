package txn

import "fmt"

// BackupIntegrityError reports that a backup needed for a restore is missing
// or unreadable. Callers must treat it as fatal: without the backup there is
// no way to undo the mutation it covered.
type BackupIntegrityError struct {
	FilePath string // Working file whose backup is compromised
	Err      error
}

func (e *BackupIntegrityError) Error() string {
	return fmt.Sprintf("backup integrity for %s: %v", e.FilePath, e.Err)
}

func (e *BackupIntegrityError) Unwrap() error {
	return e.Err
}
