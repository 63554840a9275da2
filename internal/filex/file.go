// Package filex contains small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureParentDir creates the directory that will hold file, if missing.
// Paths without a directory component are left alone. In-memory SQLite
// DSNs (":memory:" or "file:...") are not touched either.
func EnsureParentDir(file string) error {
	if file == "" || file == ":memory:" || strings.HasPrefix(file, "file:") {
		return nil
	}

	dir := filepath.Dir(file)
	if dir == "." || dir == "" {
		return nil
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
