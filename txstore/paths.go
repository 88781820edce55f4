package txstore

import (
	"fmt"
	"os"
	"path/filepath"
)

// NetworkDir returns the on-disk directory for a network under datadir:
//
//	datadir/<network>/
func NetworkDir(datadir string, network string) string {
	return filepath.Join(datadir, network)
}

// DBPath returns the bbolt file backing the store for a network.
func DBPath(datadir string, network string) string {
	return filepath.Join(NetworkDir(datadir, network), "db", "txstore.db")
}

func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}
