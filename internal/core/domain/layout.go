package domain

import "path/filepath"

const (
	// CacheDirName is the name of the default persistent store directory.
	CacheDirName = ".menucache"

	// SnapshotFileName is the name of the persisted menu snapshot.
	SnapshotFileName = "menu.json"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "menucache.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCachePath returns the default directory of the persistent store.
func DefaultCachePath() string {
	return CacheDirName
}

// SnapshotPath returns the snapshot file inside dir.
func SnapshotPath(dir string) string {
	return filepath.Join(dir, SnapshotFileName)
}
