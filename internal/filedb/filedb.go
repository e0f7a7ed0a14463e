// Package filedb persists the set of files entangled manages across runs:
// every tangled/stitched path's last-known Stat, and the set of paths that
// currently have an init block declared for them (spec.md §4.8/§6). The
// persisted form is a single JSON document rather than a relational store,
// since the whole state is a small map that's read and rewritten wholesale
// on every run.
package filedb

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"
	"github.com/gofrs/flock"

	"github.com/v1kko/entangled/internal/config"
	"github.com/v1kko/entangled/internal/errs"
	"github.com/v1kko/entangled/internal/vfs"
)

// Dir is the database's directory, relative to the project root.
const Dir = ".entangled"

const fileName = "filedb.json"
const lockName = "filedb.lock"

// FileDB is the persisted state of spec.md §4.8: a schema version, the
// last-known Stat of every file entangled has written or read, and the set
// of paths that are declared tangle targets.
type FileDB struct {
	Version string              `json:"version"`
	Files   map[string]vfs.Stat `json:"files"`
	Targets map[string]bool     `json:"targets"`
}

// New returns an empty FileDB stamped with the tool's current version.
func New() *FileDB {
	return &FileDB{Version: config.ToolVersion, Files: map[string]vfs.Stat{}, Targets: map[string]bool{}}
}

// Open loads the FileDB from fs's .entangled/filedb.json, returning a
// fresh FileDB if none exists yet.
func Open(fs *vfs.FS) (*FileDB, error) {
	path := filepath.Join(Dir, fileName)
	if !fs.Exists(path) {
		return New(), nil
	}

	raw, err := fs.ReadString(path)
	if err != nil {
		return nil, err
	}

	var db FileDB
	if err := json.Unmarshal([]byte(raw), &db); err != nil {
		return nil, errs.NewHelpfulUserError("run `entangled reset`", "failed to parse %s: %v", path, err)
	}
	if db.Version != "" && db.Version != config.ToolVersion {
		return nil, errs.NewHelpfulUserError(
			"run `entangled reset` to regenerate the database for this version",
			"database declares version %q, tool is %q", db.Version, config.ToolVersion)
	}
	if db.Files == nil {
		db.Files = map[string]vfs.Stat{}
	}
	if db.Targets == nil {
		db.Targets = map[string]bool{}
	}
	return &db, nil
}

// Save persists db to fs's .entangled/filedb.json, taking an advisory OS
// file lock first when fs is backed by the real filesystem (spec.md §5:
// locking is bypassed for the in-memory filesystem tests use).
func (db *FileDB) Save(fs *vfs.FS) error {
	unlock, err := acquireLock(fs)
	if err != nil {
		return err
	}
	defer unlock()

	if err := fs.WriteString(filepath.Join(Dir, ".gitignore"), "*\n"); err != nil {
		return err
	}

	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	return fs.WriteString(filepath.Join(Dir, fileName), string(data))
}

func acquireLock(fs *vfs.FS) (func(), error) {
	if !fs.IsReal() {
		return func() {}, nil
	}
	if err := os.MkdirAll(Dir, 0o755); err != nil {
		return nil, err
	}
	fl := flock.New(filepath.Join(Dir, lockName))
	if err := fl.Lock(); err != nil {
		return nil, err
	}
	return func() { _ = fl.Unlock() }, nil
}

// Contains reports whether path has a recorded Stat.
func (db *FileDB) Contains(path string) bool {
	_, ok := db.Files[path]
	return ok
}

// Get returns path's last-known Stat.
func (db *FileDB) Get(path string) (vfs.Stat, bool) {
	s, ok := db.Files[path]
	return s, ok
}

// Update records path's current Stat.
func (db *FileDB) Update(path string, stat vfs.Stat) {
	db.Files[path] = stat
}

// Forget drops path from the database entirely (spec.md §4.9's orphan
// cleanup).
func (db *FileDB) Forget(path string) {
	delete(db.Files, path)
	delete(db.Targets, path)
}

// CreateTarget marks path as a declared tangle target.
func (db *FileDB) CreateTarget(path string) {
	db.Targets[path] = true
}

// IsTarget reports whether path is a currently-declared tangle target.
func (db *FileDB) IsTarget(path string) bool {
	return db.Targets[path]
}

// ManagedFiles returns every path currently declared a tangle target
// (spec.md §4.8), sorted for deterministic iteration. Sources and other
// merely-tracked paths in Files are not targets and are excluded.
func (db *FileDB) ManagedFiles() []string {
	out := make([]string, 0, len(db.Targets))
	for p := range db.Targets {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// trackedPaths returns every path the database holds a recorded Stat for,
// target or not, sorted for deterministic iteration.
func (db *FileDB) trackedPaths() []string {
	out := make([]string, 0, len(db.Files))
	for p := range db.Files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ChangedFiles compares every tracked path's recorded Stat against fs's
// current state, returning paths whose content digest no longer matches
// (an out-of-band edit) separately from paths that vanished entirely.
func (db *FileDB) ChangedFiles(fs *vfs.FS) (changed []string, missing []string) {
	for _, path := range db.trackedPaths() {
		if !fs.Exists(path) {
			missing = append(missing, path)
			continue
		}
		current, err := fs.StatOf(path)
		if err != nil {
			missing = append(missing, path)
			continue
		}
		if recorded := db.Files[path]; recorded.Hex != current.Hex {
			changed = append(changed, path)
		}
	}
	return changed, missing
}

// Orphans returns targets recorded in the database that are no longer
// declared by the currently-loaded reference map, given its set of live
// target paths (spec.md §4.9's orphan condition).
func (db *FileDB) Orphans(liveTargets map[string]bool) []string {
	var out []string
	for path := range db.Targets {
		if !liveTargets[path] {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}
