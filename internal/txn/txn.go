// Package txn implements the transaction engine of spec.md §4.9: a
// Transaction stages write/delete/create-target mutations, classifies each
// one against the current FileDB and filesystem state according to its
// Mode, and only touches real I/O and the database at Commit — after every
// staged action has classified cleanly. An abort (a classification
// failure under FAIL) discards the whole staged buffer; nothing mutates.
// Grounded on the teacher's internal/db WithTx stage-then-commit-or-
// rollback shape, generalized from a SQL transaction to an in-memory write
// buffer per path.
package txn

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/v1kko/entangled/internal/errs"
	"github.com/v1kko/entangled/internal/filedb"
	"github.com/v1kko/entangled/internal/hashutil"
	"github.com/v1kko/entangled/internal/vfs"
)

// Mode selects the commit policy applied to every staged action
// (spec.md §4.9's classification table).
type Mode int

const (
	// FAIL aborts with ConflictError on any out-of-band edit.
	FAIL Mode = iota
	// FORCE overwrites out-of-band edits instead of aborting.
	FORCE
	// SHOW performs no I/O; every action becomes a printed notice.
	SHOW
	// RESETDB rebuilds the database from current disk state without
	// writing or deleting any file.
	RESETDB
)

func (m Mode) String() string {
	switch m {
	case FAIL:
		return "fail"
	case FORCE:
		return "force"
	case SHOW:
		return "show"
	case RESETDB:
		return "resetdb"
	default:
		return "unknown"
	}
}

// Transaction stages mutations against a FileDB/filesystem pair, opened
// under a single Mode.
type Transaction struct {
	ID   uuid.UUID
	mode Mode
	fs   *vfs.FS
	db   *filedb.FileDB
	log  *zap.SugaredLogger

	writes     map[string]string
	deletes    map[string]bool
	produced   map[string]bool
	newTargets map[string]bool
	notices    []string
}

// Begin opens a transaction. Callers are expected to have loaded db under
// its advisory lock first (spec.md §5); Commit releases nothing itself —
// the caller's lock-holding Open/Save pair brackets the whole cycle.
func Begin(fs *vfs.FS, db *filedb.FileDB, mode Mode, log *zap.SugaredLogger) *Transaction {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Transaction{
		ID:         uuid.New(),
		mode:       mode,
		fs:         fs,
		db:         db,
		log:        log,
		writes:     make(map[string]string),
		deletes:    make(map[string]bool),
		produced:   make(map[string]bool),
		newTargets: make(map[string]bool),
	}
}

// Notices returns the lines SHOW mode printed instead of performing I/O,
// in staging order.
func (t *Transaction) Notices() []string {
	return t.notices
}

// Write stages content for path, classified against spec.md §4.9's table.
func (t *Transaction) Write(path, content string) error {
	recorded, recordedOK := t.db.Get(path)
	existsOnDisk := t.fs.Exists(path)

	if !recordedOK {
		if existsOnDisk {
			return t.classify(path, content, "unknown existing file", true, false)
		}
		return t.classify(path, content, "new path", false, false)
	}

	if !existsOnDisk {
		return t.classify(path, content, "known target, missing on disk", true, false)
	}
	diskStat, err := t.fs.StatOf(path)
	if err != nil {
		return err
	}
	if diskStat.Hex == recorded.Hex {
		unchanged := hashutil.Digest(content) == diskStat.Hex
		return t.classify(path, content, "known target matching db", false, unchanged)
	}
	return t.classify(path, content, "known target, out-of-band edit", true, false)
}

// CreateTarget stages content for path exactly as Write does, additionally
// marking path a declared tangle target once the transaction commits.
func (t *Transaction) CreateTarget(path, content string) error {
	if err := t.Write(path, content); err != nil {
		return err
	}
	t.newTargets[path] = true
	return nil
}

// classify applies the commit policy for one write action. outOfBand marks
// the rows of spec.md §4.9's table where FAIL aborts; unchanged marks the
// "known target matching db" row where an identical rewrite is skipped
// entirely, satisfying the tangle-is-idempotent invariant.
func (t *Transaction) classify(path, content, label string, outOfBand, unchanged bool) error {
	if unchanged {
		t.produced[path] = true
		return nil
	}

	switch t.mode {
	case SHOW:
		if outOfBand {
			t.notices = append(t.notices, fmt.Sprintf("warning: %s was edited out of band (%s)", path, label))
		} else {
			t.notices = append(t.notices, "write "+path)
		}
		return nil

	case RESETDB:
		// No I/O ever happens in RESETDB; record whatever is actually on
		// disk if there's a file there, otherwise record the supplied
		// content as if it had been written.
		if t.fs.Exists(path) {
			if stat, err := t.fs.StatOf(path); err == nil {
				t.db.Update(path, stat)
			}
		} else {
			t.db.Update(path, syntheticStat(content))
		}
		t.produced[path] = true
		return nil

	case FAIL:
		if outOfBand {
			return errs.NewConflictError(path)
		}
		t.writes[path] = content
		t.produced[path] = true
		return nil

	case FORCE:
		t.writes[path] = content
		t.produced[path] = true
		return nil

	default:
		return errs.NewInternalError("unknown transaction mode %d", t.mode)
	}
}

// Delete stages path's removal, classified against spec.md §4.9's
// orphan/diverged delete rows.
func (t *Transaction) Delete(path string) error {
	recorded, recordedOK := t.db.Get(path)
	outOfBand := false
	if recordedOK && t.fs.Exists(path) {
		diskStat, err := t.fs.StatOf(path)
		if err != nil {
			return err
		}
		outOfBand = diskStat.Hex != recorded.Hex
	}

	switch t.mode {
	case SHOW:
		if outOfBand {
			t.notices = append(t.notices, "warning: "+path+" was edited out of band, skipping delete")
		} else {
			t.notices = append(t.notices, "delete "+path)
		}
		return nil

	case RESETDB:
		t.db.Forget(path)
		return nil

	case FAIL:
		if outOfBand {
			return errs.NewConflictError(path)
		}
		t.deletes[path] = true
		return nil

	case FORCE:
		t.deletes[path] = true
		return nil

	default:
		return errs.NewInternalError("unknown transaction mode %d", t.mode)
	}
}

// ClearOrphans stages a Delete for every path in db.ManagedFiles that is a
// declared target but was not produced by any successful write this
// transaction (spec.md §4.9).
func (t *Transaction) ClearOrphans() error {
	for _, path := range t.db.ManagedFiles() {
		if !t.db.IsTarget(path) {
			continue
		}
		if t.produced[path] {
			continue
		}
		if err := t.Delete(path); err != nil {
			return err
		}
	}
	return nil
}

// Commit flushes staged writes/deletes to the filesystem and database.
// RESETDB and SHOW have already done their work during staging; FAIL/FORCE
// perform real I/O here, only now that every staged action classified
// without error.
func (t *Transaction) Commit() error {
	t.log.Debugw("committing transaction", "id", t.ID, "mode", t.mode,
		"writes", len(t.writes), "deletes", len(t.deletes))

	switch t.mode {
	case SHOW:
		return nil
	case RESETDB:
		return t.db.Save(t.fs)
	}

	for path := range t.deletes {
		if err := t.fs.Remove(path); err != nil {
			return err
		}
		t.db.Forget(path)
	}
	for path, content := range t.writes {
		if err := t.fs.WriteString(path, content); err != nil {
			return err
		}
		stat, err := t.fs.StatOf(path)
		if err != nil {
			return err
		}
		t.db.Update(path, stat)
	}
	for path := range t.newTargets {
		t.db.CreateTarget(path)
	}
	return t.db.Save(t.fs)
}

func syntheticStat(content string) vfs.Stat {
	return vfs.Stat{Size: int64(len(content)), Hex: hashutil.Digest(content)}
}
