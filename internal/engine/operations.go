package engine

import (
	"sort"

	"github.com/v1kko/entangled/internal/filedb"
	"github.com/v1kko/entangled/internal/hashutil"
	"github.com/v1kko/entangled/internal/model"
	"github.com/v1kko/entangled/internal/stitch"
	"github.com/v1kko/entangled/internal/tangle"
	"github.com/v1kko/entangled/internal/txn"
	"github.com/v1kko/entangled/internal/vfs"
)

// Result reports what an operation did, for the CLI to render. Sizes
// holds each written (or, under SHOW, would-be-written) target's tangled
// byte length, keyed by path, so the CLI can render human-readable sizes
// without re-reading the target back off disk.
type Result struct {
	Notices []string
	Wrote   []string
	Sizes   map[string]int64
}

// Tangle runs the tangle pipeline: load every Markdown source, expand
// every declared target, clear targets no longer produced, and commit
// under mode (spec.md §4.5, §4.9). Post-tangle hooks run after a
// successful commit.
func (c *Context) Tangle(mode txn.Mode) (*Result, error) {
	db, err := filedb.Open(c.FS)
	if err != nil {
		return nil, err
	}

	loaded, err := c.LoadDocuments()
	if err != nil {
		return nil, err
	}

	tx := txn.Begin(c.FS, db, mode, c.Log)

	targets := loaded.Refs.Targets()
	sort.Slice(targets, func(i, j int) bool { return targets[i].Path < targets[j].Path })

	var wrote []string
	sizes := make(map[string]int64, len(targets))
	for _, target := range targets {
		cfg := loaded.ConfigFor(target.Init.Source, c.Config)
		content, err := tangle.Tangle(loaded.Refs, target.Path, cfg)
		if err != nil {
			return nil, err
		}
		if err := tx.CreateTarget(target.Path, content); err != nil {
			return nil, err
		}
		wrote = append(wrote, target.Path)
		sizes[target.Path] = int64(len(content))
	}

	if err := tx.ClearOrphans(); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	for _, h := range c.Hooks {
		if err := h.PostTangle(loaded.Refs); err != nil {
			return nil, err
		}
	}

	return &Result{Notices: tx.Notices(), Wrote: wrote, Sizes: sizes}, nil
}

// Stitch reads every declared target file back through the back-reader,
// diffs it against the reference map, and rewrites the originating
// Markdown source in place for every block that changed (spec.md §4.7).
// A stitched target's recorded database Stat is refreshed to match its
// current on-disk content: stitch is the operation that reconciles an
// out-of-band edit, so once it has folded that edit back into the source,
// the edit is no longer "out of band" from the database's point of view.
//
// The Markdown rewrite itself is staged through the same txn.Transaction
// Tangle commits through, under mode, so a Markdown source touched by
// something other than entangled between load and commit is caught as a
// conflict exactly the way an out-of-band-edited target is (spec.md §4.9)
// rather than being overwritten silently.
func (c *Context) Stitch(mode txn.Mode) (*Result, error) {
	loaded, err := c.LoadDocuments()
	if err != nil {
		return nil, err
	}

	db, err := filedb.Open(c.FS)
	if err != nil {
		return nil, err
	}

	combined := stitch.Changes{}
	for _, target := range loaded.Refs.Targets() {
		if !c.FS.Exists(target.Path) {
			continue
		}
		content, err := c.FS.ReadString(target.Path)
		if err != nil {
			return nil, err
		}
		changes, err := stitch.Recover(loaded.Refs, target.Path, content)
		if err != nil {
			return nil, err
		}
		mergeChanges(combined, changes)

		stat, err := c.FS.StatOf(target.Path)
		if err != nil {
			return nil, err
		}
		db.Update(target.Path, stat)
		db.CreateTarget(target.Path)
	}

	tx := txn.Begin(c.FS, db, mode, c.Log)

	var wrote []string
	for source, edits := range combined {
		doc, ok := loaded.Docs[source]
		if !ok {
			continue
		}
		newText, changed := stitch.Apply(doc, edits)
		if !changed {
			continue
		}

		// The source's last-known Stat is whatever the previous commit
		// recorded for it; seed it from the text we just loaded only the
		// first time this source is ever written through, so classification
		// compares against that prior commit rather than against itself.
		if _, ok := db.Get(source); !ok {
			db.Update(source, vfs.Stat{Size: int64(len(doc.Text)), Hex: hashutil.Digest(doc.Text)})
		}
		if err := tx.Write(source, newText); err != nil {
			return nil, err
		}
		wrote = append(wrote, source)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Result{Notices: tx.Notices(), Wrote: wrote}, nil
}

func mergeChanges(dst, src stitch.Changes) {
	for source, edits := range src {
		if dst[source] == nil {
			dst[source] = make(map[model.ReferenceId]string)
		}
		for ref, content := range edits {
			dst[source][ref] = content
		}
	}
}

// Sync runs Stitch then Tangle: out-of-band edits are folded back into the
// Markdown sources first, then every target is re-expanded from the
// updated sources (spec.md §6's `sync` command).
func (c *Context) Sync(mode txn.Mode) (*Result, error) {
	if _, err := c.Stitch(mode); err != nil {
		return nil, err
	}
	return c.Tangle(mode)
}

// Reset rebuilds the database from current disk state without writing or
// deleting any file (spec.md §6's `reset` command, RESETDB mode).
func (c *Context) Reset() (*Result, error) {
	return c.Tangle(txn.RESETDB)
}
