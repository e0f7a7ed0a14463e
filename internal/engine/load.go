package engine

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/v1kko/entangled/internal/config"
	"github.com/v1kko/entangled/internal/markdown"
	"github.com/v1kko/entangled/internal/model"
	"github.com/v1kko/entangled/internal/vfs"
)

// Loaded is the result of reading the whole project: the combined
// reference map, every source Document keyed by path (for the stitcher),
// and each document's effective configuration after folding in its own
// YAML header override (spec.md §9's inline config override note).
type Loaded struct {
	Refs       *model.ReferenceMap
	Docs       map[string]*markdown.Document
	DocConfigs map[string]config.Config
}

// ConfigFor returns the effective configuration for the document that
// declared ref's source, falling back to base when unknown.
func (l *Loaded) ConfigFor(source string, base config.Config) config.Config {
	if cfg, ok := l.DocConfigs[source]; ok {
		return cfg
	}
	return base
}

// LoadDocuments expands the configured watch_list, reads every matched
// Markdown source, and builds the combined reference map. File I/O
// happens in parallel (golang.org/x/sync/errgroup), but each document is
// inserted into the shared reference map in sorted path order, so ordinal
// assignment stays deterministic regardless of read completion order.
func (c *Context) LoadDocuments() (*Loaded, error) {
	paths, err := expandWatchList(c.FS, c.Config.WatchList, c.Config.IgnoreList)
	if err != nil {
		return nil, err
	}

	parsed := make([]*markdown.Document, len(paths))
	var group errgroup.Group
	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			doc, err := c.readDocument(path)
			if err != nil {
				return err
			}
			parsed[i] = doc
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := &Loaded{
		Refs:       model.NewReferenceMap(),
		Docs:       make(map[string]*markdown.Document, len(paths)),
		DocConfigs: make(map[string]config.Config, len(paths)),
	}
	for i, path := range paths {
		doc := parsed[i]
		if err := doc.Register(result.Refs); err != nil {
			return nil, err
		}
		result.Docs[path] = doc
		result.DocConfigs[path] = c.Config.Merge(doc.Update)
	}
	return result, nil
}

// cachedDoc pairs a parsed Document with the disk stat it was parsed
// from, so a cache hit can be invalidated the instant the file changes.
type cachedDoc struct {
	modTime time.Time
	size    int64
	doc     *markdown.Document
}

// readDocument parses path, reusing the previous parse when the file's
// mtime and size haven't moved since. Sequential syncs during a watch
// session re-read every watched path on each debounce tick; most of them
// haven't changed, so skipping the fence scan for those pays off.
func (c *Context) readDocument(path string) (*markdown.Document, error) {
	info, err := c.FS.Stat(path)
	if err != nil {
		return nil, err
	}

	if cached, ok := c.docCache.Get(path); ok && cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
		return cached.doc, nil
	}

	text, err := c.FS.ReadString(path)
	if err != nil {
		return nil, err
	}
	doc, err := markdown.Parse(path, text, c.Config)
	if err != nil {
		return nil, err
	}

	c.docCache.Set(path, cachedDoc{modTime: info.ModTime(), size: info.Size(), doc: doc})
	return doc, nil
}

// expandWatchList resolves glob patterns against fs, supporting a leading
// "**/" segment for recursive matching (afero/filepath.Match has no
// built-in recursive glob), then drops any path matching an ignore
// pattern.
func expandWatchList(fs *vfs.FS, patterns, ignore []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	for _, pattern := range patterns {
		matches, err := globPattern(fs, pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if seen[m] || matchesAny(ignore, m) {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}

	sort.Strings(out)
	return out, nil
}

func globPattern(fs *vfs.FS, pattern string) ([]string, error) {
	if !strings.Contains(pattern, "**") {
		return fs.Glob(pattern)
	}

	suffix := strings.TrimPrefix(pattern, "**/")
	var out []string
	err := afero.Walk(fs.Fs, ".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ok, err := filepath.Match(suffix, filepath.Base(path))
		if err != nil {
			return err
		}
		if ok {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

func matchesAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, path); ok {
			return true
		}
		if ok, _ := filepath.Match(p, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}
