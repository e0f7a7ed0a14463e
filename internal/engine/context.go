// Package engine wires the core components — config, vfs, filedb, the
// Markdown reader, the tangler, the stitcher, the transaction engine, and
// hooks — into the four operations the CLI exposes: tangle, stitch, sync,
// and reset. Grounded on original_source/entangled/interface/context.py's
// Context dataclass and original_source/entangled/commands/tangle.py's
// do_tangle orchestration, translated into an explicit Go struct per
// spec.md §9's "Context object threading" note.
package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/v1kko/entangled/internal/config"
	"github.com/v1kko/entangled/internal/hook"
	"github.com/v1kko/entangled/internal/vfs"
)

// docCacheTTL bounds how long a parsed Document survives between watch
// cycles. A watch session reparses the same handful of sources on every
// debounced sync; anything modtime-stable within this window is served
// from memory instead of re-run through the fenced-block scanner.
const docCacheTTL = 10 * time.Minute

// Context bundles the collaborators every operation needs: the virtual
// filesystem, the resolved configuration, the hooks its configuration
// names, a parsed-document cache, and a logger.
type Context struct {
	FS       *vfs.FS
	Config   config.Config
	Hooks    []hook.Hook
	Log      *zap.SugaredLogger
	docCache *docCache
}

// New builds a Context from a loaded configuration, resolving its
// configured hook names against the static registry.
func New(fs *vfs.FS, cfg config.Config, log *zap.SugaredLogger) *Context {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Context{
		FS:       fs,
		Config:   cfg,
		Hooks:    hook.Resolve(cfg.Hooks),
		Log:      log,
		docCache: newDocCache(docCacheTTL),
	}
}
