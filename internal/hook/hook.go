// Package hook implements the post-tangle hook plugin model of spec.md §9:
// a Hook interface discovered through a static, name-keyed registry rather
// than dynamic plugin loading, matching entangled's configuration-driven
// `hooks = [...]` list.
package hook

import "github.com/v1kko/entangled/internal/model"

// Hook runs after a successful tangle cycle, observing the final
// reference map. Priority reports the hook's ordering weight; Resolve
// keeps hooks in their configured order and does not sort by it.
type Hook interface {
	Priority() int
	PostTangle(refs *model.ReferenceMap) error
}

var registry = map[string]Hook{}

// Register adds a hook under name, overwriting any previous registration.
// Called from init() by built-in hooks and may also be called by callers
// wiring a custom hook before loading configuration.
func Register(name string, h Hook) {
	registry[name] = h
}

// Lookup resolves a configured hook name to its registered Hook.
func Lookup(name string) (Hook, bool) {
	h, ok := registry[name]
	return h, ok
}

// Resolve maps a list of configured hook names (config.Config.Hooks) to
// their registered Hooks, in the given order, skipping any name with no
// registration.
func Resolve(names []string) []Hook {
	var out []Hook
	for _, name := range names {
		if h, ok := Lookup(name); ok {
			out = append(out, h)
		}
	}
	return out
}

func init() {
	Register("wordcount", wordCountHook{})
}
