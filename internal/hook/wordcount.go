package hook

import (
	"strings"
	"sync"

	"github.com/v1kko/entangled/internal/model"
)

// wordCountHook counts words tangled per target file, the simplest
// observable thing a post-tangle hook can do: walk the reference map's
// declared targets and sum their expanded block content.
type wordCountHook struct{}

func (wordCountHook) Priority() int { return 0 }

func (wordCountHook) PostTangle(refs *model.ReferenceMap) error {
	counts := make(map[string]int, len(refs.Targets()))
	for _, target := range refs.Targets() {
		counts[target.Path] = countWords(refs, target.Init, make(map[model.ReferenceId]bool))
	}
	wordCountsMu.Lock()
	lastWordCounts = counts
	wordCountsMu.Unlock()
	return nil
}

var (
	wordCountsMu   sync.Mutex
	lastWordCounts map[string]int
)

// WordCounts returns the word counts from the most recent wordcount hook
// run, keyed by target path. Tests read it; no CLI command displays it.
// Empty if the hook has never run.
func WordCounts() map[string]int {
	wordCountsMu.Lock()
	defer wordCountsMu.Unlock()
	out := make(map[string]int, len(lastWordCounts))
	for k, v := range lastWordCounts {
		out[k] = v
	}
	return out
}

func countWords(refs *model.ReferenceMap, ref model.ReferenceId, seen map[model.ReferenceId]bool) int {
	if seen[ref] {
		return 0
	}
	seen[ref] = true

	block, ok := refs.Lookup(ref)
	if !ok {
		return 0
	}

	total := 0
	for _, line := range strings.Split(block.Content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "<<") && strings.HasSuffix(trimmed, ">>") {
			name := model.NewReferenceName(strings.TrimSuffix(strings.TrimPrefix(trimmed, "<<"), ">>"))
			for _, child := range refs.Get(name) {
				total += countWords(refs, child.Ref, seen)
			}
			continue
		}
		total += len(strings.Fields(line))
	}
	return total
}
