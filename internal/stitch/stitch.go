// Package stitch implements the stitcher of spec.md §4.7: it reads an
// out-of-band-edited target file back through internal/codefile, diffs the
// recovered blocks against the reference map's current content, and
// rewrites the originating Markdown source text in place — the inverse of
// internal/tangle. Grounded on the teacher's internal/marshal frontmatter
// split/join idiom, run in reverse: there it split a raw document into a
// header and body; here it splices an edited span back into its source.
package stitch

import (
	"sort"
	"strings"

	"github.com/v1kko/entangled/internal/codefile"
	"github.com/v1kko/entangled/internal/location"
	"github.com/v1kko/entangled/internal/markdown"
	"github.com/v1kko/entangled/internal/model"
)

// Changes groups recovered block edits by the Markdown source document
// they originated from.
type Changes map[string]map[model.ReferenceId]string

// Recover back-reads a target file's current on-disk content, and returns
// every block whose recovered content differs from what refs currently
// holds, grouped by originating source path. It also applies each
// difference to refs in place, so a subsequent Tangle reflects the edit.
func Recover(refs *model.ReferenceMap, path, content string) (Changes, error) {
	input := location.NewInputStream(path, content)
	blocks, err := codefile.ReadTopLevel(input)
	if err != nil {
		return nil, err
	}

	changes := Changes{}
	for _, b := range blocks {
		old, ok := refs.Lookup(b.Ref)
		if !ok || old.Content == b.Content {
			continue
		}
		refs.ReplaceBlock(b.Ref, b.Content)

		src := changes[b.Ref.Source]
		if src == nil {
			src = make(map[model.ReferenceId]string)
			changes[b.Ref.Source] = src
		}
		src[b.Ref] = b.Content
	}
	return changes, nil
}

// Apply splices edits into doc's raw text at each edited block's recorded
// Span, returning the rewritten text and whether anything changed. Blocks
// named in edits that doc does not know about (already stitched by a
// previous pass, or belonging to a different document) are skipped.
func Apply(doc *markdown.Document, edits map[model.ReferenceId]string) (string, bool) {
	type replacement struct {
		start, end int
		lines      []string
	}

	var repls []replacement
	for ref, content := range edits {
		span, ok := doc.Spans[ref]
		if !ok {
			continue
		}
		repls = append(repls, replacement{start: span.StartLine, end: span.EndLine, lines: location.Lines(content)})
	}
	if len(repls) == 0 {
		return doc.Text, false
	}
	sort.Slice(repls, func(i, j int) bool { return repls[i].start < repls[j].start })

	lines := location.Lines(doc.Text)
	var out strings.Builder
	cursor := 1
	for _, r := range repls {
		for cursor < r.start {
			out.WriteString(lines[cursor-1])
			cursor++
		}
		for _, l := range r.lines {
			out.WriteString(l)
		}
		cursor = r.end + 1
	}
	for cursor <= len(lines) {
		out.WriteString(lines[cursor-1])
		cursor++
	}
	return out.String(), true
}
