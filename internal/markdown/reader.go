// Package markdown implements the Markdown reader of spec.md §4.3: it
// decodes a leading YAML header, recognises labelled fenced code blocks,
// and inserts them into a model.ReferenceMap. Grounded on the teacher's
// internal/marshal/frontmatter.go split/decode idiom, generalized from a
// single frontmatter map to fenced-block recognition plus a config
// overlay.
package markdown

import (
	"strings"

	"github.com/v1kko/entangled/internal/config"
	"github.com/v1kko/entangled/internal/errs"
	"github.com/v1kko/entangled/internal/location"
	"github.com/v1kko/entangled/internal/model"
)

// Span marks the 1-based line range a block's content occupies within its
// document's raw text, between the fence open and close lines (exclusive
// of both). EndLine < StartLine means the block is empty.
type Span struct {
	StartLine int
	EndLine   int
}

// Document is the result of reading one Markdown source: its path, the
// inline config override from its YAML header (if any), the raw text (kept
// so the stitcher can rewrite it in place), and each block's line span
// within that text. Spans is populated by Register, not by Parse, since a
// block's ReferenceId isn't known until it's inserted into a ReferenceMap.
type Document struct {
	Path   string
	Update *config.Update
	Text   string
	Spans  map[model.ReferenceId]Span

	blocks []rawBlock
}

type rawBlock struct {
	fence   fenceInfo
	content string
	loc     location.TextLocation
	span    Span
}

// Parse scans text (from path) for labelled fenced code blocks without
// touching a ReferenceMap. Splitting scanning from registration lets a
// caller cache the scan result and defer registration (which assigns
// ordinals and so must run in a fixed document order) until it knows
// where in that order this document falls.
func Parse(path, text string, cfg config.Config) (*Document, error) {
	update, err := readYAMLHeader(text)
	if err != nil {
		return nil, err
	}

	var blocks []rawBlock
	lines := location.NumberedLines(path, text)
	i := 0
	for i < len(lines) {
		fence, ok := matchFenceOpen(lines[i].Text, cfg)
		if !ok {
			i++
			continue
		}

		openLoc := lines[i].Loc
		var content strings.Builder
		closed := false
		j := i + 1
		for ; j < len(lines); j++ {
			if isFenceClose(lines[j].Text, cfg) {
				closed = true
				break
			}
			content.WriteString(lines[j].Text)
		}
		if !closed {
			return nil, errs.NewParseError(openLoc, "unterminated fenced code block")
		}

		if fence.RefName != "" || fence.File != "" {
			blocks = append(blocks, rawBlock{
				fence:   fence,
				content: content.String(),
				loc:     openLoc,
				span:    Span{StartLine: i + 2, EndLine: j},
			})
		}

		i = j + 1
	}

	return &Document{Path: path, Update: update, Text: text, blocks: blocks}, nil
}

// Register inserts every block Parse found into refs, assigning ordinals
// in scan order, and fills in Spans keyed by the resulting ReferenceIds.
// Call Register on documents in the same order every run: ordinal
// assignment (spec.md §4.4) depends on it.
func (d *Document) Register(refs *model.ReferenceMap) error {
	spans := make(map[model.ReferenceId]Span, len(d.blocks))
	for _, b := range d.blocks {
		ref, err := registerBlock(refs, d.Path, b.loc, b.fence, b.content)
		if err != nil {
			return err
		}
		spans[ref] = b.span
	}
	d.Spans = spans
	return nil
}

// Read parses text (from path) into refs, returning the parsed Document,
// whose Update field holds the inline config override. Fenced blocks are recognised per spec.md §4.3; noweb
// references inside their content are left untouched here — expansion is
// the tangler's job (spec.md §4.5).
func Read(path, text string, refs *model.ReferenceMap, cfg config.Config) (*Document, error) {
	doc, err := Parse(path, text, cfg)
	if err != nil {
		return nil, err
	}
	if err := doc.Register(refs); err != nil {
		return nil, err
	}
	return doc, nil
}

func registerBlock(refs *model.ReferenceMap, path string, loc location.TextLocation, fence fenceInfo, content string) (model.ReferenceId, error) {
	name := fence.RefName
	if name == "" {
		name = fence.File
	}
	refName := model.NewReferenceName(name)

	ordinal := refs.NextOrdinal(refName)
	if fence.File != "" {
		ordinal = model.InitOrdinal
	}

	ref := model.ReferenceId{Name: refName, Source: path, Ordinal: ordinal}
	refs.Insert(model.Block{Ref: ref, Content: content, Lang: fence.Lang, Loc: loc})

	if fence.File != "" {
		if !refs.DeclareTarget(fence.File, ref) {
			return ref, errs.NewParseError(loc, "duplicate init declaration for target `"+fence.File+"`")
		}
	}
	return ref, nil
}
