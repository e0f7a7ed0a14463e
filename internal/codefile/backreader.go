// Package codefile implements the back-reader of spec.md §4.6: it parses
// a previously-tangled file, recognising the `~/~ begin`/`~/~ end`
// annotation grammar, and recovers the Blocks it was tangled from.
// Translated directly from original_source/entangled/readers/code.py's
// recursive-descent algorithm into an explicit Go InputStream per
// spec.md §9 (peekable generators become an InputStream type).
package codefile

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/v1kko/entangled/internal/errs"
	"github.com/v1kko/entangled/internal/location"
	"github.com/v1kko/entangled/internal/model"
)

var (
	openPattern  = regexp.MustCompile(`^(?P<indent>\s*).* ~/~ begin <<(?P<source>[^#<>]+)#(?P<ref_name>[^#<>]+)>>\[(?P<ord>\d+|init)\]`)
	closePattern = regexp.MustCompile(`^(?P<indent>\s*).* ~/~ end`)
)

type openMatch struct {
	ref    model.ReferenceId
	isInit bool
	indent string
}

func matchOpen(line string) (openMatch, bool) {
	m := openPattern.FindStringSubmatch(line)
	if m == nil {
		return openMatch{}, false
	}
	indent := m[openPattern.SubexpIndex("indent")]
	source := m[openPattern.SubexpIndex("source")]
	refName := m[openPattern.SubexpIndex("ref_name")]
	ordStr := m[openPattern.SubexpIndex("ord")]

	isInit := ordStr == "init"
	ordinal := model.InitOrdinal
	if !isInit {
		ordinal, _ = strconv.Atoi(ordStr)
	}

	ref := model.ReferenceId{Name: model.NewReferenceName(refName), Source: source, Ordinal: ordinal}
	return openMatch{ref: ref, isInit: isInit, indent: indent}, true
}

func matchClose(line string) (indent string, ok bool) {
	m := closePattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[closePattern.SubexpIndex("indent")], true
}

// ReadTopLevel parses all annotated blocks out of input, discarding
// top-level lines that are not part of any annotated block (file headers
// or trailers outside any named block, spec.md §4.6 rule 1).
func ReadTopLevel(input *location.InputStream) ([]model.Block, error) {
	var blocks []model.Block
	for !input.Empty() {
		read, _, err := readBlock(nil, "", input)
		if err != nil {
			return nil, err
		}
		if read == nil {
			input.Next()
			continue
		}
		blocks = append(blocks, read...)
	}
	return blocks, nil
}

// readBlock reads one nested block rooted at the stream's current
// position. namespace is the enclosing block's reference namespace, used
// only to decide whether a nested reference prints bare or dotted
// (spec.md §9's namespace threading note — it has no bearing on parsing).
// It returns the recovered blocks (including nested ones), the indented
// `<<ref>>` placeholder line that should replace this block in its
// parent's content, and any error. The placeholder is "" for an init
// block, and for a block whose ordinal is above 0: a tangled `<<ref>>`
// expands to every block of that name in turn, so the placeholder written
// for the ordinal-0 block already stands for the rest. A nil slice with
// no error means "no block opens here."
func readBlock(namespace []string, indent string, input *location.InputStream) ([]model.Block, string, error) {
	if input.Empty() {
		return nil, "", nil
	}

	peek := input.Peek()
	open, ok := matchOpen(peek.Text)
	if !ok {
		return nil, "", nil
	}
	input.Next()

	if len(open.indent) < len(indent) {
		return nil, "", errs.NewIndentationError(peek.Loc)
	}

	var content strings.Builder
	var nested []model.Block

	for {
		if input.Empty() {
			return nil, "", errs.NewParseError(peek.Loc, "unexpected end of file")
		}

		childBlocks, placeholder, err := readBlock(open.ref.Name.NamespaceParts(), open.indent, input)
		if err != nil {
			return nil, "", err
		}
		if childBlocks != nil {
			nested = append(nested, childBlocks...)
			content.WriteString(placeholder)
			continue
		}

		tok := input.Next()
		if closeIndent, isClose := matchClose(tok.Text); isClose {
			if closeIndent != open.indent {
				return nil, "", errs.NewIndentationError(tok.Loc)
			}
			self := model.Block{Ref: open.ref, Content: content.String(), Loc: peek.Loc}
			result := append([]model.Block{self}, nested...)

			if open.isInit || open.ref.Ordinal != 0 {
				return result, "", nil
			}
			extra := strings.TrimPrefix(open.indent, indent)
			ref := open.ref
			name := ref.Name.Name
			if !namespaceEquals(ref.Name.NamespaceParts(), namespace) {
				name = ref.Name.String()
			}
			return result, extra + "<<" + name + ">>\n", nil
		}

		if strings.TrimSpace(tok.Text) == "" {
			content.WriteString(strings.TrimLeft(tok.Text, " \t"))
			continue
		}
		if !strings.HasPrefix(tok.Text, open.indent) {
			return nil, "", errs.NewIndentationError(tok.Loc)
		}
		content.WriteString(strings.TrimPrefix(tok.Text, open.indent))
	}
}

func namespaceEquals(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
