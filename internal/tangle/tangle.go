// Package tangle implements the tangler of spec.md §4.5: it expands a
// target file's init block, recursively substituting every <<name>>
// reference with the blocks registered under that name, and wraps each
// substituted block in the `~/~ begin`/`~/~ end` annotation grammar that
// internal/codefile's back-reader parses. Grounded on
// original_source/entangled/tangle.py's indent-and-concatenate algorithm.
package tangle

import (
	"regexp"
	"strings"

	"github.com/v1kko/entangled/internal/config"
	"github.com/v1kko/entangled/internal/errs"
	"github.com/v1kko/entangled/internal/location"
	"github.com/v1kko/entangled/internal/model"
)

var nowebPattern = regexp.MustCompile(`^(?P<indent>[ \t]*)<<(?P<name>[^<>]+)>>\s*$`)

// Tangle expands the target registered for path into its final file
// content. Indentation is additive: each <<name>> reference contributes
// its own column as extra indent for every line of the blocks it expands
// to (spec.md §4.4).
func Tangle(refs *model.ReferenceMap, path string, cfg config.Config) (string, error) {
	ref, ok := refs.Target(path)
	if !ok {
		return "", errs.NewInternalError("no target registered for %q", path)
	}

	var out strings.Builder
	if err := expand(refs, ref, "", cfg, &out); err != nil {
		return "", err
	}
	return out.String(), nil
}

// expand writes ref's content to out, indented by indent, substituting
// each <<name>> line in turn.
func expand(refs *model.ReferenceMap, ref model.ReferenceId, indent string, cfg config.Config, out *strings.Builder) error {
	block, ok := refs.Lookup(ref)
	if !ok {
		return errs.NewInternalError("block vanished for %q", ref.Name.String())
	}
	namespace := ref.Name.NamespaceParts()

	for _, line := range location.Lines(block.Content) {
		m := nowebPattern.FindStringSubmatch(line)
		if m == nil {
			out.WriteString(indent)
			out.WriteString(line)
			continue
		}

		lineIndent := m[nowebPattern.SubexpIndex("indent")]
		raw := strings.TrimSpace(m[nowebPattern.SubexpIndex("name")])
		name, ok := resolveName(refs, namespace, raw)
		if !ok {
			return errs.NewUndefinedReferenceError(raw, block.Loc)
		}

		childIndent := indent + lineIndent
		for _, child := range refs.Get(name) {
			if err := emitAnnotated(refs, child.Ref, childIndent, cfg, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveName finds the ReferenceName a bare <<name>> token refers to: a
// dotted token is used as-is if it names a real block, otherwise the token
// is tried as a sibling of the enclosing block's namespace before falling
// back to the bare global name (spec.md §9's namespace-threading note).
func resolveName(refs *model.ReferenceMap, namespace []string, raw string) (model.ReferenceName, bool) {
	if strings.Contains(raw, ".") {
		if name := model.NewReferenceName(raw); refs.Has(name) {
			return name, true
		}
	}
	if len(namespace) > 0 {
		full := model.NewReferenceName(strings.Join(namespace, ".") + "." + raw)
		if refs.Has(full) {
			return full, true
		}
	}
	bare := model.NewReferenceName(raw)
	if refs.Has(bare) {
		return bare, true
	}
	return model.ReferenceName{}, false
}

// emitAnnotated wraps ref's expansion in begin/end markers per cfg's
// AnnotationMethod, then recurses into expand for its body.
func emitAnnotated(refs *model.ReferenceMap, ref model.ReferenceId, indent string, cfg config.Config, out *strings.Builder) error {
	switch cfg.Annotation {
	case config.AnnotationNone:
		return expand(refs, ref, indent, cfg, out)

	case config.AnnotationNaked:
		writeMarker(out, indent, "", "", beginText(ref))
		if err := expand(refs, ref, indent, cfg, out); err != nil {
			return err
		}
		writeMarker(out, indent, "", "", "~/~ end")
		return nil

	default:
		block, _ := refs.Lookup(ref)
		open, close := commentFor(block.Lang, cfg)
		writeMarker(out, indent, open, close, beginText(ref))
		if err := expand(refs, ref, indent, cfg, out); err != nil {
			return err
		}
		writeMarker(out, indent, open, close, "~/~ end")
		return nil
	}
}

func beginText(ref model.ReferenceId) string {
	return "~/~ begin <<" + ref.Source + "#" + ref.Name.String() + ">>[" + ref.OrdinalString() + "]"
}

// writeMarker emits one annotation line. A leading space always separates
// any comment-open token (or the indent itself, when there is none) from
// the `~/~` marker, matching the grammar internal/codefile parses.
func writeMarker(out *strings.Builder, indent, open, close, text string) {
	out.WriteString(indent)
	if open != "" {
		out.WriteString(open)
	}
	out.WriteString(" " + text)
	if close != "" {
		out.WriteString(" " + close)
	}
	out.WriteString("\n")
}

func commentFor(lang string, cfg config.Config) (string, string) {
	l, ok := cfg.LanguageFor(lang)
	if !ok {
		return "", ""
	}
	return l.Comment.Open, l.Comment.Close
}
