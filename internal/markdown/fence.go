package markdown

import (
	"strings"

	"github.com/v1kko/entangled/internal/config"
)

// fenceInfo holds the attributes recognised from a fence's info string
// (spec.md §4.3 step 3): a language class, a reference name, a target
// file path, and any other free attributes (preserved but ignored by the
// core).
type fenceInfo struct {
	Lang    string
	RefName string
	File    string
	Extra   map[string]string
}

// matchFenceOpen checks whether line opens a fenced code block under the
// configured fence marker, returning its parsed attributes.
func matchFenceOpen(line string, cfg config.Config) (fenceInfo, bool) {
	trimmed := strings.TrimRight(line, "\r\n")
	marker := cfg.FenceMarker
	if marker == "" {
		marker = "```"
	}
	if !strings.HasPrefix(trimmed, marker) {
		return fenceInfo{}, false
	}
	info := strings.TrimSpace(trimmed[len(marker):])
	if info == "" {
		return fenceInfo{}, false
	}
	return parseFenceInfo(info), true
}

// isFenceClose checks whether line is a bare closing fence.
func isFenceClose(line string, cfg config.Config) bool {
	marker := cfg.FenceMarker
	if marker == "" {
		marker = "```"
	}
	trimmed := strings.TrimRight(line, "\r\n")
	return strings.TrimSpace(trimmed) == marker
}

// parseFenceInfo parses the attribute forms of spec.md §4.3 step 3:
//
//	{.lang #ref-name file=path attr=val}
//
// A bare info string with no braces (e.g. "python") is treated as a lone
// language class, matching common fenced-code-block convention.
func parseFenceInfo(info string) fenceInfo {
	out := fenceInfo{Extra: map[string]string{}}

	body := info
	if strings.HasPrefix(info, "{") && strings.HasSuffix(info, "}") {
		body = info[1 : len(info)-1]
	} else {
		out.Lang = info
		return out
	}

	for _, tok := range strings.Fields(body) {
		switch {
		case strings.HasPrefix(tok, "."):
			out.Lang = strings.TrimPrefix(tok, ".")
		case strings.HasPrefix(tok, "#"):
			out.RefName = strings.TrimPrefix(tok, "#")
		case strings.HasPrefix(tok, "file="):
			out.File = strings.TrimPrefix(tok, "file=")
		case strings.Contains(tok, "="):
			parts := strings.SplitN(tok, "=", 2)
			out.Extra[parts[0]] = strings.Trim(parts[1], `"`)
		default:
			out.Extra[tok] = ""
		}
	}

	if out.RefName == "" && out.File != "" {
		out.RefName = pathDerivedName(out.File)
	}

	return out
}

// pathDerivedName turns a target path into a reference name when a block
// declares file= without an explicit #ref (spec.md §4.3 step 3's "implies
// # defaulted to the path-derived name").
func pathDerivedName(path string) string {
	return strings.ReplaceAll(path, "/", ".")
}
