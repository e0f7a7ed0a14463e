package markdown

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/v1kko/entangled/internal/config"
)

const headerDelimiter = "---"

// splitHeader splits a Markdown document into a leading YAML header (if
// any) and the remaining body, the same split/bound idiom as the
// teacher's internal/marshal/frontmatter.go Parse, generalized here to
// decode into a config.Update overlay rather than a frontmatter map.
func splitHeader(text string) (header string, body string, hasHeader bool) {
	if !strings.HasPrefix(text, headerDelimiter) {
		return "", text, false
	}

	rest := text[len(headerDelimiter):]
	idx := strings.Index(rest, "\n"+headerDelimiter)
	if idx == -1 {
		return "", text, false
	}

	header = rest[:idx]
	body = strings.TrimPrefix(rest[idx+len("\n"+headerDelimiter):], "\n")
	return header, body, true
}

// readYAMLHeader decodes a document's leading YAML header, if present, as
// a config.Update that applies only to this document (spec.md §4.3 step
// 1, §9's "YAML header inline config override" note). The header is
// decoded in isolation; block scanning still runs over the full original
// text so TextLocations stay accurate to the real file.
func readYAMLHeader(text string) (update *config.Update, err error) {
	header, _, ok := splitHeader(text)
	if !ok {
		return nil, nil
	}

	var u config.Update
	if err := yaml.Unmarshal([]byte(header), &u); err != nil {
		return nil, err
	}
	return &u, nil
}
