// Package config loads entangled's TOML configuration (spec.md §6),
// applies environment overrides, and models the per-document YAML header
// override as a pure Config.Merge fold (spec.md §9's "dynamic
// configuration merging" note) — the same defaults-then-file-then-env
// shape as the teacher's own internal/config/config.go, retargeted from
// YAML/Linear fields to entangled's TOML fields.
package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/v1kko/entangled/internal/errs"
)

// AnnotationMethod controls whether and how tangled output carries
// provenance markers (spec.md §4.5 step 4).
type AnnotationMethod string

const (
	AnnotationNone     AnnotationMethod = "none"
	AnnotationStandard AnnotationMethod = "standard"
	AnnotationNaked    AnnotationMethod = "naked"
)

// Comment names the line-comment syntax of one target language.
type Comment struct {
	Open  string `toml:"open"`
	Close string `toml:"close"`
}

// Language binds one or more fence info-string identifiers (e.g. "python",
// "py") to a comment syntax used for annotation markers.
type Language struct {
	Name        string   `toml:"name"`
	Identifiers []string `toml:"identifiers"`
	Comment     Comment  `toml:"comment"`
}

// Config is the fully-resolved configuration: defaults folded with the
// file on disk and, per document, a YAML header override.
type Config struct {
	Version     string           `toml:"version"`
	WatchList   []string         `toml:"watch_list"`
	IgnoreList  []string         `toml:"ignore_list"`
	Annotation  AnnotationMethod `toml:"annotation"`
	Hooks       []string         `toml:"hooks"`
	Languages   []Language       `toml:"languages"`
	FenceMarker string           `toml:"fence_marker"`
}

// ToolVersion is entangled's own version, compared against a loaded
// config's declared version and a loaded FileDB's recorded version.
const ToolVersion = "1.0.0"

// Default returns the built-in configuration, mirroring the teacher's
// DefaultConfig().
func Default() Config {
	return Config{
		Version:     ToolVersion,
		WatchList:   []string{"**/*.md"},
		Annotation:  AnnotationStandard,
		FenceMarker: "```",
		Languages: []Language{
			{Name: "python", Identifiers: []string{"python", "py"}, Comment: Comment{Open: "#"}},
			{Name: "go", Identifiers: []string{"go", "golang"}, Comment: Comment{Open: "//"}},
			{Name: "javascript", Identifiers: []string{"javascript", "js"}, Comment: Comment{Open: "//"}},
			{Name: "c", Identifiers: []string{"c", "cpp", "c++"}, Comment: Comment{Open: "//"}},
			{Name: "rust", Identifiers: []string{"rust", "rs"}, Comment: Comment{Open: "//"}},
			{Name: "haskell", Identifiers: []string{"haskell", "hs"}, Comment: Comment{Open: "--"}},
			{Name: "html", Identifiers: []string{"html", "xml"}, Comment: Comment{Open: "<!--", Close: "-->"}},
			{Name: "toml", Identifiers: []string{"toml"}, Comment: Comment{Open: "#"}},
			{Name: "yaml", Identifiers: []string{"yaml", "yml"}, Comment: Comment{Open: "#"}},
			{Name: "shell", Identifiers: []string{"shell", "sh", "bash"}, Comment: Comment{Open: "#"}},
		},
	}
}

// Update carries only explicitly-set fields, so Merge can fold it onto a
// base Config without clobbering unrelated fields (spec.md §9).
type Update struct {
	Version    *string           `toml:"version"`
	WatchList  []string          `toml:"watch_list"`
	IgnoreList []string          `toml:"ignore_list"`
	Annotation *AnnotationMethod `toml:"annotation"`
	Hooks      []string          `toml:"hooks"`
	Languages  []Language        `toml:"languages"`
}

// Merge folds update onto c, returning a new Config. Fields left unset in
// update pass through unchanged.
func (c Config) Merge(update *Update) Config {
	if update == nil {
		return c
	}
	out := c
	if update.Version != nil {
		out.Version = *update.Version
	}
	if update.WatchList != nil {
		out.WatchList = update.WatchList
	}
	if update.IgnoreList != nil {
		out.IgnoreList = update.IgnoreList
	}
	if update.Annotation != nil {
		out.Annotation = *update.Annotation
	}
	if update.Hooks != nil {
		out.Hooks = update.Hooks
	}
	if update.Languages != nil {
		out.Languages = update.Languages
	}
	return out
}

// LanguageFor resolves a fence info-string language identifier (e.g.
// "python") to its configured Language, if any.
func (c Config) LanguageFor(identifier string) (Language, bool) {
	for _, l := range c.Languages {
		for _, id := range l.Identifiers {
			if id == identifier {
				return l, true
			}
		}
	}
	return Language{}, false
}

// Load reads configuration from the real environment: ./entangled.toml,
// falling back to the [tool.entangled] table of ./pyproject.toml, then
// applying environment overrides, mirroring the teacher's
// LoadWithEnv(os.Getenv) split.
func Load() (Config, error) {
	return LoadWithEnv(os.Getenv)
}

// LoadWithEnv loads configuration using the provided environment lookup
// function, so tests can supply isolated environment values.
func LoadWithEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	path := "entangled.toml"
	if override := getenv("ENTANGLED_CONFIG"); override != "" {
		path = override
	}

	update, err := readTOMLUpdate(path, "")
	if err != nil {
		return cfg, err
	}
	if update == nil {
		update, err = readTOMLUpdate("pyproject.toml", "tool.entangled")
		if err != nil {
			return cfg, err
		}
	}
	if update != nil {
		cfg = cfg.Merge(update)
	}

	if cfg.Version != "" && cfg.Version != ToolVersion {
		return cfg, errs.NewHelpfulUserError(
			"run `entangled reset` to regenerate the database for this version",
			"config declares version %q, tool is %q", cfg.Version, ToolVersion)
	}

	if am := getenv("ENTANGLED_ANNOTATION"); am != "" {
		cfg.Annotation = AnnotationMethod(am)
	}

	return cfg, nil
}

// readTOMLUpdate reads path and decodes it (or, if section is non-empty,
// the dotted sub-table named by section) into an Update. A missing file
// is not an error: it returns (nil, nil).
func readTOMLUpdate(path, section string) (*Update, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if section == "" {
		var update Update
		if err := decodeStrict(data, &update); err != nil {
			return nil, errs.NewHelpfulUserError("check your TOML syntax", "failed to parse %s: %v", path, err)
		}
		return &update, nil
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errs.NewHelpfulUserError("check your TOML syntax", "failed to parse %s: %v", path, err)
	}
	var table any = raw
	for _, part := range strings.Split(section, ".") {
		m, ok := table.(map[string]any)
		if !ok {
			return nil, nil
		}
		table, ok = m[part]
		if !ok {
			return nil, nil
		}
	}
	reencoded, err := toml.Marshal(table)
	if err != nil {
		return nil, err
	}
	var update Update
	if err := decodeStrict(reencoded, &update); err != nil {
		return nil, errs.NewHelpfulUserError("check your TOML syntax", "failed to parse %s: %v", path, err)
	}
	return &update, nil
}

// decodeStrict decodes data into v, rejecting keys that name no field of
// v (spec.md §6: "unknown fields are rejected with a user-facing error").
func decodeStrict(data []byte, v any) error {
	return toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(v)
}
