// Package model implements the reference model of spec.md §3/§4: block
// identity, the noweb reference map, and the composition rules that tie
// them together.
package model

import "strings"

// ReferenceName is a hierarchical identifier: a dotted namespace plus a
// leaf name (e.g. "kernel.init"). Equality is structural, so ReferenceName
// is safe to use as a map key directly.
type ReferenceName struct {
	Namespace string
	Name      string
}

// NewReferenceName splits a dotted reference string into namespace/name.
// "kernel.init" -> {Namespace: "kernel", Name: "init"}; a name with no dot
// has an empty namespace.
func NewReferenceName(s string) ReferenceName {
	idx := strings.LastIndex(s, ".")
	if idx == -1 {
		return ReferenceName{Name: s}
	}
	return ReferenceName{Namespace: s[:idx], Name: s[idx+1:]}
}

// String renders the full dotted form.
func (r ReferenceName) String() string {
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "." + r.Name
}

// NamespaceParts splits the dotted namespace into its components, for
// comparing enclosing/nested reference namespaces (spec.md §4.5 step 3,
// §9's namespace-threading note).
func (r ReferenceName) NamespaceParts() []string {
	if r.Namespace == "" {
		return nil
	}
	return strings.Split(r.Namespace, ".")
}

// InitOrdinal is the distinguished marker selecting a target file's seed
// block, as opposed to a non-negative numeric ordinal.
const InitOrdinal = -1

// ReferenceId uniquely identifies one block: its name, the markdown source
// file it came from, and an ordinal disambiguating repeated names within
// that source file. Ordinal is InitOrdinal for the block that seeds a
// target file.
type ReferenceId struct {
	Name    ReferenceName
	Source  string
	Ordinal int
}

// IsInit reports whether this id names a target file's init block.
func (r ReferenceId) IsInit() bool {
	return r.Ordinal == InitOrdinal
}

// OrdinalString renders the ordinal the way annotations do: "init" or the
// decimal ordinal.
func (r ReferenceId) OrdinalString() string {
	if r.IsInit() {
		return "init"
	}
	return itoa(r.Ordinal)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
