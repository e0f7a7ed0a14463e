package model

import "github.com/v1kko/entangled/internal/location"

// Block pairs a ReferenceId with its raw interior content. Content is the
// text between the fences exactly as written: the markdown reader only
// recognises opening fences that start at column 0 and does not strip or
// re-indent content lines. Lang is
// the fence's language class, used by the tangler to select a comment
// syntax for annotation markers (spec.md §4.5 step 4); it is empty for
// blocks recovered by the back-reader, which never need to re-derive it.
type Block struct {
	Ref     ReferenceId
	Content string
	Lang    string
	Loc     location.TextLocation
}
