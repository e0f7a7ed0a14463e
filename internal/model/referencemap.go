package model

// ReferenceMap indexes every Block by ReferenceName, preserving insertion
// order — which, across a whole project load, equals source document
// order. It owns its Blocks for the duration of one tangle cycle (spec.md
// §3 lifecycle ownership).
type ReferenceMap struct {
	blocks map[ReferenceName][]Block
	order  []ReferenceName
	// targets maps a declared target path to its init block's ReferenceId.
	targets map[string]ReferenceId
	// targetOrder preserves the order targets were declared in, for
	// deterministic iteration.
	targetOrder []string
}

// NewReferenceMap returns an empty map ready for Insert.
func NewReferenceMap() *ReferenceMap {
	return &ReferenceMap{
		blocks:  make(map[ReferenceName][]Block),
		targets: make(map[string]ReferenceId),
	}
}

// Insert appends a block to the list for its name, in document order.
func (m *ReferenceMap) Insert(b Block) {
	if _, ok := m.blocks[b.Ref.Name]; !ok {
		m.order = append(m.order, b.Ref.Name)
	}
	m.blocks[b.Ref.Name] = append(m.blocks[b.Ref.Name], b)
}

// Get returns the blocks registered under name, in insertion order.
func (m *ReferenceMap) Get(name ReferenceName) []Block {
	return m.blocks[name]
}

// Has reports whether any block is registered under name.
func (m *ReferenceMap) Has(name ReferenceName) bool {
	_, ok := m.blocks[name]
	return ok
}

// Names returns every registered ReferenceName in first-insertion order.
func (m *ReferenceMap) Names() []ReferenceName {
	out := make([]ReferenceName, len(m.order))
	copy(out, m.order)
	return out
}

// NextOrdinal returns the ordinal the next block inserted under name would
// receive: the count of blocks already registered under that exact name.
func (m *ReferenceMap) NextOrdinal(name ReferenceName) int {
	return len(m.blocks[name])
}

// DeclareTarget records that path is produced by tangling the init block
// ref. Returns false if path was already declared, by any block including
// ref itself (duplicate init declaration, spec.md §4.3 error condition).
func (m *ReferenceMap) DeclareTarget(path string, ref ReferenceId) bool {
	if _, exists := m.targets[path]; exists {
		return false
	}
	m.targets[path] = ref
	m.targetOrder = append(m.targetOrder, path)
	return true
}

// Target returns the init ReferenceId declared for path, if any.
func (m *ReferenceMap) Target(path string) (ReferenceId, bool) {
	ref, ok := m.targets[path]
	return ref, ok
}

// Targets returns the set of (path, init ReferenceId) pairs declared by
// file= attributes, in declaration order.
func (m *ReferenceMap) Targets() []TargetRef {
	out := make([]TargetRef, 0, len(m.targetOrder))
	for _, p := range m.targetOrder {
		out = append(out, TargetRef{Path: p, Init: m.targets[p]})
	}
	return out
}

// TargetRef pairs a declared target path with its init block's identity.
type TargetRef struct {
	Path string
	Init ReferenceId
}

// ReplaceBlock overwrites the content of the block identified by ref,
// leaving its position in the ordered list unchanged. Used by the
// stitcher to apply an edited block back into the map before re-tangling.
// Returns false if no such block exists.
func (m *ReferenceMap) ReplaceBlock(ref ReferenceId, content string) bool {
	list := m.blocks[ref.Name]
	for i := range list {
		if list[i].Ref == ref {
			list[i].Content = content
			return true
		}
	}
	return false
}

// Lookup finds the single block with the given ReferenceId, if any.
func (m *ReferenceMap) Lookup(ref ReferenceId) (Block, bool) {
	for _, b := range m.blocks[ref.Name] {
		if b.Ref == ref {
			return b, true
		}
	}
	return Block{}, false
}
