package domain

// UnitSnapshot holds the dependency facts the compiler emitted for one
// compilation unit. Snapshots are transient: a snapshot is produced by one
// load, consumed by exactly one merge into the session graph, and discarded.
type UnitSnapshot struct {
	// Unit is the identifier of the compilation unit the snapshot describes.
	Unit InternedString

	// Nodes are the facts the unit defines or references. Nodes defined by
	// the unit carry Unit == UnitSnapshot.Unit; pure cross-unit references
	// carry the zero unit and must not carry a fingerprint.
	Nodes []Node

	// Uses maps a defined key to the keys of the nodes that use it within
	// this unit. Edges are local to the snapshot; the merge accumulates
	// them into the session-wide use-edge index.
	Uses map[DependencyKey][]DependencyKey
}

// ProvideKey returns the unit's synthetic source-file-provides key.
func (s *UnitSnapshot) ProvideKey() DependencyKey {
	return SourceFileProvideKey(s.Unit)
}
