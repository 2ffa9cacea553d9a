package domain

// Fingerprint is an opaque content hash of an entity's externally visible
// shape. The empty string means no fingerprint is available, in which case
// the entity is always treated as changed.
type Fingerprint string

// IsAbsent reports whether no fingerprint is available.
func (f Fingerprint) IsAbsent() bool {
	return f == ""
}

// Matches reports whether two fingerprints are both present and equal.
// An absent fingerprint never matches anything, including another absent one.
func (f Fingerprint) Matches(o Fingerprint) bool {
	return !f.IsAbsent() && !o.IsAbsent() && f == o
}

// Node is one dependency fact: a key, an optional fingerprint, and the unit
// that produced it. A node with a unit is resident: it was produced by
// compiling that unit. A node with the zero unit is expatriate: some unit
// recorded a use of the key before any unit claimed to define it.
type Node struct {
	Key         DependencyKey
	Fingerprint Fingerprint
	Unit        InternedString
}

// Resident reports whether the node is attributed to a defining unit.
func (n Node) Resident() bool {
	return !n.Unit.IsZero()
}

// String renders the node for diagnostics.
func (n Node) String() string {
	unit := "<expat>"
	if n.Resident() {
		unit = n.Unit.String()
	}
	return n.Key.String() + " in " + unit
}
