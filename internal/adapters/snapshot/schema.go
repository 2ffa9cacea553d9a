package snapshot

// snapshotFile is the on-disk YAML shape of one unit's dependency snapshot.
type snapshotFile struct {
	Unit  string    `yaml:"unit"`
	Nodes []nodeDTO `yaml:"nodes"`
}

// keyDTO names one dependency fact.
type keyDTO struct {
	Kind    string `yaml:"kind"`
	Aspect  string `yaml:"aspect"`
	Context string `yaml:"context"`
	Name    string `yaml:"name"`
}

// nodeDTO is one fact the unit defines or references. A node carries either
// a precomputed fingerprint or an inline body to be hashed, never both.
// Reference nodes (facts the unit uses but does not define) carry neither.
type nodeDTO struct {
	keyDTO `yaml:",inline"`

	// Reference marks a fact defined elsewhere that this unit depends on.
	Reference bool `yaml:"reference"`

	// Fingerprint is the precomputed content hash of the fact's shape.
	Fingerprint string `yaml:"fingerprint"`

	// Body is the fact's source text; the loader hashes it into a
	// fingerprint when no precomputed one is given.
	Body string `yaml:"body"`

	// DependsOn lists the keys this fact uses.
	DependsOn []keyDTO `yaml:"dependsOn"`
}
