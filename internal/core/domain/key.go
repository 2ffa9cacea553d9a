// Package domain contains the core domain models for the incremental
// dependency graph: dependency keys, nodes, and per-unit snapshots.
package domain

import (
	"fmt"
	"strings"
)

// DependencyKind classifies what a dependency key refers to.
type DependencyKind uint8

const (
	// KindTopLevel is a named top-level entity (function, global, typealias).
	KindTopLevel DependencyKind = iota
	// KindNominal is a nominal type.
	KindNominal
	// KindMember is a member of a nominal type, scoped by its context.
	KindMember
	// KindDynamicLookup is a member accessed via dynamic lookup.
	KindDynamicLookup
	// KindSourceFileProvide is the synthetic per-unit key; every unit
	// provides exactly one.
	KindSourceFileProvide
	// KindExternal is a reference to a separately compiled input, e.g. a
	// module interface file.
	KindExternal
)

// String returns the lowercase name of the kind.
func (k DependencyKind) String() string {
	switch k {
	case KindTopLevel:
		return "topLevel"
	case KindNominal:
		return "nominal"
	case KindMember:
		return "member"
	case KindDynamicLookup:
		return "dynamicLookup"
	case KindSourceFileProvide:
		return "sourceFileProvide"
	case KindExternal:
		return "externalDepend"
	default:
		return "unknown"
	}
}

// ParseDependencyKind converts a string to a DependencyKind.
// The second return value reports whether the string named a valid kind.
func ParseDependencyKind(s string) (DependencyKind, bool) {
	switch strings.TrimSpace(s) {
	case "topLevel", "top-level":
		return KindTopLevel, true
	case "nominal":
		return KindNominal, true
	case "member":
		return KindMember, true
	case "dynamicLookup", "dynamic-lookup":
		return KindDynamicLookup, true
	case "sourceFileProvide", "provide":
		return KindSourceFileProvide, true
	case "externalDepend", "external":
		return KindExternal, true
	default:
		return KindTopLevel, false
	}
}

// DeclAspect distinguishes the externally visible shape of an entity from
// its body. Changes to interface facts must cascade to every user;
// implementation facts only invalidate direct users.
type DeclAspect uint8

const (
	// AspectInterface is the externally visible shape of an entity.
	AspectInterface DeclAspect = iota
	// AspectImplementation is the body of an entity.
	AspectImplementation
)

// String returns the lowercase name of the aspect.
func (a DeclAspect) String() string {
	if a == AspectInterface {
		return "interface"
	}
	return "implementation"
}

// ParseDeclAspect converts a string to a DeclAspect.
func ParseDeclAspect(s string) (DeclAspect, bool) {
	switch strings.TrimSpace(s) {
	case "interface", "":
		return AspectInterface, true
	case "implementation", "impl":
		return AspectImplementation, true
	default:
		return AspectInterface, false
	}
}

// DependencyKey identifies one declared or used fact. It is pure data:
// two keys are the same fact iff they are equal, and the struct is
// directly usable as a map key.
type DependencyKey struct {
	Kind    DependencyKind
	Aspect  DeclAspect
	Context string
	Name    string
}

// IsInterface reports whether a change to this fact must cascade to every
// unit that uses it. External facts always count as interface facts since
// only the interface of a separately compiled input is visible.
func (k DependencyKey) IsInterface() bool {
	return k.Aspect == AspectInterface || k.Kind == KindExternal
}

// Compare returns -1, 0, or +1 establishing a total order over keys.
func (k DependencyKey) Compare(o DependencyKey) int {
	if k.Kind != o.Kind {
		if k.Kind < o.Kind {
			return -1
		}
		return 1
	}
	if k.Aspect != o.Aspect {
		if k.Aspect < o.Aspect {
			return -1
		}
		return 1
	}
	if c := strings.Compare(k.Context, o.Context); c != 0 {
		return c
	}
	return strings.Compare(k.Name, o.Name)
}

// Hash returns a canonical string encoding of the key, unique per key.
// It is used as the vertex hash in the use-edge index.
func (k DependencyKey) Hash() string {
	return fmt.Sprintf("%d\x00%d\x00%s\x00%s", k.Kind, k.Aspect, k.Context, k.Name)
}

// String returns a human-readable rendering, e.g. "member(interface) Foo.bar".
func (k DependencyKey) String() string {
	if k.Context == "" {
		return fmt.Sprintf("%s(%s) %s", k.Kind, k.Aspect, k.Name)
	}
	return fmt.Sprintf("%s(%s) %s.%s", k.Kind, k.Aspect, k.Context, k.Name)
}

// SourceFileProvideKey returns the synthetic key a unit provides for itself.
func SourceFileProvideKey(unit InternedString) DependencyKey {
	return DependencyKey{
		Kind:   KindSourceFileProvide,
		Aspect: AspectInterface,
		Name:   unit.String(),
	}
}

// ExternalKey returns the key for an external dependency with the given name.
func ExternalKey(name string) DependencyKey {
	return DependencyKey{
		Kind:   KindExternal,
		Aspect: AspectInterface,
		Name:   name,
	}
}
