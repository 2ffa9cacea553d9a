// Package snapshot implements the snapshot loader port on top of a YAML
// representation of per-unit dependency facts.
package snapshot

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/ripple/internal/core/domain"
	"go.trai.ch/ripple/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const parseCacheSize = 256

var _ ports.SnapshotLoader = (*Loader)(nil)

// Loader parses YAML snapshots into domain.UnitSnapshot values. Parsed
// snapshots are cached by content hash: a task that reruns without changing
// its output bytes costs one hash, not a reparse.
type Loader struct {
	cache *lru.Cache[uint64, *domain.UnitSnapshot]
}

// NewLoader creates a Loader with a bounded parse cache.
func NewLoader() *Loader {
	cache, err := lru.New[uint64, *domain.UnitSnapshot](parseCacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &Loader{cache: cache}
}

// Load parses a snapshot from raw bytes. Malformed input yields a nil
// snapshot and an error; no partial snapshot is ever returned.
func (l *Loader) Load(source []byte) (*domain.UnitSnapshot, error) {
	sum := xxhash.Sum64(source)
	if snap, ok := l.cache.Get(sum); ok {
		return snap, nil
	}

	var file snapshotFile
	if err := yaml.Unmarshal(source, &file); err != nil {
		return nil, errors.Join(domain.ErrSnapshotParseFailed, err)
	}

	snap, err := build(&file, source)
	if err != nil {
		return nil, err
	}

	l.cache.Add(sum, snap)
	return snap, nil
}

// build converts the decoded file into a validated UnitSnapshot.
func build(file *snapshotFile, source []byte) (*domain.UnitSnapshot, error) {
	if file.Unit == "" {
		return nil, zerr.With(domain.ErrSnapshotInvalid, "reason", "missing unit")
	}
	unit := domain.NewInternedString(file.Unit)

	snap := &domain.UnitSnapshot{
		Unit: unit,
		Uses: make(map[domain.DependencyKey][]domain.DependencyKey),
	}
	declared := make(map[domain.DependencyKey]struct{})
	var hasProvide bool

	for _, dto := range file.Nodes {
		key, err := dto.key()
		if err != nil {
			return nil, err
		}
		if _, dup := declared[key]; dup {
			return nil, zerr.With(zerr.With(domain.ErrSnapshotInvalid,
				"reason", "duplicate node key"),
				"key", key.String(),
			)
		}
		declared[key] = struct{}{}
		if key.Kind == domain.KindSourceFileProvide {
			hasProvide = true
		}

		node, err := dto.node(key, unit)
		if err != nil {
			return nil, err
		}
		snap.Nodes = append(snap.Nodes, node)

		for _, depDTO := range dto.DependsOn {
			dep, err := depDTO.key()
			if err != nil {
				return nil, err
			}
			snap.Uses[dep] = append(snap.Uses[dep], key)
		}
	}

	if !hasProvide {
		// Every unit provides itself; synthesize the fact when the
		// producer left it implicit. The whole snapshot stands in for the
		// unit's shape, so its hash serves as the fingerprint.
		provide := snap.ProvideKey()
		snap.Nodes = append(snap.Nodes, domain.Node{
			Key:         provide,
			Fingerprint: hashFingerprint(source),
			Unit:        unit,
		})
		declared[provide] = struct{}{}
	}

	// Dependencies on keys no node declares become reference nodes, so the
	// merge can track them as expatriates.
	for dep := range snap.Uses {
		if _, ok := declared[dep]; ok {
			continue
		}
		declared[dep] = struct{}{}
		snap.Nodes = append(snap.Nodes, domain.Node{Key: dep})
	}

	return snap, nil
}

// key converts the DTO to a domain key.
func (k keyDTO) key() (domain.DependencyKey, error) {
	kind, ok := domain.ParseDependencyKind(k.Kind)
	if !ok {
		return domain.DependencyKey{}, zerr.With(zerr.With(domain.ErrSnapshotInvalid,
			"reason", "unknown kind"),
			"kind", k.Kind,
		)
	}
	aspect, ok := domain.ParseDeclAspect(k.Aspect)
	if !ok {
		return domain.DependencyKey{}, zerr.With(zerr.With(domain.ErrSnapshotInvalid,
			"reason", "unknown aspect"),
			"aspect", k.Aspect,
		)
	}
	if k.Name == "" {
		return domain.DependencyKey{}, zerr.With(zerr.With(domain.ErrSnapshotInvalid,
			"reason", "missing name"),
			"kind", k.Kind,
		)
	}
	return domain.DependencyKey{
		Kind:    kind,
		Aspect:  aspect,
		Context: k.Context,
		Name:    k.Name,
	}, nil
}

// node converts the DTO to a domain node owned by unit, enforcing the
// loader contract: references carry no fingerprint, external facts are
// always references.
func (dto nodeDTO) node(key domain.DependencyKey, unit domain.InternedString) (domain.Node, error) {
	reference := dto.Reference || key.Kind == domain.KindExternal

	if dto.Fingerprint != "" && dto.Body != "" {
		return domain.Node{}, zerr.With(zerr.With(domain.ErrSnapshotInvalid,
			"reason", "node carries both fingerprint and body"),
			"key", key.String(),
		)
	}

	fingerprint := domain.Fingerprint(dto.Fingerprint)
	if dto.Body != "" {
		fingerprint = hashFingerprint([]byte(dto.Body))
	}

	if reference {
		if !fingerprint.IsAbsent() {
			return domain.Node{}, zerr.With(domain.ErrFingerprintOnReference,
				"key", key.String(),
			)
		}
		return domain.Node{Key: key}, nil
	}
	return domain.Node{Key: key, Fingerprint: fingerprint, Unit: unit}, nil
}

func hashFingerprint(data []byte) domain.Fingerprint {
	return domain.Fingerprint(fmt.Sprintf("%016x", xxhash.Sum64(data)))
}
