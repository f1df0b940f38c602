// Package typestore implements the typestore (spec component E): a
// registry of canonical schema.Descriptors with collision detection,
// closure traversal, and the two hashers and the MSG emitter bound to it.
// Grounded on spec.md section 4.E plus the teacher's locking texture
// (nodestore's single-writer/many-reader discipline) and
// util/mw/middleware.go's request-scoped uuid tagging, adapted here to
// registration-scoped tagging.
package typestore

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/spaolacci/murmur3"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/singleflight"

	ilog "github.com/ben-z/rosbags/internal/log"
	"github.com/ben-z/rosbags/idl"
	"github.com/ben-z/rosbags/msgdef"
	"github.com/ben-z/rosbags/msgtext"
	"github.com/ben-z/rosbags/schema"
	"github.com/ben-z/rosbags/typehash"
)

// Format selects which grammar RegisterText parses definition text with.
type Format int

const (
	FormatMSG Format = iota + 1
	FormatIDL
)

// Store is a registry of canonical descriptors, safe for concurrent
// lookup by many readers while registration is serialized by an internal
// mutex (spec.md section 5: "single-writer discipline inside the store").
type Store struct {
	mu          sync.RWMutex
	descriptors map[string]*schema.Descriptor
	sf          singleflight.Group
}

// New creates a store, optionally seeded with a built-in catalog ("",
// "ros1_defaults", or "ros2_defaults").
func New(preset string) (*Store, error) {
	catalog, err := builtinCatalog(preset)
	if err != nil {
		return nil, err
	}
	s := &Store{descriptors: map[string]*schema.Descriptor{}}
	for _, d := range catalog {
		if err := s.RegisterDescriptor(d); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// RegisterDescriptor inserts desc, or, if a descriptor is already
// registered under desc.Name, accepts the call as a no-op when the two
// are byte-identical and fails with TypeConflictError otherwise.
func (s *Store) RegisterDescriptor(desc *schema.Descriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registerLocked(desc)
}

func (s *Store) registerLocked(desc *schema.Descriptor) error {
	existing, ok := s.descriptors[desc.Name]
	if !ok {
		s.descriptors[desc.Name] = desc
		return nil
	}
	if fingerprint(existing) == fingerprint(desc) && reflect.DeepEqual(existing, desc) {
		return nil
	}
	return &schema.TypeConflictError{Name: desc.Name}
}

// fingerprint is a cheap 128-bit pre-check compared before the
// authoritative reflect.DeepEqual, so two descriptors that clearly
// differ skip the deep comparison (the teacher uses murmur3 the same way
// in util/trigram/trigram.go, for signature hashing ahead of an exact
// comparison). It hashes the descriptor's JSON encoding, which follows
// nested pointers by content; a descriptor that cannot be encoded gets
// the zero fingerprint and is left to reflect.DeepEqual.
func fingerprint(desc *schema.Descriptor) [2]uint64 {
	b, err := json.Marshal(desc)
	if err != nil {
		return [2]uint64{}
	}
	h1, h2 := murmur3.Sum128(b)
	return [2]uint64{h1, h2}
}

// RegisterText parses data with the named format, registers the primary
// definition plus every dependency discovered in the bundle, and returns
// the primary descriptor. Concurrent calls for the same pkg/name are
// collapsed into one parse+register via singleflight, per spec.md
// section 5's single-writer discipline.
func (s *Store) RegisterText(ctx context.Context, pkg, name string, data []byte, format Format) (*schema.Descriptor, error) {
	key := pkg + "/" + name
	ctx = ilog.AddTags(ctx, "registration_id", uuid.NewString(), "type", key)
	v, err, _ := s.sf.Do(key, func() (any, error) {
		primary, deps, err := parseText(pkg, name, data, format)
		if err != nil {
			ilog.Errorf(ctx, "parse failed: %v", err)
			return nil, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, dep := range deps {
			if err := s.registerLocked(dep); err != nil {
				return nil, err
			}
		}
		if err := s.registerLocked(primary); err != nil {
			return nil, err
		}
		ilog.Infof(ctx, "registered %s with %d dependencies", key, len(deps))
		return primary, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*schema.Descriptor), nil
}

func parseText(pkg, name string, data []byte, format Format) (*schema.Descriptor, []*schema.Descriptor, error) {
	switch format {
	case FormatMSG:
		return msgdef.ParseROS1MessageDefinition(pkg, name, data)
	case FormatIDL:
		descs, err := idl.ParseIDLMessageDefinition(data)
		if err != nil {
			return nil, nil, err
		}
		qualified := pkg + "/msg/" + name
		var primary *schema.Descriptor
		var deps []*schema.Descriptor
		for _, d := range descs {
			if d.Name == qualified {
				primary = d
			} else {
				deps = append(deps, d)
			}
		}
		if primary == nil {
			return nil, nil, &schema.UnknownTypeError{Name: qualified}
		}
		return primary, deps, nil
	default:
		return nil, nil, fmt.Errorf("unknown format %v", format)
	}
}

// Lookup returns the descriptor registered under name, if any.
func (s *Store) Lookup(name string) (*schema.Descriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.descriptors[name]
	return d, ok
}

// Closure returns the primary descriptor for name followed by every
// descriptor it transitively references (directly or through a nested
// array), in first-reference order.
func (s *Store) Closure(name string) ([]*schema.Descriptor, error) {
	primary, ok := s.Lookup(name)
	if !ok {
		return nil, &schema.UnknownTypeError{Name: name}
	}
	seen := map[string]bool{name: true}
	order := []*schema.Descriptor{primary}
	queue := []*schema.Descriptor{primary}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, ref := range refSet(cur) {
			if seen[ref] {
				continue
			}
			seen[ref] = true
			d, ok := s.Lookup(ref)
			if !ok {
				return nil, &schema.UnknownTypeError{Name: ref}
			}
			order = append(order, d)
			queue = append(queue, d)
		}
	}
	return order, nil
}

func refSet(desc *schema.Descriptor) []string {
	var refs []string
	for _, f := range desc.Fields {
		refs = collectRefs(f.Type, refs)
	}
	return refs
}

func collectRefs(t schema.Type, refs []string) []string {
	if t.Array && t.Items != nil {
		return collectRefs(*t.Items, refs)
	}
	if t.Ref != "" {
		return append(refs, t.Ref)
	}
	return refs
}

// MD5 returns the wire1-compatible definition hash for name.
func (s *Store) MD5(name string) (string, error) {
	return typehash.MD5(s, name)
}

// RIHS01 returns the structural hash for name.
func (s *Store) RIHS01(name string) (string, error) {
	return typehash.RIHS01(s, name)
}

// EmitMsg renders name and its dependency bundle as .msg text.
func (s *Store) EmitMsg(name string) (string, error) {
	return msgtext.Emit(s, name)
}

// Names returns every currently registered type name, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := maps.Keys(s.descriptors)
	slices.Sort(names)
	return names
}
