package timeline

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	storeObject = "timelines"
	indexProp   = "index"
)

// ErrNotFound is returned when loading a timeline that was never saved.
var ErrNotFound = errors.New("timeline not found")

var validName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Store persists named timelines through gdata. With a nil manager it
// keeps timelines in memory only.
type Store struct {
	m   *gdata.Manager
	mem map[string][]byte
}

// OpenStore opens the per-user save location for appName.
func OpenStore(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open timeline store: %w", err)
	}
	return NewStore(m), nil
}

// NewStore wraps an existing manager; nil selects memory mode.
func NewStore(m *gdata.Manager) *Store {
	return &Store{m: m, mem: map[string][]byte{}}
}

// Persistent reports whether saves outlive the process.
func (s *Store) Persistent() bool { return s.m != nil }

// Save writes tl under name, replacing any previous save.
func (s *Store) Save(name string, tl Timeline) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid timeline name %q", name)
	}
	data, err := Encode(tl)
	if err != nil {
		return fmt.Errorf("encode timeline: %w", err)
	}
	if s.m == nil {
		s.mem[name] = data
		return nil
	}
	if err := s.m.SaveObjectProp(storeObject, name, data); err != nil {
		return fmt.Errorf("save timeline %q: %w", name, err)
	}
	names, err := s.List()
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == name {
			return nil
		}
	}
	return s.writeIndex(append(names, name))
}

// Load reads the timeline saved under name.
func (s *Store) Load(name string) (Timeline, error) {
	var data []byte
	if s.m == nil {
		d, ok := s.mem[name]
		if !ok {
			return Timeline{}, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		data = d
	} else {
		if !validName.MatchString(name) || !s.m.ObjectPropExists(storeObject, name) {
			return Timeline{}, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		d, err := s.m.LoadObjectProp(storeObject, name)
		if err != nil {
			return Timeline{}, fmt.Errorf("load timeline %q: %w", name, err)
		}
		data = d
	}
	return Decode(data)
}

// Exists reports whether name has been saved.
func (s *Store) Exists(name string) bool {
	if s.m == nil {
		_, ok := s.mem[name]
		return ok
	}
	return validName.MatchString(name) && s.m.ObjectPropExists(storeObject, name)
}

// List returns saved timeline names, sorted.
func (s *Store) List() ([]string, error) {
	var names []string
	if s.m == nil {
		for k := range s.mem {
			names = append(names, k)
		}
	} else if s.m.ObjectPropExists(storeObject, indexProp) {
		data, err := s.m.LoadObjectProp(storeObject, indexProp)
		if err != nil {
			return nil, fmt.Errorf("load timeline index: %w", err)
		}
		if err := yaml.Unmarshal(data, &names); err != nil {
			return nil, fmt.Errorf("parse timeline index: %w", err)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) writeIndex(names []string) error {
	sort.Strings(names)
	data, err := yaml.Marshal(names)
	if err != nil {
		return fmt.Errorf("encode timeline index: %w", err)
	}
	if err := s.m.SaveObjectProp(storeObject, indexProp, data); err != nil {
		return fmt.Errorf("save timeline index: %w", err)
	}
	return nil
}
