package incidence

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table maps an incidence name to the ordered list of correction types an
// employee may request for it. A Table is immutable once built.
type Table struct {
	options map[string][]string
	order   []string
}

// Source hands out the current table. Implementations may swap the table at
// any time; callers must not cache it across requests.
type Source interface {
	Table() *Table
}

type fileFormat struct {
	Incidences []struct {
		Name    string   `yaml:"name"`
		Options []string `yaml:"options"`
	} `yaml:"incidences"`
}

// Parse builds a table from YAML of the form:
//
//	incidences:
//	  - name: Retardo E1
//	    options: [Retardo justificado]
func Parse(data []byte) (*Table, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse incidence table: %w", err)
	}

	t := &Table{options: make(map[string][]string, len(f.Incidences))}
	for i, inc := range f.Incidences {
		name := strings.TrimSpace(inc.Name)
		if name == "" {
			return nil, fmt.Errorf("incidence #%d has an empty name", i+1)
		}
		if _, dup := t.options[name]; dup {
			return nil, fmt.Errorf("incidence %q is listed twice", name)
		}
		opts := make([]string, 0, len(inc.Options))
		for _, o := range inc.Options {
			o = strings.TrimSpace(o)
			if o == "" {
				continue
			}
			opts = append(opts, o)
		}
		t.options[name] = opts
		t.order = append(t.order, name)
	}
	return t, nil
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read incidence table: %w", err)
	}
	return Parse(data)
}

// New builds a table from an in-memory map, mostly for tests and defaults.
func New(options map[string][]string) *Table {
	t := &Table{options: make(map[string][]string, len(options))}
	for name, opts := range options {
		t.options[name] = append([]string(nil), opts...)
		t.order = append(t.order, name)
	}
	return t
}

// Options returns a copy of the allowed types for name, nil when unknown.
func (t *Table) Options(name string) []string {
	if t == nil {
		return nil
	}
	opts, ok := t.options[name]
	if !ok {
		return nil
	}
	return append([]string(nil), opts...)
}

// Allows reports whether movementType may be requested for the incidence.
func (t *Table) Allows(name, movementType string) bool {
	for _, o := range t.Options(name) {
		if o == movementType {
			return true
		}
	}
	return false
}

// All returns a deep copy of the table.
func (t *Table) All() map[string][]string {
	out := make(map[string][]string)
	if t == nil {
		return out
	}
	for name, opts := range t.options {
		out[name] = append([]string(nil), opts...)
	}
	return out
}

// Names returns incidence names in file order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.options)
}

// Static is a Source that never changes.
type Static struct{ T *Table }

func (s Static) Table() *Table { return s.T }

var ErrEmptyTable = errors.New("incidence table has no entries")
