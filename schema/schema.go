package schema

import (
	"errors"
	"fmt"
	"sync"

	"github.com/recordkit/recordkit/clause"
)

var (
	// ErrMissingPrimaryKey a schema declared no primary-key field
	ErrMissingPrimaryKey = errors.New("schema requires exactly one primary key field")
	// ErrDuplicatePrimaryKey a schema declared more than one primary-key field
	ErrDuplicatePrimaryKey = errors.New("schema declares multiple primary key fields")
	// ErrMissingForeignTarget a foreign key references an unregistered schema
	ErrMissingForeignTarget = errors.New("foreign key references unknown schema")
	// ErrUnknownSchema no schema registered under the requested name
	ErrUnknownSchema = errors.New("unknown schema")
	// ErrAlreadyRegistered a schema name was registered twice
	ErrAlreadyRegistered = errors.New("schema already registered")
	// ErrNotResolved the registry has not been resolved yet
	ErrNotResolved = errors.New("registry not resolved")
)

// Statements caches the auto-generated CRUD statement texts for one
// schema. They are built once when the registry is wired into a
// database handle, and any of them can be overridden per call.
type Statements struct {
	Select string
	Insert string
	Update string
	Delete string
	Count  string
}

// Schema describes one model type: its table, its single primary key,
// its plain fields and its foreign keys. Field access goes through the
// declared accessors; the descriptor never inspects struct members at
// runtime.
type Schema struct {
	Name  string
	Table string
	// New returns a default instance of the model. It supplies zero
	// values for new-record detection and blank rows for scanning.
	New func() interface{}

	Fields         []*Field
	FieldsByName   map[string]*Field
	FieldsByDBName map[string]*Field
	PrimaryField   *Field

	// Auto holds the cached CRUD statements, filled by the database
	// handle after resolve.
	Auto Statements

	plainFields []*Field
	fkFields    []*Field
}

// BeforeDeleter is implemented by records that want a hook fired just
// before they are removed, both for direct deletes and cascades.
type BeforeDeleter interface {
	BeforeDelete() error
}

func (s *Schema) String() string {
	return fmt.Sprintf("%s(%s)", s.Name, s.Table)
}

// TableName returns the mapped table name.
func (s *Schema) TableName() string {
	return s.Table
}

// PlainFields returns the non-key fields in declaration order.
func (s *Schema) PlainFields() []*Field {
	return s.plainFields
}

// ForeignKeyFields returns the foreign-key fields in declaration order.
func (s *Schema) ForeignKeyFields() []*Field {
	return s.fkFields
}

// PersistedFields returns every field except the primary key, in
// declaration order. This is the column set of the auto-generated
// INSERT and UPDATE statements.
func (s *Schema) PersistedFields() []*Field {
	fields := make([]*Field, 0, len(s.Fields)-1)
	for _, f := range s.Fields {
		if f.Kind != PrimaryKey {
			fields = append(fields, f)
		}
	}
	return fields
}

// LookUpField finds a field by member name or column name.
func (s *Schema) LookUpField(name string) *Field {
	if field, ok := s.FieldsByDBName[name]; ok {
		return field
	}
	if field, ok := s.FieldsByName[name]; ok {
		return field
	}
	return nil
}

// IsNew reports whether rec has not been persisted yet: true iff the
// primary key holds its zero value.
func (s *Schema) IsNew(rec interface{}) bool {
	return s.PrimaryField.IsZero(rec)
}

// BindParameters produces the named parameter list for every field of
// rec, one parameter per column, named after the column.
func (s *Schema) BindParameters(rec interface{}) []clause.Param {
	params := make([]clause.Param, 0, len(s.Fields))
	for _, f := range s.Fields {
		params = append(params, clause.Param{Name: f.DBName, Value: f.ValueOf(rec)})
	}
	return params
}

// ScanRow maps one retrieved row onto a fresh model instance. Columns
// missing from the row keep their zero values.
func (s *Schema) ScanRow(row map[string]interface{}) (interface{}, error) {
	rec := s.New()
	for _, f := range s.Fields {
		v, ok := row[f.DBName]
		if !ok {
			continue
		}
		if err := f.Apply(rec, v); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// Registry is the explicit registration table of schemas. Register
// every model type at startup, then Resolve once to link foreign keys
// and freeze the descriptors.
type Registry struct {
	mu       sync.RWMutex
	schemas  map[string]*Schema
	ordered  []*Schema
	resolved bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: map[string]*Schema{}}
}

// Register validates and adds one schema. Configuration errors surface
// here, at startup, not when the schema is first used: a schema must
// declare exactly one primary key and an accessor pair per field.
// Blank table and column names are derived at Resolve time; a namer
// passed here derives them immediately, for this schema alone.
func (r *Registry) Register(s *Schema, namer ...Namer) error {
	if s.Name == "" || s.New == nil {
		return fmt.Errorf("schema requires a name and a New factory")
	}

	var pk *Field
	for _, f := range s.Fields {
		if f.Get == nil || f.Set == nil {
			return fmt.Errorf("schema %s: field %s requires Get and Set accessors", s.Name, f.Name)
		}
		f.Schema = s

		if f.Kind == PrimaryKey {
			if pk != nil {
				return fmt.Errorf("schema %s: %w", s.Name, ErrDuplicatePrimaryKey)
			}
			pk = f
		}
	}
	if pk == nil {
		return fmt.Errorf("schema %s: %w", s.Name, ErrMissingPrimaryKey)
	}
	s.PrimaryField = pk

	if len(namer) > 0 && namer[0] != nil {
		applyNamer(s, namer[0])
	}

	s.FieldsByName = map[string]*Field{}
	s.plainFields = s.plainFields[:0]
	s.fkFields = s.fkFields[:0]
	for _, f := range s.Fields {
		s.FieldsByName[f.Name] = f

		switch f.Kind {
		case Plain:
			s.plainFields = append(s.plainFields, f)
		case ForeignKey:
			s.fkFields = append(s.fkFields, f)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schemas[s.Name]; ok {
		return fmt.Errorf("schema %s: %w", s.Name, ErrAlreadyRegistered)
	}
	r.schemas[s.Name] = s
	r.ordered = append(r.ordered, s)
	r.resolved = false
	return nil
}

// applyNamer fills the blank table and plain-column names of s.
// Foreign keys default to the referenced primary key's column, known
// only after resolve.
func applyNamer(s *Schema, ns Namer) {
	if s.Table == "" {
		s.Table = ns.TableName(s.Name)
	}
	for _, f := range s.Fields {
		if f.DBName == "" && f.Kind != ForeignKey {
			f.DBName = ns.ColumnName(f.Name)
		}
	}
}

// Resolve derives the table and column names still blank, links every
// foreign key to its referenced schema's primary key and captures
// field zero values. It must run after the last Register call and
// before the registry is used.
func (r *Registry) Resolve(namer ...Namer) error {
	var ns Namer = NamingStrategy{}
	if len(namer) > 0 && namer[0] != nil {
		ns = namer[0]
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// names settle first: a foreign key borrows the referenced primary
	// key's column name, so every schema must be named before linking
	for _, s := range r.ordered {
		applyNamer(s, ns)
	}

	for _, s := range r.ordered {
		for _, f := range s.fkFields {
			target, ok := r.schemas[f.Ref]
			if !ok {
				return fmt.Errorf("schema %s: field %s: %w: %q", s.Name, f.Name, ErrMissingForeignTarget, f.Ref)
			}
			if target.PrimaryField == nil {
				return fmt.Errorf("schema %s: field %s: referenced schema %s: %w", s.Name, f.Name, target.Name, ErrMissingPrimaryKey)
			}

			f.RefSchema = target
			f.RefField = target.PrimaryField
			if f.DBName == "" {
				f.DBName = target.PrimaryField.DBName
			}
		}

		s.FieldsByDBName = map[string]*Field{}
		for _, f := range s.Fields {
			s.FieldsByDBName[f.DBName] = f
		}

		// a default instance supplies the per-field zero values
		blank := s.New()
		for _, f := range s.Fields {
			f.zero = f.ValueOf(blank)
		}
	}

	r.resolved = true
	return nil
}

// Resolved reports whether Resolve has run since the last Register.
func (r *Registry) Resolved() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolved
}

// Schema looks up a registered schema by name.
func (r *Registry) Schema(name string) (*Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
	return s, nil
}

// Schemas returns every registered schema in registration order.
func (r *Registry) Schemas() []*Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Schema, len(r.ordered))
	copy(out, r.ordered)
	return out
}
