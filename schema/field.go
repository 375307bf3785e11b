package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind classifies a field descriptor.
type Kind int

const (
	// Plain ordinary column
	Plain Kind = iota
	// PrimaryKey the single primary key of the schema
	PrimaryKey
	// ForeignKey a column referencing another schema's primary key
	ForeignKey
)

// DataType the column's value domain.
type DataType string

const (
	Bool   DataType = "bool"
	Int    DataType = "int"
	Uint   DataType = "uint"
	Float  DataType = "float"
	String DataType = "string"
	Time   DataType = "time"
	Bytes  DataType = "bytes"
)

// Field describes one member of a model type. Descriptors are declared
// explicitly at registration time; there is no struct-tag reflection.
// Get and Set are typed accessors over the model's in-memory value.
type Field struct {
	Name      string // model member name
	DBName    string // column name, derived from Name when empty
	Kind      Kind
	DataType  DataType
	Mandatory bool
	// Ref names the referenced schema for foreign keys. The referenced
	// primary key is resolved by the registry; its column name becomes
	// this field's DBName unless one was supplied explicitly.
	Ref string

	Get func(rec interface{}) interface{}
	Set func(rec interface{}, v interface{})

	// resolved by Registry.Resolve for foreign keys
	RefSchema *Schema
	RefField  *Field

	Schema *Schema
	zero   interface{}
}

// ValueOf returns the field's current value on rec.
func (field *Field) ValueOf(rec interface{}) interface{} {
	return field.Get(rec)
}

// ZeroValue returns the field's zero value, captured from a default
// instance of the owning model at resolve time.
func (field *Field) ZeroValue() interface{} {
	return field.zero
}

// IsZero reports whether the field's value on rec equals its zero
// value. Field value types must be comparable.
func (field *Field) IsZero(rec interface{}) bool {
	return field.Get(rec) == field.zero
}

// Apply normalizes v to the field's data type and stores it on rec.
func (field *Field) Apply(rec interface{}, v interface{}) error {
	nv, err := field.Normalize(v)
	if err != nil {
		return fmt.Errorf("field %s: %w", field.Name, err)
	}
	field.Set(rec, nv)
	return nil
}

// Normalize converts a driver-supplied value into the field's declared
// data type. Strings are coerced to time via now.Parse for time
// fields, so both RFC3339 and common date layouts scan cleanly.
func (field *Field) Normalize(v interface{}) (interface{}, error) {
	if v == nil {
		return field.zero, nil
	}

	switch field.DataType {
	case Bool:
		switch data := v.(type) {
		case bool:
			return data, nil
		case int64:
			return data != 0, nil
		case string:
			return strconv.ParseBool(data)
		}
	case Int:
		switch data := v.(type) {
		case int:
			return int64(data), nil
		case int32:
			return int64(data), nil
		case int64:
			return data, nil
		case float64:
			return int64(data), nil
		case string:
			return strconv.ParseInt(data, 10, 64)
		}
	case Uint:
		switch data := v.(type) {
		case uint:
			return uint64(data), nil
		case uint64:
			return data, nil
		case int64:
			if data < 0 {
				return nil, fmt.Errorf("negative value %d for unsigned field", data)
			}
			return uint64(data), nil
		case string:
			return strconv.ParseUint(data, 10, 64)
		}
	case Float:
		switch data := v.(type) {
		case float32:
			return float64(data), nil
		case float64:
			return data, nil
		case int64:
			return float64(data), nil
		case string:
			return strconv.ParseFloat(data, 64)
		}
	case String:
		switch data := v.(type) {
		case string:
			return data, nil
		case []byte:
			return string(data), nil
		default:
			return fmt.Sprint(data), nil
		}
	case Time:
		switch data := v.(type) {
		case time.Time:
			return data, nil
		case string:
			if t, err := now.Parse(data); err == nil {
				return t, nil
			} else {
				return nil, err
			}
		case int64:
			return time.Unix(data, 0), nil
		}
	case Bytes:
		switch data := v.(type) {
		case []byte:
			return data, nil
		case string:
			return []byte(data), nil
		}
	}

	return nil, fmt.Errorf("cannot assign %T to %s field", v, field.DataType)
}

var titleCaser = cases.Title(language.English, cases.NoLower)

// Title returns the field name split into space-separated title-cased
// words, for user-facing messages: "CustomerName" -> "Customer Name".
func (field *Field) Title() string {
	var words []string
	var start int

	name := field.Name
	for i := 1; i < len(name); i++ {
		if name[i] >= 'A' && name[i] <= 'Z' && !(name[i-1] >= 'A' && name[i-1] <= 'Z') {
			words = append(words, name[start:i])
			start = i
		}
	}
	words = append(words, name[start:])

	return titleCaser.String(strings.Join(words, " "))
}
