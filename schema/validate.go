package schema

import "strings"

// AllowUpdate reports whether every mandatory field of rec holds a
// value. The check runs fresh on each call so it always reflects the
// record's current in-memory state.
func (s *Schema) AllowUpdate(rec interface{}) bool {
	return len(s.emptyMandatoryFields(rec)) == 0
}

// EmptyMandatory returns a human-readable, comma-separated list of the
// mandatory fields of rec that are empty, for user-facing error
// reporting. Empty means nil, an empty string, or a foreign key still
// pointing at an unpersisted record.
func (s *Schema) EmptyMandatory(rec interface{}) string {
	fields := s.emptyMandatoryFields(rec)
	titles := make([]string, 0, len(fields))
	for _, f := range fields {
		titles = append(titles, f.Title())
	}
	return strings.Join(titles, ", ")
}

func (s *Schema) emptyMandatoryFields(rec interface{}) []*Field {
	var empty []*Field

	for _, f := range s.Fields {
		if !f.Mandatory {
			continue
		}

		v := f.ValueOf(rec)
		switch {
		case v == nil:
			empty = append(empty, f)
		case f.Kind == ForeignKey && f.RefField != nil:
			// a zero key means the referenced record was never saved
			if v == f.RefField.ZeroValue() {
				empty = append(empty, f)
			}
		default:
			if str, ok := v.(string); ok && str == "" {
				empty = append(empty, f)
			}
		}
	}

	return empty
}
