package clause

import "strconv"

// Values holds the column list and row value groups of an INSERT.
// Repeated AddClause calls with Values append further row groups, so a
// batch insert is built by merging one Values clause per row.
type Values struct {
	Columns []Column
	Values  [][]interface{}
}

// Name the clause renders its own keyword
func (values Values) Name() string {
	return "VALUES"
}

// Ordinal values follow the insert leader
func (values Values) Ordinal() Ordinal {
	return OrdinalAssign
}

// Build build values clause. Every row group is wrapped in its own
// parentheses; the final group closes with ')' and never a separator.
func (values Values) Build(builder Builder) {
	if len(values.Columns) == 0 {
		builder.WriteString("DEFAULT VALUES")
		return
	}

	builder.WriteByte('(')
	for idx, column := range values.Columns {
		if idx > 0 {
			builder.WriteByte(',')
		}
		builder.WriteQuoted(column)
	}
	builder.WriteByte(')')

	builder.WriteString(" VALUES ")

	for idx, value := range values.Values {
		if idx > 0 {
			builder.WriteByte(',')
		}

		builder.WriteByte('(')
		for vidx, v := range value {
			if vidx > 0 {
				builder.WriteByte(',')
			}

			name := "v" + strconv.Itoa(vidx)
			if vidx < len(values.Columns) {
				name = values.Columns[vidx]
			}
			builder.AddParam(Param{Name: name, Value: v})
		}
		builder.WriteByte(')')
	}
}

// MergeClause append row groups of merged values clauses
func (values Values) MergeClause(other Interface) Interface {
	if v, ok := other.(Values); ok {
		if len(values.Columns) == 0 {
			values.Columns = v.Columns
		}
		values.Values = append(v.Values, values.Values...)
	}
	return values
}
