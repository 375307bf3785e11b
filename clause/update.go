package clause

// Assignment assign statement
type Assignment struct {
	Column Column
	Value  interface{}
}

// Update update clause, renders UPDATE ... SET as one segment
type Update struct {
	Table       Column
	Modifier    string
	Assignments []Assignment
}

// Name update clause name
func (update Update) Name() string {
	return "UPDATE"
}

// Ordinal update occupies the assign slot, the leader slot stays empty
func (update Update) Ordinal() Ordinal {
	return OrdinalAssign
}

// Build build update clause
func (update Update) Build(builder Builder) {
	builder.WriteString("UPDATE ")
	if update.Modifier != "" {
		builder.WriteString(update.Modifier)
		builder.WriteByte(' ')
	}
	builder.WriteQuoted(update.Table)

	builder.WriteString(" SET ")
	for idx, assignment := range update.Assignments {
		if idx > 0 {
			builder.WriteString(", ")
		}
		builder.WriteQuoted(assignment.Column)
		builder.WriteString(" = ")
		builder.AddParam(Param{Name: assignment.Column, Value: assignment.Value})
	}
}

// MergeClause merge update clauses, appending assignments
func (update Update) MergeClause(other Interface) Interface {
	if v, ok := other.(Update); ok {
		if update.Table == "" {
			update.Table = v.Table
		}
		if update.Modifier == "" {
			update.Modifier = v.Modifier
		}
		update.Assignments = append(v.Assignments, update.Assignments...)
	}
	return update
}
