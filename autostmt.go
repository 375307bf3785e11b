package recordkit

import (
	"github.com/recordkit/recordkit/clause"
	"github.com/recordkit/recordkit/schema"
)

// buildAutoStatements renders and caches the CRUD statements of one
// schema. Placeholders are named after the columns, so the texts pair
// with Schema.BindParameters at execution time.
func buildAutoStatements(s *schema.Schema) {
	persisted := s.PersistedFields()
	columns := make([]clause.Column, 0, len(persisted))
	for _, f := range persisted {
		columns = append(columns, f.DBName)
	}

	pkEq := clause.Eq{Column: s.PrimaryField.DBName, Value: s.PrimaryField.ZeroValue()}

	s.Auto.Select = mustSQL(NewStatement().
		AddClause(clause.Select{}).
		AddClause(clause.From{Table: s.Table}))

	s.Auto.Insert = mustSQL(NewStatement().
		AddClause(clause.Insert{Table: s.Table}).
		AddClause(clause.Values{Columns: columns, Values: [][]interface{}{make([]interface{}, len(columns))}}))

	assignments := make([]clause.Assignment, 0, len(persisted))
	for _, f := range persisted {
		assignments = append(assignments, clause.Assignment{Column: f.DBName})
	}
	s.Auto.Update = mustSQL(NewStatement().
		AddClause(clause.Update{Table: s.Table, Assignments: assignments}).
		AddClause(clause.Where{Exprs: []clause.Expression{pkEq}}))

	s.Auto.Delete = mustSQL(NewStatement().
		AddClause(clause.Delete{}).
		AddClause(clause.From{Table: s.Table}).
		AddClause(clause.Where{Exprs: []clause.Expression{pkEq}}))

	s.Auto.Count = mustSQL(NewStatement().
		AddClause(clause.Select{Exprs: []clause.Expression{clause.Expr{SQL: "COUNT(*)"}}}).
		AddClause(clause.From{Table: s.Table}))
}

// mustSQL renders statements assembled from resolved descriptors only;
// those cannot produce assembly errors.
func mustSQL(stmt *Statement) string {
	sql, _, err := stmt.SQL()
	if err != nil {
		panic(err)
	}
	return sql
}
