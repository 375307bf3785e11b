package clause_test

import (
	"fmt"
	"reflect"
	"testing"

	recordkit "github.com/recordkit/recordkit"
	"github.com/recordkit/recordkit/clause"
)

func checkBuildClauses(t *testing.T, clauses []clause.Interface, result string, params []clause.Param) {
	t.Helper()

	stmt := recordkit.NewStatement()
	for _, c := range clauses {
		stmt.AddClause(c)
	}

	sql, got, err := stmt.SQL()
	if err != nil {
		t.Fatalf("unexpected error building SQL: %v", err)
	}

	if sql != result {
		t.Errorf("SQL expected %q got %q", result, sql)
	}

	if len(params) == 0 && len(got) == 0 {
		return
	}
	if !reflect.DeepEqual(params, got) {
		t.Errorf("params expected %+v got %+v", params, got)
	}
}

func TestClauseOrdering(t *testing.T) {
	limit := 10

	results := []struct {
		Clauses []clause.Interface
		Result  string
		Params  []clause.Param
	}{
		{
			[]clause.Interface{clause.Select{}, clause.From{Table: "users"}},
			"SELECT * FROM `users`", nil,
		},
		{
			// scrambled call order, fixed render order
			[]clause.Interface{
				clause.Limit{Limit: &limit},
				clause.OrderBy{Columns: []clause.OrderByColumn{{Column: "age", Desc: true}}},
				clause.Where{Exprs: []clause.Expression{clause.Gt{Column: "age", Value: 18}}},
				clause.From{Table: "users"},
				clause.Select{},
			},
			"SELECT * FROM `users` WHERE `age` > @age ORDER BY `age` DESC LIMIT @limit",
			[]clause.Param{{Name: "age", Value: 18}, {Name: "limit", Value: 10}},
		},
		{
			[]clause.Interface{
				clause.GroupBy{Columns: []clause.Column{"role"}},
				clause.Having{Exprs: []clause.Expression{clause.Expr{SQL: "COUNT(*) > 1"}}},
				clause.From{Table: "users"},
				clause.Select{Columns: []clause.Column{"role"}},
			},
			"SELECT `role` FROM `users` GROUP BY `role` HAVING COUNT(*) > 1", nil,
		},
		{
			[]clause.Interface{
				clause.Delete{}, clause.From{Table: "users"},
				clause.Where{Exprs: []clause.Expression{clause.Eq{Column: "id", Value: 7}}},
			},
			"DELETE FROM `users` WHERE `id` = @id",
			[]clause.Param{{Name: "id", Value: 7}},
		},
	}

	for idx, result := range results {
		t.Run(fmt.Sprintf("case #%v", idx), func(t *testing.T) {
			checkBuildClauses(t, result.Clauses, result.Result, result.Params)
		})
	}
}
