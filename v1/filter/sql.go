package filter

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope returns a gorm scope that applies the filter as a WHERE clause.
// The generated SQL selects exactly the records Match would accept:
//
//	db.Model(&Todo{}).Scopes(compiled.Scope()).Find(&todos)
//
// like is rendered as a case-sensitive containment test (strpos on postgres,
// instr elsewhere) so that LIKE wildcards in the value are not interpreted.
// On mysql, text comparisons go through BINARY because the default
// collations ignore case.
func (c *Compiled[T]) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if c.Empty() {
			return db
		}
		dialect := ""
		if db.Dialector != nil {
			dialect = db.Dialector.Name()
		}

		exprs := make([]clause.Expression, 0, len(c.conds))
		for _, cond := range c.conds {
			exprs = append(exprs, cond.Expression(dialect))
		}
		return db.Clauses(clause.Where{Exprs: exprs})
	}
}

// Expression renders the condition as a gorm clause expression for the given
// dialect name ("postgres", "sqlite", "mysql").
func (c Condition) Expression(dialect string) clause.Expression {
	col := clause.Column{Name: c.Column}
	if dialect == "mysql" && c.Type == Text {
		return c.binaryExpression(col)
	}
	switch c.Operator {
	case Gt:
		return clause.Gt{Column: col, Value: c.Value.Any()}
	case Lt:
		return clause.Lt{Column: col, Value: c.Value.Any()}
	case Like:
		fn := "instr"
		if dialect == "postgres" {
			fn = "strpos"
		}
		return clause.Expr{SQL: fn + "(?, ?) > 0", Vars: []interface{}{col, c.Value.Any()}}
	case In:
		values := make([]interface{}, len(c.Set))
		for i, v := range c.Set {
			values[i] = v.Any()
		}
		return clause.IN{Column: col, Values: values}
	default:
		return clause.Eq{Column: col, Value: c.Value.Any()}
	}
}

func (c Condition) binaryExpression(col clause.Column) clause.Expression {
	switch c.Operator {
	case Like:
		return clause.Expr{SQL: "INSTR(BINARY ?, ?) > 0", Vars: []interface{}{col, c.Value.Any()}}
	case In:
		values := make([]interface{}, len(c.Set))
		for i, v := range c.Set {
			values[i] = v.Any()
		}
		return clause.Expr{SQL: "BINARY ? IN ?", Vars: []interface{}{col, values}}
	default:
		return clause.Expr{SQL: "BINARY ? = ?", Vars: []interface{}{col, c.Value.Any()}}
	}
}
