package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormQueryBuilder accumulates gorm chain calls. A builder is not safe for
// concurrent use; create one per query.
type gormQueryBuilder struct {
	db *gorm.DB
}

// Where adds a WHERE condition; multiple calls are combined with AND.
//
//	qb.Where("completed = ?", true)
func (qb *gormQueryBuilder) Where(query interface{}, args ...interface{}) QueryBuilder {
	qb.db = qb.db.Where(query, args...)
	return qb
}

// Order adds an ORDER BY clause.
func (qb *gormQueryBuilder) Order(value interface{}) QueryBuilder {
	qb.db = qb.db.Order(value)
	return qb
}

// Model selects the table from a model value.
func (qb *gormQueryBuilder) Model(value interface{}) QueryBuilder {
	qb.db = qb.db.Model(value)
	return qb
}

// Scopes applies reusable query modifiers, such as a compiled filter's Scope.
func (qb *gormQueryBuilder) Scopes(funcs ...func(*gorm.DB) *gorm.DB) QueryBuilder {
	qb.db = qb.db.Scopes(funcs...)
	return qb
}

// ForUpdate adds FOR UPDATE on dialects that support row locks.
func (qb *gormQueryBuilder) ForUpdate() QueryBuilder {
	if qb.db.Dialector != nil && qb.db.Dialector.Name() == "sqlite" {
		return qb
	}
	qb.db = qb.db.Clauses(clause.Locking{Strength: "UPDATE"})
	return qb
}

// Find executes the query and scans every row into dest.
func (qb *gormQueryBuilder) Find(dest interface{}) error {
	return qb.db.Find(dest).Error
}

// First executes the query and scans the first row into dest.
func (qb *gormQueryBuilder) First(dest interface{}) error {
	return qb.db.First(dest).Error
}
