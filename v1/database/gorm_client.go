package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// GormClient implements Client on top of a gorm handle. The handle is looked
// up through conn on every call so that drivers can swap connections (e.g.
// after a reconnect) without invalidating the client.
type GormClient struct {
	conn     func() *gorm.DB
	shutdown func() error
}

// NewGormClient returns a Client that reads its handle from conn. shutdown is
// called by GracefulShutdown and may be nil.
func NewGormClient(conn func() *gorm.DB, shutdown func() error) *GormClient {
	return &GormClient{conn: conn, shutdown: shutdown}
}

var _ Client = (*GormClient)(nil)

func (g *GormClient) db(ctx context.Context) *gorm.DB {
	return g.conn().WithContext(ctx)
}

// First finds the first record ordered by primary key that matches the given conditions
func (g *GormClient) First(ctx context.Context, dest interface{}, conditions ...interface{}) error {
	return g.db(ctx).First(dest, conditions...).Error
}

// Create inserts value
func (g *GormClient) Create(ctx context.Context, value interface{}) error {
	return g.db(ctx).Create(value).Error
}

// Update updates the non-zero fields of attrs on model (or every key of a map)
// and returns the number of affected rows.
func (g *GormClient) Update(ctx context.Context, model interface{}, attrs interface{}) (int64, error) {
	result := g.db(ctx).Model(model).Updates(attrs)
	return result.RowsAffected, result.Error
}

// Delete deletes records that match the given conditions
func (g *GormClient) Delete(ctx context.Context, value interface{}, conditions ...interface{}) (int64, error) {
	result := g.db(ctx).Delete(value, conditions...)
	return result.RowsAffected, result.Error
}

// Count counts records of model; conditions follow gorm's Where signature.
func (g *GormClient) Count(ctx context.Context, model interface{}, count *int64, conditions ...interface{}) error {
	db := g.db(ctx).Model(model)
	if len(conditions) > 0 {
		db = db.Where(conditions[0], conditions[1:]...)
	}
	return db.Count(count).Error
}

// Query starts a QueryBuilder bound to ctx.
func (g *GormClient) Query(ctx context.Context) QueryBuilder {
	return &gormQueryBuilder{db: g.db(ctx)}
}

// Transaction commits when fn returns nil and rolls back otherwise.
//
//	err := client.Transaction(ctx, func(tx database.Client) error {
//	    if _, err := tx.Delete(ctx, &todo.Todo{}, id); err != nil {
//	        return err
//	    }
//	    return tx.Create(ctx, &replacement)
//	})
func (g *GormClient) Transaction(ctx context.Context, fn func(tx Client) error) error {
	return g.db(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormClient(func() *gorm.DB { return tx }, nil))
	})
}

// AutoMigrate creates or alters tables for the given models.
func (g *GormClient) AutoMigrate(ctx context.Context, models ...interface{}) error {
	return g.db(ctx).AutoMigrate(models...)
}

// Ping checks connectivity of the underlying pool.
func (g *GormClient) Ping(ctx context.Context) error {
	sqlDB, err := g.conn().DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// DB returns the current gorm handle.
func (g *GormClient) DB() *gorm.DB {
	return g.conn()
}

// Dialect returns the gorm dialector name.
func (g *GormClient) Dialect() string {
	if db := g.conn(); db != nil && db.Dialector != nil {
		return db.Dialector.Name()
	}
	return ""
}

// TranslateError is the package-level TranslateError.
func (g *GormClient) TranslateError(err error) error {
	return TranslateError(err)
}

// GracefulShutdown releases the underlying connection through the shutdown
// callback given to NewGormClient.
func (g *GormClient) GracefulShutdown() error {
	if g.shutdown == nil {
		return nil
	}
	return g.shutdown()
}
