package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Aleph-Alpha/todoapi/v1/filter"
	"gorm.io/gorm"
)

// MaxNameLength is the longest accepted Name, in characters.
const MaxNameLength = 255

var (
	// ErrNotFound is returned when no todo has the requested id.
	ErrNotFound = errors.New("todo not found")

	// ErrInvalidTodo is returned when a todo fails validation.
	ErrInvalidTodo = errors.New("invalid todo")

	// ErrIDMismatch is returned when an update names a different id in the body than in the path.
	ErrIDMismatch = errors.New("todo id does not match the request path")
)

// Todo is a single task.
type Todo struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Completed bool      `json:"completed" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

// TableName pins the gorm table name.
func (Todo) TableName() string { return "todos" }

// AfterFind normalises timestamps read from the database to UTC.
func (t *Todo) AfterFind(*gorm.DB) error {
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return nil
}

// Validate checks the user-controlled fields.
func (t Todo) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTodo)
	}
	if n := utf8.RuneCountInString(t.Name); n > MaxNameLength {
		return fmt.Errorf("%w: name must be at most %d characters, got %d", ErrInvalidTodo, MaxNameLength, n)
	}
	return nil
}

// Schema lists the fields a filter may reference. Column names match the
// gorm columns of Todo.
var Schema = filter.NewSchema("todo",
	filter.IntField("id", func(t Todo) int32 { return int32(t.ID) }),
	filter.TextField("name", func(t Todo) string { return t.Name }),
	filter.BoolField("completed", func(t Todo) bool { return t.Completed }),
	filter.TimeField("createdAt", func(t Todo) time.Time { return t.CreatedAt }),
	filter.TimeField("updatedAt", func(t Todo) time.Time { return t.UpdatedAt }),
)

// now is the clock used for CreatedAt/UpdatedAt. Timestamps are truncated to
// microseconds so they survive a round trip through postgres unchanged.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
