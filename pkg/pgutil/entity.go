package pgutil

import (
	"reflect"
	"time"
)

// Entity binds a Go struct to a database table. Fields map to columns via
// `db` struct tags, the same tags pgx uses for scanning. Methods must use
// value receivers, since the repository calls them on zero values.
type Entity interface {
	// TableName returns the table the entity is stored in.
	TableName() string

	// UniqueColumns lists the primary key and unique-constraint columns
	// used for conflict resolution during InsertOrUpdate.
	UniqueColumns() []string
}

// Base carries the columns every geep table has. Embed it in entity
// structs; the store generates all three values.
type Base struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Columns the store owns. They are excluded from INSERT and UPDATE column
// lists; updated_at is maintained with now() on writes.
var generatedColumns = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// writableColumns extracts the insertable column names and values from an
// entity struct, descending into embedded structs and skipping generated
// columns and untagged fields.
func writableColumns(entity any) ([]string, []any) {
	var (
		columns []string
		values  []any
	)

	v := reflect.ValueOf(entity)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	collectWritable(v, &columns, &values)
	return columns, values
}

func collectWritable(v reflect.Value, columns *[]string, values *[]any) {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			collectWritable(v.Field(i), columns, values)
			continue
		}

		column := field.Tag.Get("db")
		if column == "" || column == "-" || generatedColumns[column] {
			continue
		}

		*columns = append(*columns, column)
		*values = append(*values, v.Field(i).Interface())
	}
}
