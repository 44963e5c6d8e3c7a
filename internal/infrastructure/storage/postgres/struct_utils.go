package postgres

import (
	"reflect"
	"sync"
)

// columnIndex maps a db column to the field index path inside a struct.
type columnIndex struct {
	column string
	index  []int
}

var columnCache sync.Map // map[reflect.Type][]columnIndex

// columnsOf returns the "db" columns of a struct type, flattening embedded
// structs. Results are cached per type.
func columnsOf(t reflect.Type) []columnIndex {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := columnCache.Load(t); ok {
		return cached.([]columnIndex)
	}

	var cols []columnIndex
	if t.Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(t) {
			if f.Anonymous {
				continue
			}
			tag := f.Tag.Get("db")
			if tag == "" || tag == "-" {
				continue
			}
			cols = append(cols, columnIndex{column: tag, index: f.Index})
		}
	}

	columnCache.Store(t, cols)
	return cols
}

// ExtractDBColumns lists the "db" columns of T in declaration order.
func ExtractDBColumns[T any]() []string {
	var zero T
	cols := columnsOf(reflect.TypeOf(zero))
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.column
	}
	return out
}

// StructToMap converts a struct to a column map using "db" tags, including
// fields promoted from embedded structs.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	cols := columnsOf(rv.Type())
	res := make(map[string]any, len(cols))
	for _, c := range cols {
		res[c.column] = rv.FieldByIndex(c.index).Interface()
	}
	return res
}
