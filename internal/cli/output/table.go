package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
)

// Table is tabular data with optional headers.
type Table struct {
	Headers []string
	Rows    [][]string
}

// NewTable creates a table with headers.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render writes the table with headers.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions writes the table, omitting headers when noHeaders is
// set.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !noHeaders && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// Records returns the rows as maps keyed by lower-cased header, for the
// structured formats.
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(row))
		for i, cell := range row {
			key := fmt.Sprintf("col%d", i)
			if i < len(t.Headers) {
				key = strings.ToLower(strings.ReplaceAll(t.Headers[i], " ", "_"))
			}
			rec[key] = cell
		}
		out = append(out, rec)
	}
	return out
}

// Tabular is implemented by values that choose their own table layout.
type Tabular interface {
	Table() *Table
}

// TableFormatter renders data as aligned columns.
type TableFormatter struct {
	NoHeaders bool
}

// Format renders a *Table or Tabular as is. Structs become FIELD/VALUE rows, maps
// become KEY/VALUE rows sorted by key, and slices of structs become one
// row per element.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}
	switch t := data.(type) {
	case *Table:
		return t.RenderWithOptions(w, f.NoHeaders)
	case Table:
		return t.RenderWithOptions(w, f.NoHeaders)
	case Tabular:
		return t.Table().RenderWithOptions(w, f.NoHeaders)
	case fmt.Stringer:
		_, err := fmt.Fprintln(w, t.String())
		return err
	}

	table, err := toTable(reflect.ValueOf(data))
	if err != nil {
		return err
	}
	return table.RenderWithOptions(w, f.NoHeaders)
}

func toTable(v reflect.Value) (*Table, error) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return &Table{}, nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		return structToTable(v), nil
	case reflect.Map:
		return mapToTable(v), nil
	case reflect.Slice, reflect.Array:
		return sliceToTable(v), nil
	default:
		return &Table{Rows: [][]string{{formatValue(v)}}}, nil
	}
}

// fieldName returns the yaml (then json) tag name of a field, or "" when
// the field is skipped.
func fieldName(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	for _, key := range []string{"yaml", "json"} {
		tag, ok := f.Tag.Lookup(key)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func structToTable(v reflect.Value) *Table {
	t := NewTable("FIELD", "VALUE")
	typ := v.Type()
	for i := 0; i < typ.NumField(); i++ {
		if name := fieldName(typ.Field(i)); name != "" {
			t.AddRow(name, formatValue(v.Field(i)))
		}
	}
	return t
}

func mapToTable(v reflect.Value) *Table {
	t := NewTable("KEY", "VALUE")
	for _, k := range sortedKeys(v) {
		t.AddRow(formatValue(k), formatValue(v.MapIndex(k)))
	}
	return t
}

func sliceToTable(v reflect.Value) *Table {
	if v.Len() == 0 {
		return &Table{}
	}
	elemType := v.Type().Elem()
	for elemType.Kind() == reflect.Pointer {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		t := NewTable("VALUE")
		for i := 0; i < v.Len(); i++ {
			t.AddRow(formatValue(v.Index(i)))
		}
		return t
	}

	var (
		idx []int
		t   = &Table{}
	)
	for i := 0; i < elemType.NumField(); i++ {
		if name := fieldName(elemType.Field(i)); name != "" {
			idx = append(idx, i)
			t.Headers = append(t.Headers, strings.ToUpper(name))
		}
	}
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		for elem.Kind() == reflect.Pointer {
			elem = elem.Elem()
		}
		row := make([]string, len(idx))
		for j, fi := range idx {
			row[j] = formatValue(elem.Field(fi))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func sortedKeys(v reflect.Value) []reflect.Value {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return formatValue(keys[i]) < formatValue(keys[j])
	})
	return keys
}

var timeType = reflect.TypeOf(time.Time{})

// formatValue renders one cell.
func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	if v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Type() == timeType {
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return "-"
		}
		return t.Format(time.RFC3339)
	}
	if v.CanInterface() {
		if s, ok := v.Interface().(fmt.Stringer); ok {
			return s.String()
		}
	}

	switch v.Kind() {
	case reflect.String:
		if v.String() == "" {
			return "-"
		}
		return v.String()
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%g", v.Float())
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "-"
		}
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = formatValue(v.Index(i))
		}
		return strings.Join(parts, ",")
	case reflect.Map:
		if v.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("{%d keys}", v.Len())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
