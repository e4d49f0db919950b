package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
	"unicode"
)

var (
	durationType = reflect.TypeFor[time.Duration]()
	timeType     = reflect.TypeFor[time.Time]()
)

// TableFormatter prints data as aligned columns.
//
// A struct becomes FIELD/VALUE rows, a map KEY/VALUE rows sorted by key, and
// a slice of structs one row per element. Field names come from the json or
// yaml tag. A field tagged `table:"-"` is never shown and one tagged
// `table:"wide"` only when Wide is set. Data of any other shape is printed
// as YAML.
type TableFormatter struct {
	Wide      bool
	NoHeaders bool
}

// Format implements Formatter.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}
	headers, rows, ok := tabulate(reflect.ValueOf(data), f.Wide)
	if !ok {
		return (&YAMLFormatter{}).Format(w, data)
	}
	if f.NoHeaders {
		headers = nil
	}
	return render(w, headers, rows)
}

func render(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(headers) > 0 {
		fmt.Fprintln(tw, strings.Join(headers, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func tabulate(v reflect.Value, wide bool) (headers []string, rows [][]string, ok bool) {
	v = reflect.Indirect(v)
	switch v.Kind() {
	case reflect.Struct:
		if v.Type() == timeType {
			return nil, nil, false
		}
		for _, col := range columns(v.Type(), wide) {
			rows = append(rows, []string{col.name, cell(v.FieldByIndex(col.index))})
		}
		return []string{"FIELD", "VALUE"}, rows, true

	case reflect.Map:
		it := v.MapRange()
		for it.Next() {
			rows = append(rows, []string{cell(it.Key()), cell(it.Value())})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
		return []string{"KEY", "VALUE"}, rows, true

	case reflect.Slice, reflect.Array:
		elem := v.Type().Elem()
		if elem.Kind() == reflect.Pointer {
			elem = elem.Elem()
		}
		if elem.Kind() != reflect.Struct {
			for i := 0; i < v.Len(); i++ {
				rows = append(rows, []string{cell(v.Index(i))})
			}
			return []string{"VALUE"}, rows, true
		}
		cols := columns(elem, wide)
		for _, col := range cols {
			headers = append(headers, strings.ToUpper(col.name))
		}
		for i := 0; i < v.Len(); i++ {
			e := reflect.Indirect(v.Index(i))
			if !e.IsValid() {
				continue
			}
			row := make([]string, len(cols))
			for j, col := range cols {
				row[j] = cell(e.FieldByIndex(col.index))
			}
			rows = append(rows, row)
		}
		return headers, rows, true
	}
	return nil, nil, false
}

type column struct {
	name  string
	index []int
}

// columns lists the visible fields of t. Fields of embedded structs are
// promoted into t's own columns.
func columns(t reflect.Type, wide bool) []column {
	var cols []column
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous && f.Type.Kind() == reflect.Struct {
			continue
		}
		tag := f.Tag.Get("table")
		if tag == "-" || (tag == "wide" && !wide) {
			continue
		}
		cols = append(cols, column{name: columnName(f), index: f.Index})
	}
	return cols
}

func columnName(f reflect.StructField) string {
	for _, key := range []string{"json", "yaml"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return snakeCase(f.Name)
}

func cell(v reflect.Value) string {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return "-"
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return "-"
	}

	switch v.Type() {
	case durationType:
		return time.Duration(v.Int()).Round(time.Microsecond).String()
	case timeType:
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return "-"
		}
		return t.Format(time.RFC3339)
	}

	switch v.Kind() {
	case reflect.String:
		if v.Len() == 0 {
			return "-"
		}
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', 2, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		if v.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("{%d keys}", v.Len())
	}
	return fmt.Sprint(v.Interface())
}

// snakeCase converts a Go field name to snake_case, keeping runs of
// capitals together: FinalCount is final_count, RunID is run_id.
func snakeCase(s string) string {
	r := []rune(s)
	var b strings.Builder
	for i, c := range r {
		if unicode.IsUpper(c) {
			prevLower := i > 0 && !unicode.IsUpper(r[i-1])
			nextLower := i > 0 && i+1 < len(r) && unicode.IsLower(r[i+1]) && unicode.IsUpper(r[i-1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
			c = unicode.ToLower(c)
		}
		b.WriteRune(c)
	}
	return b.String()
}
