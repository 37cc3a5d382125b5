// Package separator implements a textual format where the fields of a record are joined with a
// minor separator and records are joined with a major separator:
//
//	field1<minor>field2<minor>...<major>field1<minor>...<major><terminator>
//
// The major separator after the last record is always written. Every field is converted to
// its string form, so unpacking yields strings regardless of the original field types.
package separator

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/teenjuna/buffered/packager"
)

type Packager struct {
	major      string
	minor      string
	terminator string
}

var _ packager.Packager = (*Packager)(nil)

func New(major, minor string) *Packager {
	if major == "" {
		panic("major separator can't be empty")
	}
	if minor == "" {
		panic("minor separator can't be empty")
	}
	if major == minor {
		panic("major and minor separators can't be equal")
	}
	return &Packager{
		major:      major,
		minor:      minor,
		terminator: packager.DefaultTerminator,
	}
}

func (p *Packager) WithTerminator(terminator string) *Packager {
	p.terminator = terminator
	return p
}

// Pack writes data as one record or as a list of records.
//
// Data is a list of records when it's a slice or array whose first element is itself a
// slice, array or struct. Otherwise data is a single record. The fields of a record are the
// elements of a slice or array, or the exported fields of a struct. Any other value is a
// record with a single field.
func (p *Packager) Pack(data any, terminate bool) ([]byte, error) {
	var buf bytes.Buffer

	for _, record := range records(reflect.ValueOf(data)) {
		for i, field := range fields(record) {
			if i > 0 {
				buf.WriteString(p.minor)
			}
			buf.WriteString(leaf(field))
		}
		buf.WriteString(p.major)
	}

	if terminate {
		buf.WriteString(p.terminator)
	}

	return buf.Bytes(), nil
}

// Unpack returns a []string when data holds a single record and a [][]string otherwise.
//
// Callers that can't know in advance how many records were packed should use
// [Packager.UnpackRecords].
func (p *Packager) Unpack(data []byte) (any, error) {
	records, err := p.UnpackRecords(data)
	if err != nil {
		return nil, err
	}
	if len(records) == 1 {
		return records[0], nil
	}
	return records, nil
}

// UnpackRecords works like Unpack, but always returns the list of records.
func (p *Packager) UnpackRecords(data []byte) ([][]string, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: separator: invalid UTF-8", packager.ErrMalformed)
	}

	s := string(data)
	s = strings.TrimSuffix(s, p.terminator)
	s = strings.TrimSuffix(s, p.major)

	items := strings.Split(s, p.major)
	records := make([][]string, len(items))
	for i, item := range items {
		records[i] = strings.Split(item, p.minor)
	}

	return records, nil
}

func records(v reflect.Value) []reflect.Value {
	v = indirect(v)
	if isList(v) && v.Len() > 0 && isRecord(indirect(v.Index(0))) {
		out := make([]reflect.Value, v.Len())
		for i := range out {
			out[i] = v.Index(i)
		}
		return out
	}
	return []reflect.Value{v}
}

func fields(v reflect.Value) []reflect.Value {
	v = indirect(v)
	switch {
	case isList(v):
		out := make([]reflect.Value, v.Len())
		for i := range out {
			out[i] = v.Index(i)
		}
		return out
	case isStruct(v):
		out := make([]reflect.Value, 0, v.NumField())
		for i := range v.NumField() {
			if v.Type().Field(i).IsExported() {
				out = append(out, v.Field(i))
			}
		}
		return out
	default:
		return []reflect.Value{v}
	}
}

func leaf(v reflect.Value) string {
	v = indirect(v)
	if !v.IsValid() {
		return "<nil>"
	}

	switch {
	case v.Kind() == reflect.Float32:
		return formatFloat(v.Float(), 32)
	case v.Kind() == reflect.Float64:
		return formatFloat(v.Float(), 64)
	case v.Kind() == reflect.String:
		return v.String()
	case isBytes(v):
		return string(v.Bytes())
	case v.CanInterface():
		return fmt.Sprint(v.Interface())
	default:
		return fmt.Sprint(v)
	}
}

// formatFloat writes the shortest representation that round-trips, always keeping a fraction
// or an exponent, so 1 is written as "1.0" and 1e16 as "1e+16".
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, bitSize)
	}

	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

var stringer = reflect.TypeFor[fmt.Stringer]()

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isBytes(v reflect.Value) bool {
	return v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8
}

func isList(v reflect.Value) bool {
	return (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && !isBytes(v)
}

func isStruct(v reflect.Value) bool {
	return v.Kind() == reflect.Struct && !v.Type().Implements(stringer)
}

func isRecord(v reflect.Value) bool {
	return isList(v) || isStruct(v)
}
