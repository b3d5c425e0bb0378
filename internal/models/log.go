package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Standard record keys, in the order NewRecord lays them out.
const (
	KeyMessage   = "message"
	KeyContext   = "context"
	KeyLevel     = "level"
	KeyLevelName = "level_name"
	KeyChannel   = "channel"
	KeyDatetime  = "datetime"
	KeyExtra     = "extra"
)

// Level is a record severity. The numeric values match the ones most
// PSR-3 style log tables already store in their level column.
type Level int

const (
	LevelDebug     Level = 100
	LevelInfo      Level = 200
	LevelNotice    Level = 250
	LevelWarning   Level = 300
	LevelError     Level = 400
	LevelCritical  Level = 500
	LevelAlert     Level = 550
	LevelEmergency Level = 600
)

var levelNames = map[Level]string{
	LevelDebug:     "DEBUG",
	LevelInfo:      "INFO",
	LevelNotice:    "NOTICE",
	LevelWarning:   "WARNING",
	LevelError:     "ERROR",
	LevelCritical:  "CRITICAL",
	LevelAlert:     "ALERT",
	LevelEmergency: "EMERGENCY",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel accepts a level name (any case, "warn" included) or its numeric value.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARN" {
		return LevelWarning, nil
	}
	for lvl, n := range levelNames {
		if n == name {
			return lvl, nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(name, "%d", &n); err == nil {
		if _, ok := levelNames[Level(n)]; ok {
			return Level(n), nil
		}
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// Kind tags the shape of a Value.
type Kind uint8

const (
	KindScalar Kind = iota // string, bool, integer or float
	KindNested             // ordered sub-fields (context, extra, ...)
	KindTime               // a timestamp, rendered with the date format
	KindOther              // anything else: slices, maps of other shapes, nil
)

// Value is one record field value.
type Value struct {
	kind   Kind
	scalar interface{}
	fields Fields
	t      time.Time
	other  interface{}
}

func Scalar(v interface{}) Value { return Value{kind: KindScalar, scalar: v} }
func Nested(fields ...Field) Value { return Value{kind: KindNested, fields: fields} }
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }
func Other(v interface{}) Value { return Value{kind: KindOther, other: v} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) Fields() Fields { return v.fields }
func (v Value) Time() time.Time { return v.t }
func (v Value) IsScalar() bool { return v.kind == KindScalar }
func (v Value) IsNested() bool { return v.kind == KindNested }

// Interface returns the plain Go value. Nested values come back as
// map[string]interface{}, losing their order.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindNested:
		m := make(map[string]interface{}, len(v.fields))
		for _, f := range v.fields {
			m[f.Key] = f.Value.Interface()
		}
		return m
	case KindTime:
		return v.t
	default:
		return v.other
	}
}

// FromInterface classifies a plain Go value, as produced by JSON decoding
// or zap's map encoder.
func FromInterface(v interface{}) Value {
	switch x := v.(type) {
	case Value:
		return x
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return Scalar(x)
	case time.Time:
		return Time(x)
	case Fields:
		return Nested(x...)
	case map[string]interface{}:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make(Fields, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, Field{Key: k, Value: FromInterface(x[k])})
		}
		return Nested(fields...)
	default:
		return Other(v)
	}
}

// Field is one key/value pair of a record or of a nested value.
type Field struct {
	Key   string
	Value Value
}

// Fields keeps insertion order.
type Fields []Field

// Get returns the first field named key.
func (fs Fields) Get(key string) (Value, bool) {
	for _, f := range fs {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// With returns a copy with key set to v, replacing an existing field in
// place or appending a new one.
func (fs Fields) With(key string, v Value) Fields {
	out := make(Fields, len(fs), len(fs)+1)
	copy(out, fs)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = v
			return out
		}
	}
	return append(out, Field{Key: key, Value: v})
}

// Record is one log event as handed to a handler. Handlers treat it as
// immutable and copy before changing anything.
type Record struct {
	Fields Fields
}

// NewRecord builds a record with the standard field layout.
func NewRecord(channel string, level Level, message string, at time.Time, context, extra Fields) Record {
	if context == nil {
		context = Fields{}
	}
	if extra == nil {
		extra = Fields{}
	}
	return Record{Fields: Fields{
		{Key: KeyMessage, Value: Scalar(message)},
		{Key: KeyContext, Value: Nested(context...)},
		{Key: KeyLevel, Value: Scalar(int(level))},
		{Key: KeyLevelName, Value: Scalar(level.String())},
		{Key: KeyChannel, Value: Scalar(channel)},
		{Key: KeyDatetime, Value: Time(at)},
		{Key: KeyExtra, Value: Nested(extra...)},
	}}
}

// Level reads the record severity from the level field, falling back to
// level_name. Records carrying neither are treated as DEBUG.
func (r Record) Level() Level {
	if v, ok := r.Fields.Get(KeyLevel); ok && v.IsScalar() {
		switch n := v.scalar.(type) {
		case int:
			return Level(n)
		case int64:
			return Level(n)
		case float64:
			return Level(int(n))
		case string:
			if lvl, err := ParseLevel(n); err == nil {
				return lvl
			}
		}
	}
	if v, ok := r.Fields.Get(KeyLevelName); ok && v.IsScalar() {
		if s, ok := v.scalar.(string); ok {
			if lvl, err := ParseLevel(s); err == nil {
				return lvl
			}
		}
	}
	return LevelDebug
}

// Message returns the message field when it is a string.
func (r Record) Message() string {
	if v, ok := r.Fields.Get(KeyMessage); ok && v.IsScalar() {
		if s, ok := v.scalar.(string); ok {
			return s
		}
	}
	return ""
}

// With returns a copy of the record with key set to v.
func (r Record) With(key string, v Value) Record {
	return Record{Fields: r.Fields.With(key, v)}
}

// ColumnTarget is a column map entry: either a column name for a top-level
// field, or sub-field to column names for a nested field. The zero value
// matches nothing.
type ColumnTarget struct {
	Column string
	Nested map[string]string
}

// ColumnMap translates record fields into table columns. Fields without an
// entry are dropped. A nil ColumnMap means "use the field names".
type ColumnMap map[string]ColumnTarget

// Row is a flattened record: column names in first-insertion order.
type Row struct {
	columns []string
	values  map[string]interface{}
}

func NewRow() *Row {
	return &Row{values: make(map[string]interface{})}
}

// Set stores value under column. An existing column keeps its position and
// takes the new value.
func (r *Row) Set(column string, value interface{}) {
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

func (r *Row) Get(column string) (interface{}, bool) {
	v, ok := r.values[column]
	return v, ok
}

func (r *Row) Columns() []string {
	return append([]string(nil), r.columns...)
}

func (r *Row) Len() int { return len(r.columns) }

// Map returns the column values keyed by column, ready for named binding.
func (r *Row) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}
