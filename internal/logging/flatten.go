package logging

import (
	"strings"

	"go-logsink/internal/models"

	"github.com/davecgh/go-spew/spew"
)

// dumper renders non-scalar values that end up in a column.
var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Flattener turns a record into a row of column values. Without a column
// map every field name (and every nested sub-field name) becomes a column;
// with one, only mapped fields survive.
type Flattener struct {
	dateFormat string
	columnMap  models.ColumnMap
}

// NewFlattener keeps columnMap as given; nil selects direct mode.
func NewFlattener(dateFormat string, columnMap models.ColumnMap) *Flattener {
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}
	return &Flattener{dateFormat: dateFormat, columnMap: columnMap}
}

// Flatten renders the datetime field and collapses the record into a row.
func (f *Flattener) Flatten(rec models.Record) *models.Row {
	rec = f.renderDatetime(rec)
	if f.columnMap == nil {
		return f.direct(rec)
	}
	return f.mapped(rec)
}

func (f *Flattener) renderDatetime(rec models.Record) models.Record {
	v, ok := rec.Fields.Get(models.KeyDatetime)
	if !ok || v.Kind() != models.KindTime {
		return rec
	}
	return rec.With(models.KeyDatetime, models.Scalar(FormatDate(v.Time(), f.dateFormat)))
}

// direct: sub-field keys of nested values become columns without a prefix,
// so the last field processed wins a name clash.
func (f *Flattener) direct(rec models.Record) *models.Row {
	row := models.NewRow()
	for _, field := range rec.Fields {
		if !field.Value.IsNested() {
			row.Set(field.Key, field.Value.Interface())
			continue
		}
		for _, sub := range field.Value.Fields() {
			row.Set(sub.Key, columnValue(sub.Value))
		}
	}
	return row
}

func (f *Flattener) mapped(rec models.Record) *models.Row {
	row := models.NewRow()
	for _, field := range rec.Fields {
		target, ok := f.columnMap[field.Key]
		if !ok {
			continue
		}
		switch {
		case target.Nested != nil:
			if !field.Value.IsNested() {
				continue
			}
			for _, sub := range field.Value.Fields() {
				if column, ok := target.Nested[sub.Key]; ok && column != "" {
					row.Set(column, columnValue(sub.Value))
				}
			}
		case target.Column != "":
			row.Set(target.Column, field.Value.Interface())
		}
	}
	return row
}

// columnValue passes scalars through and dumps everything else.
func columnValue(v models.Value) interface{} {
	if v.IsScalar() {
		return v.Interface()
	}
	return DebugString(v)
}

// DebugString is the human-readable dump stored for non-scalar values.
func DebugString(v models.Value) string {
	return strings.TrimRight(dumper.Sdump(v.Interface()), "\n")
}
