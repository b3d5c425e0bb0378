package logging

import (
	"errors"
	"fmt"
	"time"

	"go-logsink/internal/models"

	"github.com/tidwall/gjson"
)

// ErrInvalidRecord is returned for payloads that are not a JSON object.
var ErrInvalidRecord = errors.New("record must be a JSON object")

// DecodeRecord parses one JSON record, keeping the key order of the
// document. Missing standard fields are filled in: level defaults to INFO,
// datetime to now, and a level/level_name pair is kept consistent. A
// datetime string in RFC 3339 becomes a time value so the date format
// applies to it.
func DecodeRecord(data []byte) (models.Record, error) {
	if !gjson.ValidBytes(data) {
		return models.Record{}, ErrInvalidRecord
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return models.Record{}, ErrInvalidRecord
	}

	var fields models.Fields
	doc.ForEach(func(key, value gjson.Result) bool {
		fields = append(fields, models.Field{Key: key.String(), Value: jsonValue(value)})
		return true
	})
	rec := models.Record{Fields: fields}

	level := models.LevelInfo
	if v := doc.Get(models.KeyLevel); v.Exists() {
		parsed, err := parseJSONLevel(v)
		if err != nil {
			return models.Record{}, err
		}
		level = parsed
	} else if v := doc.Get(models.KeyLevelName); v.Exists() {
		parsed, err := models.ParseLevel(v.String())
		if err != nil {
			return models.Record{}, err
		}
		level = parsed
	}
	rec = rec.With(models.KeyLevel, models.Scalar(int(level)))
	rec = rec.With(models.KeyLevelName, models.Scalar(level.String()))

	if v := doc.Get(models.KeyDatetime); !v.Exists() {
		rec = rec.With(models.KeyDatetime, models.Time(time.Now()))
	} else if v.Type == gjson.String {
		if t, err := time.Parse(time.RFC3339Nano, v.String()); err == nil {
			rec = rec.With(models.KeyDatetime, models.Time(t))
		}
	}
	return rec, nil
}

func parseJSONLevel(v gjson.Result) (models.Level, error) {
	switch v.Type {
	case gjson.Number:
		return models.ParseLevel(fmt.Sprint(v.Int()))
	case gjson.String:
		return models.ParseLevel(v.String())
	}
	return 0, fmt.Errorf("invalid level %s", v.Raw)
}

func jsonValue(v gjson.Result) models.Value {
	switch v.Type {
	case gjson.String:
		return models.Scalar(v.String())
	case gjson.True, gjson.False:
		return models.Scalar(v.Bool())
	case gjson.Number:
		if i := v.Int(); float64(i) == v.Float() {
			return models.Scalar(i)
		}
		return models.Scalar(v.Float())
	case gjson.Null:
		return models.Other(nil)
	}
	if v.IsObject() {
		var fields models.Fields
		v.ForEach(func(key, value gjson.Result) bool {
			fields = append(fields, models.Field{Key: key.String(), Value: jsonValue(value)})
			return true
		})
		if fields == nil {
			fields = models.Fields{}
		}
		return models.Nested(fields...)
	}
	return models.Other(v.Value())
}
