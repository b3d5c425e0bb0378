package logging

import (
	"fmt"
	"os"
	"strings"

	"go-logsink/internal/models"

	"github.com/google/uuid"
)

// Processor enriches a record before a handler flattens it. Processors get
// their own copy of the record and return the changed one.
type Processor func(rec models.Record) models.Record

// UIDProcessor tags every record with the same extra.uid, which ties
// together the rows written by one handler instance.
func UIDProcessor() Processor {
	uid := uuid.NewString()
	return func(rec models.Record) models.Record {
		return WithExtra(rec, "uid", models.Scalar(uid))
	}
}

// HostnameProcessor adds extra.hostname.
func HostnameProcessor() Processor {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return func(rec models.Record) models.Record {
		return WithExtra(rec, "hostname", models.Scalar(host))
	}
}

// PsrMessageProcessor replaces {key} placeholders in the message with the
// matching context value. Non-scalar context values are left alone, except
// time values which are rendered with dateFormat.
func PsrMessageProcessor(dateFormat string) Processor {
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}
	return func(rec models.Record) models.Record {
		msg := rec.Message()
		if !strings.Contains(msg, "{") {
			return rec
		}
		ctx, ok := rec.Fields.Get(models.KeyContext)
		if !ok || !ctx.IsNested() {
			return rec
		}
		pairs := make([]string, 0, 2*len(ctx.Fields()))
		for _, f := range ctx.Fields() {
			var s string
			switch f.Value.Kind() {
			case models.KindScalar:
				s = fmt.Sprint(f.Value.Interface())
			case models.KindTime:
				s = FormatDate(f.Value.Time(), dateFormat)
			default:
				continue
			}
			pairs = append(pairs, "{"+f.Key+"}", s)
		}
		if len(pairs) == 0 {
			return rec
		}
		return rec.With(models.KeyMessage, models.Scalar(strings.NewReplacer(pairs...).Replace(msg)))
	}
}

// WithExtra returns a copy of rec with extra.key set to v.
func WithExtra(rec models.Record, key string, v models.Value) models.Record {
	var extra models.Fields
	if cur, ok := rec.Fields.Get(models.KeyExtra); ok && cur.IsNested() {
		extra = cur.Fields()
	}
	return rec.With(models.KeyExtra, models.Nested(extra.With(key, v)...))
}
