package logging

import (
	"context"
	"sort"
	"time"

	"go-logsink/internal/models"

	"go.uber.org/zap/zapcore"
)

// RecordHandler is what a record core dispatches to: a Stack or a single Handler.
type RecordHandler interface {
	IsHandling(level models.Level) bool
	Handle(ctx context.Context, rec models.Record) error
}

// recordCore implements zapcore.Core and turns each zap entry into a
// record for a RecordHandler.
type recordCore struct {
	handler      RecordHandler
	channel      string
	writeTimeout time.Duration
	fields       []zapcore.Field // Fields added via logger.With()
}

// NewRecordCore creates a core for handler. channel is used for entries
// from unnamed loggers; writeTimeout bounds each Handle call (0 = none).
func NewRecordCore(channel string, handler RecordHandler, writeTimeout time.Duration) zapcore.Core {
	return &recordCore{
		handler:      handler,
		channel:      channel,
		writeTimeout: writeTimeout,
		fields:       make([]zapcore.Field, 0),
	}
}

func (c *recordCore) Enabled(level zapcore.Level) bool {
	return c.handler.IsHandling(FromZapLevel(level))
}

func (c *recordCore) With(fields []zapcore.Field) zapcore.Core {
	clone := c.clone()
	clone.fields = append(clone.fields, fields...)
	return clone
}

func (c *recordCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write returns the handler's error; zap reports it on the logger's ErrorOutput.
func (c *recordCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	rec := c.entryRecord(ent, fields)

	ctx := context.Background()
	if c.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.writeTimeout)
		defer cancel()
	}
	return c.handler.Handle(ctx, rec)
}

func (c *recordCore) Sync() error {
	return nil
}

func (c *recordCore) entryRecord(ent zapcore.Entry, fields []zapcore.Field) models.Record {
	allFields := append(append([]zapcore.Field(nil), c.fields...), fields...)

	// A single encoder so zap.Namespace nests every later field. Top-level
	// keys keep the order they first appeared in.
	enc := zapcore.NewMapObjectEncoder()
	seen := make(map[string]struct{})
	var order []string
	for _, field := range allFields {
		field.AddTo(enc)
		var added []string
		for k := range enc.Fields {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				added = append(added, k)
			}
		}
		sort.Strings(added)
		order = append(order, added...)
	}
	var ctxFields models.Fields
	for _, k := range order {
		ctxFields = ctxFields.With(k, models.FromInterface(enc.Fields[k]))
	}

	var extra models.Fields
	if ent.Caller.Defined {
		extra = append(extra,
			models.Field{Key: "file", Value: models.Scalar(ent.Caller.TrimmedPath())},
			models.Field{Key: "function", Value: models.Scalar(ent.Caller.Function)},
		)
	}
	if ent.Stack != "" {
		extra = append(extra, models.Field{Key: "stacktrace", Value: models.Scalar(ent.Stack)})
	}

	channel := ent.LoggerName
	if channel == "" {
		channel = c.channel
	}
	return models.NewRecord(channel, FromZapLevel(ent.Level), ent.Message, ent.Time, ctxFields, extra)
}

func (c *recordCore) clone() *recordCore {
	return &recordCore{
		handler:      c.handler,
		channel:      c.channel,
		writeTimeout: c.writeTimeout,
		fields:       append([]zapcore.Field(nil), c.fields...),
	}
}

// FromZapLevel maps zap levels onto record levels.
func FromZapLevel(l zapcore.Level) models.Level {
	switch l {
	case zapcore.DebugLevel:
		return models.LevelDebug
	case zapcore.InfoLevel:
		return models.LevelInfo
	case zapcore.WarnLevel:
		return models.LevelWarning
	case zapcore.ErrorLevel:
		return models.LevelError
	case zapcore.DPanicLevel:
		return models.LevelCritical
	case zapcore.PanicLevel:
		return models.LevelAlert
	case zapcore.FatalLevel:
		return models.LevelEmergency
	}
	if l < zapcore.DebugLevel {
		return models.LevelDebug
	}
	return models.LevelEmergency
}

// ToZapLevel maps record levels onto zap levels. Levels above ERROR map to
// ERROR so forwarding a record never panics or exits.
func ToZapLevel(l models.Level) zapcore.Level {
	switch {
	case l >= models.LevelError:
		return zapcore.ErrorLevel
	case l >= models.LevelWarning:
		return zapcore.WarnLevel
	case l >= models.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
