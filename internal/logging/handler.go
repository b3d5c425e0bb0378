package logging

import (
	"context"

	"go-logsink/internal/models"
	"go-logsink/internal/repositories"

	"go.uber.org/zap"
)

// Handler receives records from a Stack.
type Handler interface {
	// IsHandling reports whether records of level reach Handle.
	IsHandling(level models.Level) bool
	// Handle processes one record synchronously.
	Handle(ctx context.Context, rec models.Record) error
	// Bubble reports whether the next handler in a Stack also sees records
	// this handler processed.
	Bubble() bool
}

// DBHandlerOptions configures a DBHandler. It is copied at construction.
type DBHandlerOptions struct {
	TableName  string
	DateFormat string
	ColumnMap  models.ColumnMap // nil: one column per field name
	Level      models.Level
	Bubble     bool
	Processors []Processor
}

// DBHandler flattens records and inserts them into one table.
type DBHandler struct {
	repo       repositories.LogRepository
	table      string
	flattener  *Flattener
	level      models.Level
	bubble     bool
	processors []Processor
	logger     *zap.Logger
}

// NewDBHandler creates a handler writing through repo. logger receives the
// handler's own diagnostics and must not route back into this handler.
func NewDBHandler(repo repositories.LogRepository, opts DBHandlerOptions, logger *zap.Logger) *DBHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	level := opts.Level
	if level == 0 {
		level = models.LevelDebug
	}
	return &DBHandler{
		repo:       repo,
		table:      opts.TableName,
		flattener:  NewFlattener(opts.DateFormat, copyColumnMap(opts.ColumnMap)),
		level:      level,
		bubble:     opts.Bubble,
		processors: append([]Processor(nil), opts.Processors...),
		logger:     logger,
	}
}

func (h *DBHandler) IsHandling(level models.Level) bool {
	return level >= h.level
}

func (h *DBHandler) Bubble() bool {
	return h.bubble
}

// Handle runs the processors, flattens the record and inserts the row.
// Insert errors are returned unchanged; rows without columns are skipped.
func (h *DBHandler) Handle(ctx context.Context, rec models.Record) error {
	if !h.IsHandling(rec.Level()) {
		return nil
	}
	for _, p := range h.processors {
		rec = p(rec)
	}
	row := h.flattener.Flatten(rec)
	if row.Len() == 0 {
		h.logger.Debug("Record flattened to an empty row, nothing to insert", zap.String("table", h.table))
		return nil
	}
	return h.repo.InsertRow(ctx, h.table, row)
}

func copyColumnMap(m models.ColumnMap) models.ColumnMap {
	if m == nil {
		return nil
	}
	out := make(models.ColumnMap, len(m))
	for field, target := range m {
		t := models.ColumnTarget{Column: target.Column}
		if target.Nested != nil {
			t.Nested = make(map[string]string, len(target.Nested))
			for k, v := range target.Nested {
				t.Nested[k] = v
			}
		}
		out[field] = t
	}
	return out
}

// ZapHandler forwards records to a zap logger, typically the console/file
// logger at the end of a Stack.
type ZapHandler struct {
	logger *zap.Logger
	level  models.Level
	bubble bool
}

func NewZapHandler(logger *zap.Logger, level models.Level, bubble bool) *ZapHandler {
	if level == 0 {
		level = models.LevelDebug
	}
	return &ZapHandler{logger: logger, level: level, bubble: bubble}
}

func (h *ZapHandler) IsHandling(level models.Level) bool { return level >= h.level }

func (h *ZapHandler) Bubble() bool { return h.bubble }

func (h *ZapHandler) Handle(_ context.Context, rec models.Record) error {
	lvl := rec.Level()
	if !h.IsHandling(lvl) {
		return nil
	}
	fields := make([]zap.Field, 0, len(rec.Fields))
	for _, f := range rec.Fields {
		switch f.Key {
		case models.KeyMessage, models.KeyLevel, models.KeyLevelName:
			continue
		}
		fields = append(fields, zap.Any(f.Key, f.Value.Interface()))
	}
	if ce := h.logger.Check(ToZapLevel(lvl), rec.Message()); ce != nil {
		ce.Write(fields...)
	}
	return nil
}
