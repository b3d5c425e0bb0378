package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go-logsink/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// LogRepository writes flattened log rows.
type LogRepository interface {
	// InsertRow issues one INSERT into table with the row's columns. An empty
	// row is a no-op. Driver errors are returned as they come.
	InsertRow(ctx context.Context, table string, row *models.Row) error
}

// NamedPreparer is satisfied by *sqlx.DB and *sqlx.Tx.
type NamedPreparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

// TxBeginner is satisfied by *sqlx.DB.
type TxBeginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type logRepositoryImpl struct {
	db     NamedPreparer
	logger *zap.Logger
}

type txLogRepositoryImpl struct {
	db     TxBeginner
	logger *zap.Logger
}

// NewLogRepository creates a new LogRepository
func NewLogRepository(db NamedPreparer, logger *zap.Logger) LogRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &logRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

// BuildInsertSQL returns the named-parameter INSERT for row. Table and
// column names are interpolated as-is; only values are bound.
func BuildInsertSQL(table string, row *models.Row) string {
	columns := row.Columns()
	placeholders := make([]string, len(columns))
	for i, column := range columns {
		placeholders[i] = ":" + column
	}
	return fmt.Sprintf("INSERT INTO %s (%s) values(%s)",
		table,
		strings.Join(columns, ","),
		strings.Join(placeholders, ","),
	)
}

// NewTxLogRepository creates a LogRepository that runs every insert in its
// own transaction and commits it. Drivers that only send prepared inserts on
// commit (clickhouse) need this.
func NewTxLogRepository(db TxBeginner, logger *zap.Logger) LogRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &txLogRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *logRepositoryImpl) InsertRow(ctx context.Context, table string, row *models.Row) error {
	if row == nil || row.Len() == 0 {
		r.logger.Debug("Skipping insert of empty log row", zap.String("table", table))
		return nil
	}
	return execInsert(ctx, r.db, table, row, r.logger)
}

func (r *txLogRepositoryImpl) InsertRow(ctx context.Context, table string, row *models.Row) error {
	if row == nil || row.Len() == 0 {
		r.logger.Debug("Skipping insert of empty log row", zap.String("table", table))
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Warn("Failed to begin log insert transaction", zap.String("table", table), zap.Error(err))
		return err
	}
	if err := execInsert(ctx, tx, table, row, r.logger); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Warn("Failed to roll back log insert", zap.String("table", table), zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		r.logger.Warn("Failed to commit log row", zap.String("table", table), zap.Error(err))
		return err
	}
	return nil
}

// execInsert prepares the named INSERT on p and executes it once. Errors are
// returned as the driver reports them.
func execInsert(ctx context.Context, p NamedPreparer, table string, row *models.Row, logger *zap.Logger) error {
	stmt, err := p.PrepareNamedContext(ctx, BuildInsertSQL(table, row))
	if err != nil {
		logger.Warn("Failed to prepare log insert", zap.String("table", table), zap.Error(err))
		return err
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, row.Map()); err != nil {
		logger.Warn("Failed to insert log row", zap.String("table", table), zap.Strings("columns", row.Columns()), zap.Error(err))
		return err
	}
	return nil
}
