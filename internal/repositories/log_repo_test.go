package repositories

import (
	"context"
	"errors"
	"testing"

	"go-logsink/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlite3"), mock
}

func sampleRow() *models.Row {
	row := models.NewRow()
	row.Set("message", "hi")
	row.Set("level", 200)
	row.Set("userId", 5)
	return row
}

func TestBuildInsertSQL(t *testing.T) {
	assert.Equal(t,
		"INSERT INTO tbl_log (message,level,userId) values(:message,:level,:userId)",
		BuildInsertSQL("tbl_log", sampleRow()),
	)

	row := models.NewRow()
	row.Set("b", 1)
	row.Set("a", 2)
	assert.Equal(t, "INSERT INTO t (b,a) values(:b,:a)", BuildInsertSQL("t", row), "columns keep row order")
}

func TestInsertRowBindsByName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLogRepository(db, nil)

	mock.ExpectPrepare("INSERT INTO tbl_log (message,level,userId) values(?,?,?)").
		ExpectExec().
		WithArgs("hi", 200, 5).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.InsertRow(context.Background(), "tbl_log", sampleRow()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRowSkipsEmptyRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLogRepository(db, nil)

	assert.NoError(t, repo.InsertRow(context.Background(), "tbl_log", models.NewRow()))
	assert.NoError(t, repo.InsertRow(context.Background(), "tbl_log", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRowReturnsPrepareError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLogRepository(db, nil)
	prepErr := errors.New("no such table: tbl_log")

	mock.ExpectPrepare("INSERT INTO tbl_log (message,level,userId) values(?,?,?)").WillReturnError(prepErr)

	err := repo.InsertRow(context.Background(), "tbl_log", sampleRow())
	assert.ErrorIs(t, err, prepErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRowReturnsExecError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLogRepository(db, nil)
	execErr := errors.New("NOT NULL constraint failed")

	mock.ExpectPrepare("INSERT INTO tbl_log (message,level,userId) values(?,?,?)").
		ExpectExec().
		WithArgs("hi", 200, 5).
		WillReturnError(execErr)

	err := repo.InsertRow(context.Background(), "tbl_log", sampleRow())
	assert.ErrorIs(t, err, execErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRowSQLite(t *testing.T) {
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE tbl_log (message TEXT NOT NULL, level INTEGER, userId INTEGER)`)
	require.NoError(t, err)

	repo := NewLogRepository(db, nil)
	require.NoError(t, repo.InsertRow(context.Background(), "tbl_log", sampleRow()))

	var got struct {
		Message string `db:"message"`
		Level   int    `db:"level"`
		UserID  int    `db:"userId"`
	}
	require.NoError(t, db.Get(&got, `SELECT message, level, userId FROM tbl_log`))
	assert.Equal(t, "hi", got.Message)
	assert.Equal(t, 200, got.Level)
	assert.Equal(t, 5, got.UserID)

	row := models.NewRow()
	row.Set("level", 100)
	err = repo.InsertRow(context.Background(), "tbl_log", row)
	assert.Error(t, err, "constraint errors surface to the caller")

	row = models.NewRow()
	row.Set("missing_column", 1)
	err = repo.InsertRow(context.Background(), "tbl_log", row)
	assert.Error(t, err)
}

func TestTxInsertRowCommits(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTxLogRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO tbl_log (message,level,userId) values(?,?,?)").
		ExpectExec().
		WithArgs("hi", 200, 5).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.InsertRow(context.Background(), "tbl_log", sampleRow()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxInsertRowRollsBackOnExecError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTxLogRepository(db, nil)
	execErr := errors.New("code: 60, table default.tbl_log does not exist")

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO tbl_log (message,level,userId) values(?,?,?)").
		ExpectExec().
		WithArgs("hi", 200, 5).
		WillReturnError(execErr)
	mock.ExpectRollback()

	err := repo.InsertRow(context.Background(), "tbl_log", sampleRow())
	assert.ErrorIs(t, err, execErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxInsertRowReturnsCommitError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTxLogRepository(db, nil)
	commitErr := errors.New("send batch: connection reset")

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO tbl_log (message,level,userId) values(?,?,?)").
		ExpectExec().
		WithArgs("hi", 200, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(commitErr)

	err := repo.InsertRow(context.Background(), "tbl_log", sampleRow())
	assert.ErrorIs(t, err, commitErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxInsertRowBeginError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTxLogRepository(db, nil)
	beginErr := errors.New("connection refused")

	mock.ExpectBegin().WillReturnError(beginErr)

	err := repo.InsertRow(context.Background(), "tbl_log", sampleRow())
	assert.ErrorIs(t, err, beginErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxInsertRowSkipsEmptyRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTxLogRepository(db, nil)

	assert.NoError(t, repo.InsertRow(context.Background(), "tbl_log", models.NewRow()))
	assert.NoError(t, repo.InsertRow(context.Background(), "tbl_log", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxInsertRowSQLite(t *testing.T) {
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE tbl_log (message TEXT NOT NULL, level INTEGER, userId INTEGER)`)
	require.NoError(t, err)

	repo := NewTxLogRepository(db, nil)
	require.NoError(t, repo.InsertRow(context.Background(), "tbl_log", sampleRow()))

	row := models.NewRow()
	row.Set("level", 100)
	assert.Error(t, repo.InsertRow(context.Background(), "tbl_log", row))

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM tbl_log`))
	assert.Equal(t, 1, count, "committed row stays, failed row is rolled back")
}
