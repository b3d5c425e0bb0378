package database

import (
	_ "github.com/ClickHouse/clickhouse-go/v2" // registers "clickhouse"
	"github.com/jmoiron/sqlx"
)

func init() {
	sqlx.BindDriver("clickhouse", sqlx.QUESTION)
}

// InsertNeedsCommit reports whether driver only sends a prepared INSERT when
// its transaction commits. The clickhouse std driver turns Prepare into a
// batch, Exec into an append and sends the batch on Commit.
func InsertNeedsCommit(driver string) bool {
	return driver == "clickhouse"
}
