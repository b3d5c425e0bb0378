package database

// Both PostgreSQL drivers take "$n" placeholders, which sqlx produces for
// the "postgres" and "pgx" driver names.
import (
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/lib/pq"              // registers "postgres"
)
