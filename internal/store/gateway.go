// Package store executes generated migration statements against MySQL.
//
// All statements run on a single pinned connection: generated sequences
// rely on LAST_INSERT_ID(), which is connection-scoped, carrying from an
// insert to the enrichment statement that follows it, including across a
// batch boundary.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Gateway is a MySQL-backed statement executor.
type Gateway struct {
	db       *sql.DB
	conn     *sql.Conn
	database string
	log      *slog.Logger
}

// Open connects to MySQL and pins a single connection for the migration.
// The DSN must not name a database; the target database is created and
// selected by EnsureSchema.
func Open(ctx context.Context, dsn, database string, log *slog.Logger) (*Gateway, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	// Schema provisioning runs as one multi-statement script.
	cfg.MultiStatements = true

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if log == nil {
		log = slog.Default()
	}
	return &Gateway{db: db, conn: conn, database: database, log: log}, nil
}

// Close releases the pinned connection and the pool.
func (g *Gateway) Close() error {
	cerr := g.conn.Close()
	if err := g.db.Close(); err != nil {
		return err
	}
	return cerr
}

// EnsureSchema creates the target database and tables if they do not
// exist, and selects the database on the pinned connection.
func (g *Gateway) EnsureSchema(ctx context.Context) error {
	script := strings.ReplaceAll(schemaDDL, "{{database}}", g.database)
	if _, err := g.conn.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	g.log.Info("schema ensured", "database", g.database)
	return nil
}

// ExecBatch executes a batch of statements in order on the pinned
// connection. The returned slice is aligned with stmts; a nil element
// means success. A rejected statement is reported and the remaining
// statements still run; only a connection-level failure (or context
// cancellation) stops the batch early.
func (g *Gateway) ExecBatch(ctx context.Context, stmts []string) []error {
	errs := make([]error, len(stmts))
	for i, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			for ; i < len(stmts); i++ {
				errs[i] = err
			}
			return errs
		}

		if _, err := g.conn.ExecContext(ctx, stmt); err != nil {
			errs[i] = err
			if isConnErr(err) {
				for j := i + 1; j < len(stmts); j++ {
					errs[j] = fmt.Errorf("not executed: %w", err)
				}
				return errs
			}
		}
	}
	return errs
}

// isConnErr reports whether err indicates the connection itself failed,
// as opposed to the server rejecting one statement.
func isConnErr(err error) bool {
	if _, ok := err.(*mysql.MySQLError); ok {
		return false
	}
	return true
}
