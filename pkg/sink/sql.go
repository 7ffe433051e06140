package sink

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
)

const (
	mysqlSchema = `CREATE TABLE IF NOT EXISTS addon_totals (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		recorded_at DATETIME NOT NULL,
		name VARCHAR(255) NOT NULL,
		count BIGINT NOT NULL,
		INDEX idx_addon_totals_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	sqliteSchema = `CREATE TABLE IF NOT EXISTS addon_totals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at TIMESTAMP NOT NULL,
		name TEXT NOT NULL,
		count INTEGER NOT NULL
	)`

	insertTotal = `INSERT INTO addon_totals (recorded_at, name, count) VALUES (?, ?, ?)`
)

// SQLSink inserts one row per total. The connection is opened and closed
// around every write.
type SQLSink struct {
	name   string
	driver string
	dsn    string
	schema string
}

func NewMySQLSink(dsn string) *SQLSink {
	return &SQLSink{name: "mysql", driver: "mysql", dsn: dsn, schema: mysqlSchema}
}

func NewSQLiteSink(path string) *SQLSink {
	return &SQLSink{name: "sqlite", driver: "sqlite3", dsn: path, schema: sqliteSchema}
}

func (s *SQLSink) Name() string {
	return s.name
}

func (s *SQLSink) Write(ctx context.Context, total models.CompletedTotal) error {
	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.driver, err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", s.driver, err)
	}

	if _, err := db.ExecContext(ctx, s.schema); err != nil {
		return fmt.Errorf("ensure table: %w", err)
	}

	if _, err := db.ExecContext(ctx, insertTotal, total.Timestamp.UTC(), total.AddonName, total.Count); err != nil {
		return fmt.Errorf("insert total: %w", err)
	}
	return nil
}
