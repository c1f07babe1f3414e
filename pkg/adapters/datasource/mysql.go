package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/neurovia/neurovia-engine/pkg/logging"
)

// MySQLExecutor runs read-only queries against the MySQL sales warehouse.
type MySQLExecutor struct {
	db       *sql.DB
	rowLimit int
	logger   *zap.Logger
}

// Config holds warehouse connection configuration.
type Config struct {
	DSN          string // go-sql-driver DSN, e.g. "user:pass@tcp(host:3306)/sales"
	MaxOpenConns int
	RowLimit     int // hard cap on rows returned per statement
}

// NewMySQLExecutor opens a connection pool to the warehouse.
func NewMySQLExecutor(cfg *Config, logger *zap.Logger) (*MySQLExecutor, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("warehouse DSN is required")
	}

	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open warehouse connection: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 5
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetConnMaxLifetime(time.Hour)

	rowLimit := cfg.RowLimit
	if rowLimit == 0 {
		rowLimit = 1000
	}

	logger.Info("warehouse pool opened",
		zap.String("dsn", logging.SanitizeDSN(cfg.DSN)),
		zap.Int("max_open_conns", maxOpen),
		zap.Int("row_limit", rowLimit))

	return &MySQLExecutor{
		db:       db,
		rowLimit: rowLimit,
		logger:   logger.Named("warehouse"),
	}, nil
}

// newMySQLExecutorWithDB wires an existing handle, for tests.
func newMySQLExecutorWithDB(db *sql.DB, rowLimit int, logger *zap.Logger) *MySQLExecutor {
	if rowLimit == 0 {
		rowLimit = 1000
	}
	return &MySQLExecutor{db: db, rowLimit: rowLimit, logger: logger.Named("warehouse")}
}

// Execute runs one statement and returns its rows. Every statement is
// wrapped with a hard row cap so a missing LIMIT cannot pull the whole
// fact table into memory.
func (e *MySQLExecutor) Execute(ctx context.Context, query string) (*QueryResult, error) {
	bounded := fmt.Sprintf("SELECT * FROM (%s) AS _bounded LIMIT %d", query, e.rowLimit)

	start := time.Now()
	rows, err := e.db.QueryContext(ctx, bounded)
	if err != nil {
		e.logger.Warn("query failed",
			zap.String("sql", logging.SanitizeSQL(query)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	result := &QueryResult{Columns: columns, Rows: make([]map[string]any, 0)}
	values := make([]any, len(columns))
	scanArgs := make([]any, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col] = values[i]
		}
		result.Rows = append(result.Rows, rowMap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	e.logger.Debug("query executed",
		zap.Int("rows", len(result.Rows)),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// TestConnection verifies the warehouse is reachable.
func (e *MySQLExecutor) TestConnection(ctx context.Context) error {
	if err := e.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping warehouse: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (e *MySQLExecutor) Close() error {
	return e.db.Close()
}

var _ SQLExecutor = (*MySQLExecutor)(nil)
