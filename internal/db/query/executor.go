package query

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rebelice/sqlfold/internal/models"
)

// Executor runs SQL against a connection pool with a per-query timeout
type Executor struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewExecutor creates an executor; a zero timeout disables the deadline
func NewExecutor(pool *pgxpool.Pool, timeout time.Duration) *Executor {
	return &Executor{pool: pool, timeout: timeout}
}

// Run executes a SQL query and returns the results. Errors are carried
// in the result rather than returned, so the caller can render them in
// the results pane alongside timing.
func (e *Executor) Run(ctx context.Context, sql string) models.QueryResult {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()

	rows, err := e.pool.Query(ctx, sql)
	if err != nil {
		return models.QueryResult{Error: err, Duration: time.Since(start)}
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = string(fd.Name)
	}

	var result [][]string
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return models.QueryResult{Error: err, Duration: time.Since(start)}
		}

		row := make([]string, len(values))
		for i, v := range values {
			if v == nil {
				row[i] = "NULL"
			} else {
				row[i] = formatValue(v)
			}
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return models.QueryResult{Error: err, Duration: time.Since(start)}
	}

	return models.QueryResult{
		Columns:      columns,
		Rows:         result,
		RowsAffected: int64(len(result)),
		Duration:     time.Since(start),
	}
}

// formatValue converts a database value to a display string, rendering
// JSONB maps and arrays as JSON
func formatValue(val interface{}) string {
	switch v := val.(type) {
	case map[string]interface{}, []interface{}:
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(jsonBytes)
	case []byte:
		return string(v)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", val)
	}
}
