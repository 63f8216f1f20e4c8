// Package storage implements the read-only data access gateway over the
// Sahana Eden SQLite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	_ "modernc.org/sqlite"

	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/ports"
)

// RejectedQueryMessage is the error marker text for non-SELECT statements.
const RejectedQueryMessage = "Only SELECT queries are allowed"

// Gateway executes read queries against one SQLite file. The connection is
// opened lazily, reused across calls and released by Close.
type Gateway struct {
	path    string
	db      *sql.DB
	mu      sync.Mutex
	log     ports.Logger
	metrics ports.Metrics
}

// NewGateway builds a gateway for the database at path. Nothing is opened yet.
func NewGateway(path string, log ports.Logger, metrics ports.Metrics) *Gateway {
	return &Gateway{path: path, log: log, metrics: metrics}
}

// NewGatewayWithDB wraps an already open handle.
func NewGatewayWithDB(db *sql.DB, log ports.Logger, metrics ports.Metrics) *Gateway {
	return &Gateway{db: db, log: log, metrics: metrics}
}

// Path returns the database file path.
func (g *Gateway) Path() string {
	return g.path
}

// Execute runs a SELECT statement and returns its rows.
func (g *Gateway) Execute(ctx context.Context, query string, args ...interface{}) ([]domain.Row, error) {
	if reason := checkReadOnly(query); reason != "" {
		if g.metrics != nil {
			g.metrics.IncRejectedQuery()
		}
		g.warn("rejected statement", map[string]interface{}{"reason": reason})
		return nil, domain.NewError(domain.KindRejectedWriteQuery, "gateway.execute", reason, nil)
	}

	db, err := g.conn()
	if err != nil {
		return nil, domain.NewError(domain.KindQueryFailed, "gateway.open", "", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		g.warn("query failed", map[string]interface{}{"error": err.Error()})
		return nil, domain.NewError(domain.KindQueryFailed, "gateway.execute", "", err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, domain.NewError(domain.KindQueryFailed, "gateway.scan", "", err)
	}
	if g.log != nil {
		g.log.Debug("query executed", map[string]interface{}{"rows": len(out)})
	}
	return out, nil
}

// CustomQuery is the free-form query surface. It never returns an error:
// rejected or failed statements yield a single error marker row.
func (g *Gateway) CustomQuery(ctx context.Context, query string) []domain.Row {
	rows, err := g.Execute(ctx, query)
	if err != nil {
		if domain.KindOf(err) == domain.KindRejectedWriteQuery {
			return []domain.Row{domain.ErrorRow(RejectedQueryMessage)}
		}
		detail := err.Error()
		var typed *domain.Error
		if errors.As(err, &typed) && typed.Detail != "" {
			detail = typed.Detail
		}
		return []domain.Row{domain.ErrorRow(detail)}
	}
	if rows == nil {
		rows = []domain.Row{}
	}
	return rows
}

// Close releases the connection. A later Execute reopens it.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.db == nil {
		return nil
	}
	err := g.db.Close()
	g.db = nil
	return err
}

func (g *Gateway) conn() (*sql.DB, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.db != nil {
		return g.db, nil
	}
	if g.path == "" {
		return nil, fmt.Errorf("no database path configured")
	}
	db, err := sql.Open("sqlite", readOnlyDSN(g.path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	g.db = db
	return db, nil
}

func (g *Gateway) warn(msg string, fields map[string]interface{}) {
	if g.log != nil {
		g.log.Warn(msg, fields)
	}
}

func readOnlyDSN(path string) string {
	return "file:" + filepath.ToSlash(path) + "?mode=ro"
}

// checkReadOnly returns a rejection reason, or "" when the statement may run.
func checkReadOnly(query string) string {
	trimmed := strings.TrimSpace(query)
	if firstToken(trimmed) != "SELECT" {
		return "only SELECT statements are allowed"
	}
	body := strings.TrimRight(stripLiterals(trimmed), "; \t\r\n")
	if strings.Contains(body, ";") {
		return "multiple statements are not allowed"
	}
	return ""
}

// stripLiterals blanks out quoted strings, quoted identifiers and comments so
// that a ';' inside them is not taken for a statement separator.
func stripLiterals(query string) string {
	var b strings.Builder
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'' || c == '"' || c == '`' || c == '[':
			closer := c
			if c == '[' {
				closer = ']'
			}
			i = skipQuoted(query, i+1, closer)
			b.WriteByte(' ')
		case c == '-' && i+1 < len(query) && query[i+1] == '-':
			end := strings.IndexByte(query[i:], '\n')
			if end == -1 {
				i = len(query)
			} else {
				i += end - 1
			}
			b.WriteByte(' ')
		case c == '/' && i+1 < len(query) && query[i+1] == '*':
			end := strings.Index(query[i+2:], "*/")
			if end == -1 {
				i = len(query)
			} else {
				i += end + 3
			}
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// skipQuoted returns the index of the closing quote starting the scan at i.
// A doubled quote is an escaped quote. Unterminated literals run to the end.
func skipQuoted(query string, i int, closer byte) int {
	for ; i < len(query); i++ {
		if query[i] != closer {
			continue
		}
		if closer != ']' && i+1 < len(query) && query[i+1] == closer {
			i++
			continue
		}
		return i
	}
	return len(query)
}

func firstToken(query string) string {
	end := strings.IndexFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if end == -1 {
		end = len(query)
	}
	return strings.ToUpper(query[:end])
}

func scanRows(rows *sql.Rows) ([]domain.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []domain.Row
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(domain.Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

var _ ports.Gateway = (*Gateway)(nil)
