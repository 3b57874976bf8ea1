// Package testutil provides a stub database/sql driver for postgres kv tests.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// StubConn records statements and keeps rows in memory. It understands the
// narrow SQL dialect the kv store emits: single-table INSERT with optional
// ON CONFLICT replace, DELETE and SELECT with one `col = $1` or
// `col LIKE $1` predicate, and ORDER BY on one column.
type StubConn struct {
	mu         sync.Mutex
	Execs      []string
	Tables     map[string][]map[string]any
	FailExec   bool
	FailPing   bool
	FailBegin  bool
	FailCommit bool
	RowsErr    error
	FailTables map[string]bool
}

// NewStubDB registers a sql.DB backed by an in-memory stub connection.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{Tables: make(map[string][]map[string]any)}
	name := fmt.Sprintf("stubkv%d", time.Now().UnixNano())
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

// ExecCount returns how many statements matched substr, case-insensitively.
func (c *StubConn) ExecCount(substr string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, q := range c.Execs {
		if strings.Contains(strings.ToUpper(q), strings.ToUpper(substr)) {
			n++
		}
	}
	return n
}

type stubDriver struct {
	conn *StubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	return d.conn, nil
}

// Prepare implements driver.Conn.
func (c *StubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *StubConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

// Ping implements driver.Pinger.
func (c *StubConn) Ping(_ context.Context) error {
	if c.FailPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

// BeginTx implements driver.ConnBeginTx.
func (c *StubConn) BeginTx(_ context.Context, _ driver.TxOptions) (driver.Tx, error) {
	if c.FailBegin {
		return nil, fmt.Errorf("begin fail")
	}
	return &stubTx{conn: c}, nil
}

// ExecContext implements driver.ExecerContext.
func (c *StubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, fmt.Errorf("exec fail")
	}
	upper := strings.ToUpper(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(upper, "INSERT INTO"):
		table, cols, err := parseInsert(query)
		if err != nil {
			return nil, err
		}
		if c.FailTables[table] {
			return nil, fmt.Errorf("exec fail for %s", table)
		}
		if len(cols) != len(args) {
			return nil, fmt.Errorf("column/arg mismatch for %s", table)
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = args[i].Value
		}
		if strings.Contains(upper, "ON CONFLICT") {
			c.Tables[table], _ = without(c.Tables[table], cols[0], "=", row[cols[0]])
		}
		c.Tables[table] = append(c.Tables[table], row)
		return driver.RowsAffected(1), nil
	case strings.HasPrefix(upper, "DELETE FROM"):
		table, pred, err := parseDelete(query)
		if err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return nil, fmt.Errorf("missing args for delete %s", table)
		}
		var removed int
		c.Tables[table], removed = without(c.Tables[table], pred.col, pred.op, args[0].Value)
		return driver.RowsAffected(removed), nil
	}
	return driver.RowsAffected(0), nil
}

// QueryContext implements driver.QueryerContext.
func (c *StubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sel, err := parseSelect(query)
	if err != nil {
		return nil, err
	}
	if c.FailTables[sel.table] {
		return nil, fmt.Errorf("query fail for %s", sel.table)
	}
	var matched []map[string]any
	for _, row := range c.Tables[sel.table] {
		if sel.where.col != "" {
			if len(args) == 0 {
				return nil, fmt.Errorf("missing args for select %s", sel.table)
			}
			if !sel.where.match(row, args[0].Value) {
				continue
			}
		}
		matched = append(matched, row)
	}
	if sel.orderBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			return fmt.Sprint(matched[i][sel.orderBy]) < fmt.Sprint(matched[j][sel.orderBy])
		})
	}
	values := make([][]driver.Value, 0, len(matched))
	for _, row := range matched {
		vals := make([]driver.Value, len(sel.cols))
		for i, col := range sel.cols {
			vals[i] = row[col]
		}
		values = append(values, vals)
	}
	return &stubRows{cols: sel.cols, rows: values, err: c.RowsErr}, nil
}

type stubTx struct {
	conn *StubConn
}

func (t *stubTx) Commit() error {
	if t.conn.FailCommit {
		return fmt.Errorf("commit fail")
	}
	return nil
}
func (t *stubTx) Rollback() error { return nil }

type stubRows struct {
	cols []string
	rows [][]driver.Value
	idx  int
	err  error
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		if r.err != nil {
			return r.err
		}
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}

type predicate struct {
	col string
	op  string // "=" or "LIKE"
}

func (p predicate) match(row map[string]any, arg any) bool {
	if p.op == "LIKE" {
		pattern := fmt.Sprint(arg)
		value := fmt.Sprint(row[p.col])
		return likeMatch(value, pattern)
	}
	return fmt.Sprint(row[p.col]) == fmt.Sprint(arg)
}

// likeMatch supports the trailing-% prefix patterns the kv store issues,
// honouring backslash escapes.
func likeMatch(value, pattern string) bool {
	prefix, wildcard := unescapeLike(pattern)
	if wildcard {
		return strings.HasPrefix(value, prefix)
	}
	return value == prefix
}

func unescapeLike(pattern string) (string, bool) {
	var b strings.Builder
	escaped := false
	for i, r := range pattern {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%' && i == len(pattern)-1:
			return b.String(), true
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), false
}

func without(rows []map[string]any, col, op string, target any) ([]map[string]any, int) {
	p := predicate{col: col, op: op}
	filtered := rows[:0:0]
	removed := 0
	for _, row := range rows {
		if p.match(row, target) {
			removed++
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered, removed
}

func parseInsert(query string) (string, []string, error) {
	up := strings.ToUpper(query)
	intoIdx := strings.Index(up, "INTO ")
	if intoIdx == -1 {
		return "", nil, fmt.Errorf("cannot parse insert: %s", query)
	}
	rest := strings.TrimSpace(query[intoIdx+len("INTO "):])
	open := strings.Index(rest, "(")
	closeIdx := strings.Index(rest, ")")
	if open == -1 || closeIdx == -1 || closeIdx <= open {
		return "", nil, fmt.Errorf("cannot parse insert: %s", query)
	}
	table := strings.ToLower(strings.TrimSpace(rest[:open]))
	return table, splitColumns(rest[open+1 : closeIdx]), nil
}

func parseDelete(query string) (string, predicate, error) {
	lower := strings.ToLower(strings.TrimSpace(query))
	if !strings.HasPrefix(lower, "delete from ") {
		return "", predicate{}, fmt.Errorf("cannot parse delete: %s", query)
	}
	rest := strings.TrimSpace(strings.TrimSpace(query)[len("delete from "):])
	whereIdx := strings.Index(strings.ToLower(rest), " where ")
	if whereIdx == -1 {
		return "", predicate{}, fmt.Errorf("cannot parse delete: %s", query)
	}
	pred, err := parsePredicate(rest[whereIdx+len(" where "):])
	if err != nil {
		return "", predicate{}, err
	}
	return strings.ToLower(strings.TrimSpace(rest[:whereIdx])), pred, nil
}

type selectStmt struct {
	table   string
	cols    []string
	where   predicate
	orderBy string
}

func parseSelect(query string) (selectStmt, error) {
	query = strings.TrimSpace(query)
	lower := strings.ToLower(query)
	if !strings.HasPrefix(lower, "select ") {
		return selectStmt{}, fmt.Errorf("cannot parse select: %s", query)
	}
	fromIdx := strings.Index(lower, " from ")
	if fromIdx == -1 {
		return selectStmt{}, fmt.Errorf("cannot parse select: %s", query)
	}
	stmt := selectStmt{cols: splitColumns(query[len("select "):fromIdx])}
	rest := strings.TrimSpace(query[fromIdx+len(" from "):])
	if rest == "" {
		return selectStmt{}, fmt.Errorf("cannot parse select: %s", query)
	}
	stmt.table = strings.ToLower(strings.Fields(rest)[0])
	restLower := strings.ToLower(rest)
	if idx := strings.Index(restLower, " order by "); idx != -1 {
		stmt.orderBy = strings.ToLower(strings.Fields(rest[idx+len(" order by "):])[0])
		rest = rest[:idx]
		restLower = restLower[:idx]
	}
	if idx := strings.Index(restLower, " where "); idx != -1 {
		pred, err := parsePredicate(rest[idx+len(" where "):])
		if err != nil {
			return selectStmt{}, err
		}
		stmt.where = pred
	}
	return stmt, nil
}

func parsePredicate(where string) (predicate, error) {
	fields := strings.Fields(strings.ReplaceAll(where, "=", " = "))
	if len(fields) < 3 {
		return predicate{}, fmt.Errorf("cannot parse predicate: %s", where)
	}
	op := strings.ToUpper(fields[1])
	if op != "=" && op != "LIKE" {
		return predicate{}, fmt.Errorf("unsupported operator %q", fields[1])
	}
	return predicate{col: strings.ToLower(fields[0]), op: op}, nil
}

func splitColumns(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.ToLower(strings.TrimSpace(part)))
	}
	return out
}
