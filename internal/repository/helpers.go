package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studyhub-api/internal/models"
)

// conditions accumulates WHERE fragments with $n placeholders.
type conditions struct {
	parts []string
	args  []interface{}
}

func (c *conditions) add(format string, value interface{}) {
	c.args = append(c.args, value)
	c.parts = append(c.parts, fmt.Sprintf(format, len(c.args)))
}

func (c *conditions) where() string {
	if len(c.parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.parts, " AND ")
}

// pageClause renders ORDER BY / LIMIT / OFFSET. sortBy must be a key of allowed;
// anything else falls back to the default column.
func pageClause(p models.Paging, allowed map[string]string, fallback string) string {
	column, ok := allowed[p.SortBy]
	if !ok {
		column = fallback
	}
	order := strings.ToUpper(p.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	_, size := p.Normalize()
	return fmt.Sprintf(" ORDER BY %s %s LIMIT %d OFFSET %d", column, order, size, p.Offset())
}

// insertReturning binds a named INSERT and scans its RETURNING columns.
func insertReturning(ctx context.Context, db *sqlx.DB, query string, arg interface{}, dest ...interface{}) error {
	bound, args, err := sqlx.BindNamed(sqlx.DOLLAR, query, arg)
	if err != nil {
		return err
	}
	return db.QueryRowxContext(ctx, bound, args...).Scan(dest...)
}

// execAffecting runs a statement and maps zero affected rows to sql.ErrNoRows.
func execAffecting(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
