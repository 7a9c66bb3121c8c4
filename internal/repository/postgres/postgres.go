// Package postgres provides Postgres-backed implementations of the EAV repositories.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes the repositories translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// classify maps driver errors onto repository sentinels and wraps the rest with op.
func classify(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w", op, repository.ErrConflict)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, repository.ErrReferenced)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// where accumulates AND-ed conditions with positional arguments.
// Use "?" in a clause for the argument it consumes.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, arg any) {
	w.clauses = append(w.clauses, strings.Replace(clause, "?", w.next(arg), 1))
}

// next registers arg and returns its placeholder.
func (w *where) next(arg any) string {
	w.args = append(w.args, arg)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// orderLimit renders ORDER BY/LIMIT/OFFSET for normalized params. column maps an allowed
// order key to its qualified column.
func (w *where) orderLimit(p domain.ListParams, allowed []string, def, defDir string, column func(string) string) string {
	p = p.Normalize(allowed, def, defDir)
	return fmt.Sprintf(" ORDER BY %s %s LIMIT %s OFFSET %s", column(p.OrderBy), p.OrderDir, w.next(p.Limit), w.next(p.Offset()))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern returns an ILIKE pattern matching s literally anywhere in a column.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func prefixed(alias string) func(string) string {
	return func(c string) string { return alias + "." + c }
}

// beginTx runs fn in a transaction, committing only when fn succeeds.
func beginTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalJSON(raw []byte) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
