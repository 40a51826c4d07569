package postgresql

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// setBuilder collects "col = $n" pairs for partial UPDATE statements.
type setBuilder struct {
	clauses []string
	args    []interface{}
}

func (b *setBuilder) set(col string, val interface{}) {
	b.args = append(b.args, val)
	b.clauses = append(b.clauses, fmt.Sprintf("%s = $%d", col, len(b.args)))
}

func (b *setBuilder) empty() bool {
	return len(b.clauses) == 0
}

// build returns "UPDATE table SET ... WHERE company_id = $x AND id = $y".
func (b *setBuilder) build(table, companyID, id string) (string, []interface{}) {
	b.set("updated_at", time.Now())
	args := append(b.args, companyID, id)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE company_id = $%d AND id = $%d",
		table, strings.Join(b.clauses, ", "), len(args)-1, len(args))
	return sql, args
}

// nullIfEmpty maps "" to NULL so optional references can be unset.
func nullIfEmpty(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
