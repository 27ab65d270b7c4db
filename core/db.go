package core

import (
	"context"
	"database/sql"
	"strconv"
)

type (
	// DBExecutor is the query surface repositories run against. It is satisfied
	// by both the connection pool and an open transaction so the same
	// repository methods can take part in a cascade transaction.
	DBExecutor interface {
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	DB interface {
		DBExecutor

		BeginTx(ctx context.Context, opts *sql.TxOptions) (DBTransactor, error)
	}

	DBTransactor interface {
		DBExecutor

		Commit() error
		Rollback() error
	}
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// DBPagination limits a listing query. A zero Limit means "no limit".
type DBPagination struct {
	Limit  int
	Offset int
}

func (p DBPagination) IsZero() bool { return p.Limit == 0 && p.Offset == 0 }

func (p DBPagination) String() string {
	if p.Limit <= 0 {
		return ""
	}
	return "LIMIT " + strconv.Itoa(p.Limit) + " OFFSET " + strconv.Itoa(p.Offset)
}
