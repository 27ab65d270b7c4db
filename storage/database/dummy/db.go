// Package dummydb is an in-memory stand-in for the postgres store, used by
// tests. It honors the same Repository contracts (orderings, not-found
// errors, uniqueness) but transactions are no-ops: a rolled back dummy
// transaction does not undo writes.
package dummydb

import (
	"context"
	"database/sql"
	"sync"

	"github.com/pkg/errors"

	"github.com/classhub/backend/core"
	"github.com/classhub/backend/core/announcement"
	"github.com/classhub/backend/core/comment"
	"github.com/classhub/backend/core/group"
	"github.com/classhub/backend/core/user"
)

var errRawSQL = errors.New("dummydb: raw SQL is not supported")

type DB struct {
	mu sync.RWMutex

	users         map[string]*user.User
	groups        map[string]*group.Group
	enrollments   map[string]*group.Enrollment
	announcements map[string]*announcement.Announcement
	comments      map[string]*comment.Comment
}

var _ core.DB = (*DB)(nil)

func Open() (*DB, error) {
	return &DB{
		users:         make(map[string]*user.User),
		groups:        make(map[string]*group.Group),
		enrollments:   make(map[string]*group.Enrollment),
		announcements: make(map[string]*announcement.Announcement),
		comments:      make(map[string]*comment.Comment),
	}, nil
}

func (db *DB) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errRawSQL
}

func (db *DB) GetContext(context.Context, interface{}, string, ...interface{}) error {
	return errRawSQL
}

func (db *DB) SelectContext(context.Context, interface{}, string, ...interface{}) error {
	return errRawSQL
}

func (db *DB) BeginTx(context.Context, *sql.TxOptions) (core.DBTransactor, error) {
	return noopTx{db}, nil
}

type noopTx struct {
	*DB
}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

// paginate clamps p onto a slice of length n.
func paginate(n int, p core.DBPagination) (lo, hi int) {
	lo = p.Offset
	if lo > n {
		lo = n
	}
	hi = n
	if p.Limit > 0 && lo+p.Limit < hi {
		hi = lo + p.Limit
	}
	return lo, hi
}
