// Package sqlxrepos implements the domain Repository interfaces against
// postgres. Every method takes an optional executor override so the cascade
// engine can run the same statements inside its transaction.
package sqlxrepos

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/classhub/backend/core"
)

const pqUniqueViolation = "23505"

// The listing orderings are fixed by the operations themselves.
var (
	newestFirst  = core.DBOrdering{Field: "created_at"}
	firstNameAsc = core.DBOrdering{Field: "first_name", Ascending: true}
)

// orderBy renders ord as an ORDER BY fragment, qualifying the field with a
// table alias when the query joins.
func orderBy(ord core.DBOrdering, alias ...string) string {
	if len(alias) > 0 {
		ord.Field = alias[0] + "." + ord.Field
	}
	return "ORDER BY " + ord.String() + " "
}

func getExec(dflt core.DBExecutor, override []core.DBExecutor) core.DBExecutor {
	if len(override) > 0 {
		return override[0]
	}
	return dflt
}

// trapNoRowsErr maps psql "no rows" to the domain's not-found error.
func trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// trapDuplicateErr translates unique constraint violations to the user-safe
// core.ErrDuplicateKey; the constraint name never reaches callers.
func trapDuplicateErr(err error, msg string) error {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
		return core.ErrDuplicateKey
	}
	return errors.Wrap(err, msg)
}
