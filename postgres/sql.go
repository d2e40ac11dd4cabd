// Copyright 2015-2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

// Transaction and statement helpers.  Every slice document is read
// and written inside withTx, which retries on serialization
// failures, so concurrent writers to one slice see each other's
// changes instead of losing them.

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// maxTxAttempts bounds how often a transaction that keeps losing
// serialization races is retried.
const maxTxAttempts = 10

// serializationFailure is the SQLSTATE of a repeatable-read conflict.
const serializationFailure = "40001"

// withTx runs f in a REPEATABLE READ transaction, committing if it
// returns nil and rolling back otherwise.  A transaction that fails
// to serialize is rolled back and f is run again in a new one.
func withTx(db *sql.DB, readOnly bool, f func(*sql.Tx) error) error {
	mode := "SET TRANSACTION ISOLATION LEVEL REPEATABLE READ"
	if readOnly {
		mode += " READ ONLY"
	}
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = runTx(db, mode, f)
		if !isSerializationFailure(err) {
			return err
		}
	}
	return errors.Wrapf(err, "gave up after %d attempts", maxTxAttempts)
}

// runTx makes one attempt at a transaction.
func runTx(db *sql.DB, mode string, f func(*sql.Tx) error) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); err == nil && rbErr != sql.ErrTxDone {
			err = rbErr
		}
	}()

	if _, err = tx.Exec(mode); err != nil {
		return err
	}
	if err = f(tx); err != nil {
		return err
	}
	committed = true
	return tx.Commit()
}

func isSerializationFailure(err error) bool {
	pqerr, ok := errors.Cause(err).(*pq.Error)
	return ok && pqerr.Code == serializationFailure
}

// scanRows calls f once per row, then closes rows.  f should only
// Scan the current row.
func scanRows(rows *sql.Rows, f func() error) error {
	defer rows.Close()
	for rows.Next() {
		if err := f(); err != nil {
			return err
		}
	}
	return rows.Err()
}

// timeToNullTime maps the zero time to SQL NULL.
func timeToNullTime(t time.Time) pq.NullTime {
	return pq.NullTime{Time: t, Valid: !t.IsZero()}
}

// buildSelect builds "SELECT outputs FROM tables WHERE conditions",
// with the conditions ANDed together.
func buildSelect(outputs, tables, conditions []string) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(outputs, ", "))
	b.WriteString(" FROM ")
	b.WriteString(strings.Join(tables, ", "))
	where(&b, conditions)
	return b.String()
}

// buildUpdate builds "UPDATE table SET changes WHERE conditions",
// with the conditions ANDed together.
func buildUpdate(table string, changes, conditions []string) string {
	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(table)
	if len(changes) > 0 {
		b.WriteString(" SET ")
		b.WriteString(strings.Join(changes, ", "))
	}
	where(&b, conditions)
	return b.String()
}

func where(b *strings.Builder, conditions []string) {
	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}
}

// queryParams collects the positional parameters of one statement.
type queryParams []interface{}

// Param appends a parameter and returns its placeholder, "$1" for the
// first one and so on.
func (qp *queryParams) Param(param interface{}) string {
	*qp = append(*qp, param)
	return "$" + strconv.Itoa(len(*qp))
}
