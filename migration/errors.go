package migration

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
)

// ErrorKind classifies store failures for the operator. It does not change behaviour: any
// failure still aborts the family.
type ErrorKind string

const (
	ConnectionFailure ErrorKind = "CONNECTION_FAILURE"
	QueryFailure      ErrorKind = "QUERY_FAILURE"
	SchemaMismatch    ErrorKind = "SCHEMA_MISMATCH"
)

// Hint is the remediation line printed next to a failure.
func (k ErrorKind) Hint() string {
	switch k {
	case ConnectionFailure:
		return "check host/port/user/password/database in LEGACY_DB_* and DB_*, and that both servers are reachable"
	case SchemaMismatch:
		return "run portal-setup against the new database and confirm the legacy database is the expected dump"
	default:
		return "inspect the failing row in the legacy database; re-running is safe, migrated rows are skipped"
	}
}

// Store is which side of the migration failed.
type Store string

const (
	LegacyStore Store = "legacy"
	TargetStore Store = "target"
)

// FamilyError aborts one entity family.
type FamilyError struct {
	Family string
	Store  Store
	Stage  string
	Kind   ErrorKind
	Err    error
}

func (e *FamilyError) Error() string {
	return fmt.Sprintf("%s: %s %s failed (%s): %v", e.Family, e.Store, e.Stage, e.Kind, e.Err)
}

func (e *FamilyError) Unwrap() error {
	return e.Err
}

func newFamilyError(family string, store Store, stage string, err error) *FamilyError {
	return &FamilyError{
		Family: family,
		Store:  store,
		Stage:  stage,
		Kind:   Classify(err),
		Err:    err,
	}
}

// Classify maps a driver error onto an ErrorKind.
func Classify(err error) ErrorKind {
	if err == nil {
		return QueryFailure
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1044, 1045, 1049, 2002, 2003, 2005, 2006, 2013:
			// access denied, unknown database, cannot connect, server gone away
			return ConnectionFailure
		case 1054, 1146, 1136, 1364:
			// unknown column, missing table, column count, field without default
			return SchemaMismatch
		}
		return QueryFailure
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ConnectionFailure
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ConnectionFailure
	}
	return QueryFailure
}

// KindOf returns the kind carried by err, or "" when err is not a FamilyError.
func KindOf(err error) ErrorKind {
	var fe *FamilyError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
