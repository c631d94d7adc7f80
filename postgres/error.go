package postgres

import "regexp"

var (
	// These errors originate from the std lib database/sql package.
	errSQLScan = regexp.MustCompile(`sql: expected \d+ destination arguments in Scan, not \d+`)

	// errSQLSyntax is a very loose aggregation of error codes
	// originating from PostgreSQL itself
	// that are some sort of syntax issue in the statement or datatype mismatch.
	//
	// Cf., https://www.postgresql.org/docs/current/errcodes-appendix.html
	errSQLSyntax = regexp.MustCompile(`SQLSTATE (42601|22P02)`)

	errFKViolation   = regexp.MustCompile(`SQLSTATE (23503)`)
	errUniqViolation = regexp.MustCompile(`SQLSTATE (23505)`)
)
