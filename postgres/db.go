package postgres

import (
	"errors"
	"fmt"

	traillog "github.com/ridgepath/traillog"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// safeGORMSession forces *gorm.DB methods that mutate shared state
// onto a clean pointer.
var safeGORMSession = &gorm.Session{}

type DB struct {
	// *gorm.DB's methods are generally unsafe to use directly.
	// Some are not thread-safe and mutate the state of the *gorm.DB
	// backing DB; wrapping each call in a new *DB keeps chains clean.
	db *gorm.DB
}

// NewDB constructs a *DB from a *gorm.DB.
func NewDB(db *gorm.DB) *DB { return &DB{db: db} }

// DB exposes the underlying *gorm.DB backing DB.
//
// NB: use in exceptional circumstances only.
func (db *DB) DB() *gorm.DB { return db.db }

// **************************************************************************
// FINISHER METHODS
//
// These methods close out a current query, executing it.
// They return any errors occurring within the query chain
// or when executing the query, mapped onto the module's sentinel errors.
// **************************************************************************

// Count returns the number of records matching the current query or an error.
func (db *DB) Count() (int64, error) {
	if db.db.Error != nil {
		return 0, db.db.Error
	}

	var count int64
	if err := db.db.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: %s", traillog.ErrUnexpected, err)
	}

	return count, nil
}

// Create inserts value into the database, updating value with new data
// yielding from that insertion. Value is almost always a pointer to a
// struct backed by a database table.
//
// If value violates a foreign key constraint defined by the database, ErrNotValid returns.
// If value violates a unique constraint defined by the database, ErrExists returns.
func (db *DB) Create(value any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	err := db.db.Session(&gorm.Session{FullSaveAssociations: false}).Create(value).Error
	switch {
	case err == nil:
		return nil

	case errors.Is(err, schema.ErrUnsupportedDataType), errors.Is(err, gorm.ErrInvalidData):
		return fmt.Errorf("%w: %T is not a database table", traillog.ErrMissingData, value)

	case errFKViolation.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", traillog.ErrNotValid, err)

	case errUniqViolation.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", traillog.ErrExists, err)

	default:
		return fmt.Errorf("%w: failed creating %T: %s", traillog.ErrUnexpected, value, err)
	}
}

// Delete removes the database record for value,
// honoring any conditions built up in the current query.
//
// If no record matches, ErrNotFound returns.
func (db *DB) Delete(value any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	res := db.db.Delete(value)
	if errors.Is(res.Error, schema.ErrUnsupportedDataType) {
		return fmt.Errorf("%w: cannot parse table name from %T", traillog.ErrMissingData, value)
	}

	if res.Error != nil {
		return fmt.Errorf("%w: failed deleting %T: %s", traillog.ErrUnexpected, value, res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %T", traillog.ErrNotFound, value)
	}

	return nil
}

// Find retrieves all records matching the current query
// and stores them in dest.
//
// Unlike First, a query matching zero records is not an error;
// dest is simply left empty.
func (db *DB) Find(dest any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	err := db.db.Find(dest).Error
	if err != nil && errSQLScan.MatchString(err.Error()) {
		return fmt.Errorf("%w: %T cannot be scanned into", traillog.ErrNotValid, dest)
	}

	if err != nil && errSQLSyntax.MatchString(err.Error()) {
		return fmt.Errorf("%w: %s", traillog.ErrNotValid, err)
	}

	if err != nil {
		return fmt.Errorf("%w: %s", traillog.ErrUnexpected, err)
	}

	return nil
}

// First retrieves a single record from the database matching the query
// and stores it in dest.
//
// If no matches are found, First returns ErrNotFound.
func (db *DB) First(dest any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	err := db.db.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w", traillog.ErrNotFound)
	}

	if err != nil && errSQLSyntax.MatchString(err.Error()) {
		return fmt.Errorf("%w: %s", traillog.ErrNotValid, err)
	}

	if err != nil {
		return fmt.Errorf("%w: %s", traillog.ErrUnexpected, err)
	}

	return nil
}

// Update replaces existing data on all records matching the query with values.
//
// If no records are updated, ErrNotFound returns.
func (db *DB) Update(values Updates) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	if err := values.valid(); err != nil {
		return err
	}

	res := db.db.Updates(map[string]any(values))
	switch {
	case res.RowsAffected == 0 && res.Error == nil:
		return fmt.Errorf("%w", traillog.ErrNotFound)

	case res.Error == nil:
		return nil

	case errUniqViolation.MatchString(res.Error.Error()):
		return fmt.Errorf("%w: %s", traillog.ErrExists, res.Error)

	default:
		return fmt.Errorf("%w: %s", traillog.ErrUnexpected, res.Error)
	}
}

// **************************************************************************
// QUERY BUILDING METHODS
//
// Query building methods initiate a query and then add clauses to it
// until a finisher method is called. The caller can chain methods.
// **************************************************************************

// Limit applies a LIMIT clause to the current query.
func (db *DB) Limit(limit int) *DB {
	if limit < 0 {
		gdb := db.DB().Session(safeGORMSession)
		_ = gdb.AddError(fmt.Errorf("%w: limit must not be negative", traillog.ErrNotValid))
		return &DB{db: gdb}
	}

	return &DB{db: db.db.Limit(limit)}
}

// Model declares the table used for the query, computed from the type of
// model or its TableName method.
func (db *DB) Model(model any) *DB { return &DB{db: db.db.Model(model)} }

// Order applies an ORDER BY clause to the current query.
func (db *DB) Order(order string) *DB { return &DB{db: db.db.Order(order)} }

// Select applies a SELECT statement to the current query.
func (db *DB) Select(columns ...string) *DB { return &DB{db: db.db.Select(columns)} }

// Where applies the query fragment to the current query as a WHERE or AND clause.
func (db *DB) Where(query any, args ...any) *DB {
	return &DB{db: db.db.Where(query, args...)}
}
