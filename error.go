package traillog

import "errors"

var (
	ErrBadConfig   = errors.New("bad config")
	ErrExists      = errors.New("already exists")
	ErrMissingData = errors.New("missing data")
	ErrNotFound    = errors.New("not found")
	ErrNotValid    = errors.New("invalid")
	ErrUnexpected  = errors.New("unexpected")
)
