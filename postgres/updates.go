package postgres

import (
	"fmt"

	traillog "github.com/ridgepath/traillog"
)

// An Updates is a map of key-value pairs where key is the database column
// and the value is the data.
type Updates map[string]any

func (u Updates) valid() error {
	if len(u) == 0 {
		return fmt.Errorf("%w: no columns set", traillog.ErrMissingData)
	}

	return nil
}
