package account_test

import (
	"testing"

	traillog "github.com/ridgepath/traillog"
	"github.com/ridgepath/traillog/account"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequiresAllFields(t *testing.T) {
	// Arrange
	srv := account.NewService(nil)

	tcs := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"all-missing", "", "", ""},
		{"whitespace-username", "   ", "gal@example.com", "hunter2hunter2"},
		{"missing-email", "gal", "", "hunter2hunter2"},
		{"missing-password", "gal", "gal@example.com", ""},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			_, err := srv.Register(tc.username, tc.email, tc.password)

			// Assert
			require.ErrorIs(t, err, traillog.ErrNotValid)
		})
	}
}
