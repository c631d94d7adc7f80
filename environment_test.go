package traillog_test

import (
	"testing"
	"time"

	traillog "github.com/ridgepath/traillog"
	"github.com/stretchr/testify/require"
)

func TestEnvVarOrBool(t *testing.T) {
	// Arrange
	t.Setenv("TEST_FLAG", "TRUE")
	t.Setenv("TEST_FLAG_OFF", "false")
	t.Setenv("TEST_FLAG_JUNK", "yeah")

	// Act + Assert
	require.True(t, traillog.EnvVarOrBool("TEST_FLAG", false))
	require.False(t, traillog.EnvVarOrBool("TEST_FLAG_OFF", true))
	require.True(t, traillog.EnvVarOrBool("TEST_FLAG_JUNK", true))
	require.False(t, traillog.EnvVarOrBool("TEST_FLAG_UNSET", false))
}

func TestEnvVarOrDuration(t *testing.T) {
	// Arrange
	t.Setenv("TEST_TIMEOUT", "30s")
	t.Setenv("TEST_TIMEOUT_JUNK", "soon")

	// Act + Assert
	require.Equal(t, 30*time.Second, traillog.EnvVarOrDuration("TEST_TIMEOUT", time.Second))
	require.Equal(t, time.Second, traillog.EnvVarOrDuration("TEST_TIMEOUT_JUNK", time.Second))
	require.Equal(t, time.Minute, traillog.EnvVarOrDuration("TEST_TIMEOUT_UNSET", time.Minute))
}

func TestEnvVarOrInt(t *testing.T) {
	// Arrange
	t.Setenv("TEST_COST", "12")
	t.Setenv("TEST_COST_JUNK", "a dozen")

	// Act + Assert
	require.Equal(t, 12, traillog.EnvVarOrInt("TEST_COST", 10))
	require.Equal(t, 10, traillog.EnvVarOrInt("TEST_COST_JUNK", 10))
}

func TestEnvVarOrEnv(t *testing.T) {
	// Arrange
	t.Setenv("TEST_ENV", "staging")
	t.Setenv("TEST_ENV_JUNK", "outer space")

	// Act + Assert
	require.Equal(t, traillog.Staging, traillog.EnvVarOrEnv("TEST_ENV", traillog.Development))
	require.Equal(t, traillog.Development, traillog.EnvVarOrEnv("TEST_ENV_JUNK", traillog.Development))
}
