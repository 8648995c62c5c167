package log

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, zerolog.WarnLevel, parseLevel("production", "WARN"))
	require.Equal(t, zerolog.InfoLevel, parseLevel("production", ""))
	require.Equal(t, zerolog.DebugLevel, parseLevel("development", ""))
	require.Equal(t, zerolog.ErrorLevel, parseLevel("development", "error"))
}
