package http

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/deezer-grabber/internal/config"
)

// TestNewLogTransport_DefaultMaxLogLength tests that a zero max length falls back to the config default.
func TestNewLogTransport_DefaultMaxLogLength(t *testing.T) {
	t.Parallel()

	transport := NewLogTransport(nil, 0)

	logTransport, ok := transport.(*LogTransport)
	require.True(t, ok)

	assert.Equal(t, uint64(config.DefaultMaxLogLength), logTransport.maxLogLength)
}

// TestNewLogTransport_CustomMaxLogLength tests that an explicit max length is kept as-is.
func TestNewLogTransport_CustomMaxLogLength(t *testing.T) {
	t.Parallel()

	transport := NewLogTransport(nil, 256)

	logTransport, ok := transport.(*LogTransport)
	require.True(t, ok)

	assert.Equal(t, uint64(256), logTransport.maxLogLength)
}

// TestLogTransport_Truncate tests truncation of oversized dumps.
func TestLogTransport_Truncate(t *testing.T) {
	t.Parallel()

	logTransport := &LogTransport{maxLogLength: 10}

	short := logTransport.truncate([]byte("tiny"))
	assert.Equal(t, "tiny", short)

	long := logTransport.truncate([]byte(strings.Repeat("a", 100)))
	assert.Equal(t, strings.Repeat("a", 10)+"... [truncated]", long)
}
