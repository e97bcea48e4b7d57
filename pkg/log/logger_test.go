package log

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLoggerInitialized(t *testing.T) {
	assert.NotNil(t, Logger)
	assert.Equal(t, zerolog.InfoLevel, Logger.GetLevel())
}

func TestSetDebugMode(t *testing.T) {
	SetDebugMode()
	assert.Equal(t, zerolog.DebugLevel, Logger.GetLevel())
}

func TestSetQuiet(t *testing.T) {
	SetQuiet()
	assert.Equal(t, zerolog.ErrorLevel, Logger.GetLevel())
}

func TestWithComponent(t *testing.T) {
	child := With("kvstore")
	assert.NotNil(t, child)
}
