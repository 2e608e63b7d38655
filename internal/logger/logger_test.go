package logger_test

import (
	"bytes"
	"testing"

	"codeberg.org/mutker/hwdash/internal/errors"
	"codeberg.org/mutker/hwdash/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Output: &buf, Level: logger.InfoLevel, Service: true})

	log.Debug().Msg("hidden")
	log.Info().Str("series", "cpu.total").Msg("recorded")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "recorded")
	assert.Contains(t, out, "cpu.total")
}

func TestErrorWithCode(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Output: &buf, Level: logger.DebugLevel, Service: true})

	log.With("scheduler").ErrorWithCode(errors.New().New(errors.ErrInvalidCapacity)).Msg("record failed")

	out := buf.String()
	assert.Contains(t, out, "invalid_capacity")
	assert.Contains(t, out, "scheduler")
}

func TestParseLevel(t *testing.T) {
	level, ok := logger.ParseLevel("warning")
	assert.True(t, ok)
	assert.Equal(t, logger.WarnLevel, level)

	_, ok = logger.ParseLevel("loud")
	assert.False(t, ok)
}

func TestNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() {
		logger.Nop().Error().Str("k", "v").Msg("dropped")
	})
}
