package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	t.Run("Success - truncates to date", func(t *testing.T) {
		ts := time.Date(2026, 8, 23, 14, 30, 5, 0, time.UTC)
		assert.Equal(t, "2026-08-23", FormatDate(&ts))
	})

	t.Run("Success - nil renders empty", func(t *testing.T) {
		assert.Equal(t, "", FormatDate(nil))
	})

	t.Run("Success - zero time renders empty", func(t *testing.T) {
		var ts time.Time
		assert.Equal(t, "", FormatDate(&ts))
	})
}

func TestJoinLocation(t *testing.T) {
	t.Run("Success - all parts present", func(t *testing.T) {
		assert.Equal(t, "Austin, TX, USA", JoinLocation("Austin", "TX", "USA"))
	})

	t.Run("Success - blank parts skipped", func(t *testing.T) {
		assert.Equal(t, "Austin", JoinLocation("Austin", "", "  "))
		assert.Equal(t, "TX, USA", JoinLocation("", "TX", "USA"))
	})

	t.Run("Success - nothing to join", func(t *testing.T) {
		assert.Equal(t, "", JoinLocation("", ""))
	})
}
