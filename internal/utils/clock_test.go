package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToday(t *testing.T) {
	clock := &MockClock{FixedNow: time.Date(2024, time.January, 5, 10, 30, 0, 0, time.Local)}

	assert.Equal(t, "2024-01-05", Today(clock))
}

func TestDateRange(t *testing.T) {
	clock := &MockClock{FixedNow: time.Date(2024, time.December, 28, 23, 0, 0, 0, time.Local)}

	start, end := DateRange(clock, 7)

	assert.Equal(t, "2024-12-28", start)
	assert.Equal(t, "2025-01-04", end)
}

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		d, err := ParseDate("2024-02-29")
		assert.NoError(t, err)
		assert.Equal(t, 29, d.Day())
		assert.Equal(t, time.Local, d.Location())
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := ParseDate("2024-13-01")
		assert.Error(t, err)
	})
}
