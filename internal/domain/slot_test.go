package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTimeRange(t *testing.T) {
	tests := []struct {
		name      string
		timeRange string
		want      []string
		wantErr   error
	}{
		{
			name:      "three hour range",
			timeRange: "09:00-12:00",
			want:      []string{"09:00-10:00", "10:00-11:00", "11:00-12:00"},
		},
		{
			name:      "single hour",
			timeRange: "14:00-15:00",
			want:      []string{"14:00-15:00"},
		},
		{
			name:      "range with spaces",
			timeRange: "09:00 - 11:00",
			want:      []string{"09:00-10:00", "10:00-11:00"},
		},
		{
			name:      "start equals end",
			timeRange: "10:00-10:00",
			wantErr:   ErrInvalidTimeRange,
		},
		{
			name:      "start after end",
			timeRange: "12:00-09:00",
			wantErr:   ErrInvalidTimeRange,
		},
		{
			name:      "no separator",
			timeRange: "09:00",
			wantErr:   ErrInvalidTimeFormat,
		},
		{
			name:      "garbage",
			timeRange: "morning-noon",
			wantErr:   ErrInvalidTimeFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitTimeRange(tt.timeRange)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("25.12.2025")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.December, d.Month())
	assert.Equal(t, 25, d.Day())
	assert.Equal(t, time.Local, d.Location())

	_, err = ParseDate("2025-12-25")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	_, err = ParseDate("не дата")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestLessonStart(t *testing.T) {
	start, err := LessonStart("25.12.2025", "10:00-11:00")
	require.NoError(t, err)
	// Начало занятия строится в локальной зоне, иначе сравнение с Now()
	// смещается на UTC-офсет хоста
	assert.Equal(t, time.Date(2025, 12, 25, 10, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Local, start.Location())

	// Без разделителя вся строка трактуется как время начала
	start, err = LessonStart("25.12.2025", "10:30")
	require.NoError(t, err)
	assert.Equal(t, 30, start.Minute())

	_, err = LessonStart("25.12.2025", "десять утра")
	assert.Error(t, err)
}

func TestTimeSortKey(t *testing.T) {
	assert.Equal(t, 9, TimeSortKey("09:00-10:00"))
	assert.Equal(t, 14, TimeSortKey("14:00-15:00"))
	// Нечисловое время уходит в конец сортировки
	assert.Equal(t, 99, TimeSortKey("утро"))
	assert.Equal(t, 99, TimeSortKey("ab:00-10:00"))
}

func TestNewSlot(t *testing.T) {
	s, err := NewSlot("25.12.2025", "10:00-11:00")
	require.NoError(t, err)
	assert.True(t, s.Available)
	assert.False(t, s.DeletedByAdmin)
	assert.True(t, s.IsOfferable())

	s.Available = false
	assert.False(t, s.IsOfferable())

	s.Available = true
	s.DeletedByAdmin = true
	assert.False(t, s.IsOfferable(), "удалённый администратором слот не предлагается")

	_, err = NewSlot("25.12.2025", "12:00-09:00")
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}
