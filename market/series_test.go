package market

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bar(d time.Time, close float64) Bar {
	c := decimal.NewFromFloat(close)
	return Bar{Date: d, Open: c, High: c, Low: c, Close: c}
}

func flatBars(start time.Time, n int, close float64) []Bar {
	bars := make([]Bar, n)
	for i := 0; i < n; i++ {
		bars[i] = bar(start.AddDate(0, 0, i), close)
	}
	return bars
}

func TestNewSeriesSortsAndValidates(t *testing.T) {
	d1 := Date(2024, 3, 1)
	d2 := Date(2024, 3, 4) // weekend gap is fine
	d3 := Date(2024, 3, 5)

	s, err := NewSeries("ACME", []Bar{bar(d3, 52), bar(d1, 50), bar(d2, 51)})
	require.NoError(t, err)
	assert.Equal(t, d1, s.First())
	assert.Equal(t, d3, s.Last())

	dates := []time.Time{}
	for _, b := range s.Bars() {
		dates = append(dates, b.Date)
	}
	assert.Equal(t, []time.Time{d1, d2, d3}, dates)
}

func TestNewSeriesRejectsDuplicateDates(t *testing.T) {
	d := Date(2024, 3, 1)
	_, err := NewSeries("ACME", []Bar{bar(d, 50), bar(d, 51)})
	assert.ErrorContains(t, err, "duplicate bar date")
}

func TestAtDate(t *testing.T) {
	s, err := NewSeries("ACME", []Bar{bar(Date(2024, 3, 1), 50), bar(Date(2024, 3, 4), 51)})
	require.NoError(t, err)

	b, ok := s.AtDate(Date(2024, 3, 4))
	require.True(t, ok)
	assert.True(t, b.Close.Equal(decimal.NewFromInt(51)))

	_, ok = s.AtDate(Date(2024, 3, 2)) // gap day
	assert.False(t, ok)
}

func TestSimWindow(t *testing.T) {
	start := Date(2024, 3, 1)
	s, err := NewSeries("ACME", flatBars(start, 20, 50))
	require.NoError(t, err)

	w, err := s.SimWindow(start.AddDate(0, 0, 5), time.Time{}, 3)
	require.NoError(t, err)
	assert.Len(t, w.Lookback, 3)
	assert.Len(t, w.Bars, 15)
	assert.Equal(t, start.AddDate(0, 0, 5), w.Bars[0].Date)
	assert.Equal(t, start.AddDate(0, 0, 2), w.Lookback[0].Date)
}

func TestSimWindowDataGaps(t *testing.T) {
	start := Date(2024, 3, 1)
	s, err := NewSeries("ACME", flatBars(start, 10, 50))
	require.NoError(t, err)

	// Start past the end of the series.
	_, err = s.SimWindow(Date(2024, 6, 1), time.Time{}, 0)
	assert.ErrorIs(t, err, ErrDataGap)
	var dge *DataGapError
	require.True(t, errors.As(err, &dge))
	assert.Equal(t, Date(2024, 6, 1), dge.Requested)

	// Not enough warm-up history before start.
	_, err = s.SimWindow(start.AddDate(0, 0, 2), time.Time{}, 5)
	assert.ErrorIs(t, err, ErrDataGap)

	// Empty series.
	empty, err := NewSeries("ACME", nil)
	require.NoError(t, err)
	_, err = empty.SimWindow(start, time.Time{}, 0)
	assert.ErrorIs(t, err, ErrDataGap)
}

func TestSimWindowEndBound(t *testing.T) {
	start := Date(2024, 3, 1)
	s, err := NewSeries("ACME", flatBars(start, 10, 50))
	require.NoError(t, err)

	w, err := s.SimWindow(start, start.AddDate(0, 0, 4), 0)
	require.NoError(t, err)
	assert.Len(t, w.Bars, 5)
	assert.Equal(t, start.AddDate(0, 0, 4), w.Bars[len(w.Bars)-1].Date)
}
