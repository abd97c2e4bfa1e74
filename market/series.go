package market

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrDataGap indicates there is not enough historical data to cover a
// requested window. It aborts a single run before its loop starts.
var ErrDataGap = errors.New("market: data gap")

// DataGapError reports where the series fell short of a request.
type DataGapError struct {
	Requested time.Time
	Warmup    int
	Detail    string
}

func (e *DataGapError) Error() string {
	return fmt.Sprintf("market: data gap at %s (warmup %d): %s",
		e.Requested.Format("2006-01-02"), e.Warmup, e.Detail)
}

func (e *DataGapError) Unwrap() error { return ErrDataGap }

// Series is an ordered, gap-tolerant sequence of daily bars. Dates are
// strictly increasing with no duplicates; missing calendar days are simply
// absent, never zero-price entries. Read-only after construction.
type Series struct {
	instrument string
	bars       []Bar
}

// NewSeries validates and builds a Series. Bars may arrive unsorted; they
// are ordered by date first. Duplicate dates are an error.
func NewSeries(instrument string, bars []Bar) (*Series, error) {
	bs := make([]Bar, len(bars))
	copy(bs, bars)
	for i := range bs {
		bs[i].Date = Day(bs[i].Date)
	}
	sort.Slice(bs, func(i, j int) bool { return bs[i].Date.Before(bs[j].Date) })
	for i := 1; i < len(bs); i++ {
		if bs[i].Date.Equal(bs[i-1].Date) {
			return nil, fmt.Errorf("market: duplicate bar date %s",
				bs[i].Date.Format("2006-01-02"))
		}
	}
	return &Series{instrument: instrument, bars: bs}, nil
}

func (s *Series) Instrument() string { return s.instrument }
func (s *Series) Len() int           { return len(s.bars) }

// AtDate returns the bar for the given date, if one exists.
func (s *Series) AtDate(d time.Time) (Bar, bool) {
	d = Day(d)
	i := sort.Search(len(s.bars), func(i int) bool {
		return !s.bars[i].Date.Before(d)
	})
	if i < len(s.bars) && s.bars[i].Date.Equal(d) {
		return s.bars[i], true
	}
	return Bar{}, false
}

// First returns the earliest bar date. Zero time when empty.
func (s *Series) First() time.Time {
	if len(s.bars) == 0 {
		return time.Time{}
	}
	return s.bars[0].Date
}

// Last returns the latest bar date. Zero time when empty.
func (s *Series) Last() time.Time {
	if len(s.bars) == 0 {
		return time.Time{}
	}
	return s.bars[len(s.bars)-1].Date
}

// Bars returns the bars in strictly chronological order. The slice is
// shared; callers must not modify it.
func (s *Series) Bars() []Bar { return s.bars }

// Window describes the portion of a series a simulation will replay.
// Lookback holds the warm-up bars immediately preceding the first
// simulated bar; Bars holds the simulated range itself.
type Window struct {
	Lookback []Bar
	Bars     []Bar
}

// SimWindow cuts the series for a run starting at or after start and
// ending at or before end (zero end means the end of the series), with
// warmup extra bars of history before the first simulated bar. It returns
// a DataGapError when the start date has no bar at or after it inside the
// series, or when fewer than warmup bars precede it.
func (s *Series) SimWindow(start, end time.Time, warmup int) (Window, error) {
	if warmup < 0 {
		return Window{}, fmt.Errorf("market: negative warmup %d", warmup)
	}
	if len(s.bars) == 0 {
		return Window{}, &DataGapError{Requested: start, Warmup: warmup, Detail: "empty series"}
	}
	start = Day(start)
	first := sort.Search(len(s.bars), func(i int) bool {
		return !s.bars[i].Date.Before(start)
	})
	if first == len(s.bars) {
		return Window{}, &DataGapError{Requested: start, Warmup: warmup,
			Detail: fmt.Sprintf("no bar on or after start (series ends %s)", s.Last().Format("2006-01-02"))}
	}
	if first < warmup {
		return Window{}, &DataGapError{Requested: start, Warmup: warmup,
			Detail: fmt.Sprintf("only %d bars of history before start", first)}
	}
	last := len(s.bars)
	if !end.IsZero() {
		end = Day(end)
		last = sort.Search(len(s.bars), func(i int) bool {
			return s.bars[i].Date.After(end)
		})
	}
	if last <= first {
		return Window{}, &DataGapError{Requested: start, Warmup: warmup, Detail: "empty window"}
	}
	return Window{
		Lookback: s.bars[first-warmup : first],
		Bars:     s.bars[first:last],
	}, nil
}
