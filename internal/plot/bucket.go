package plot

import (
	"sort"
	"time"

	"github.com/KaramelBytes/edaclean/internal/table"
)

// Freq is the bucket width of a date series.
type Freq string

const (
	Monthly Freq = "M"
	Weekly  Freq = "W"
	Daily   Freq = "D"
	Hourly  Freq = "H"
)

const day = 24 * time.Hour

// ChooseFreq picks the bucket width from the span of the data.
func ChooseFreq(span time.Duration) Freq {
	switch {
	case span > 730*day:
		return Monthly
	case span > 90*day:
		return Weekly
	case span > 7*day:
		return Daily
	}
	return Hourly
}

// Truncate returns the start of the bucket containing t. Weeks start on Monday.
func Truncate(t time.Time, f Freq) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch f {
	case Monthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case Weekly:
		back := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-back, 0, 0, 0, 0, loc)
	case Daily:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
	return time.Date(y, m, d, t.Hour(), 0, 0, 0, loc)
}

// Count is the number of values falling in the bucket starting at At.
type Count struct {
	At time.Time
	N  int
}

// Bucket counts the present time values of c per bucket. When freq is empty it is
// chosen from the span of the values. Buckets are returned in time order.
func Bucket(c *table.Column, freq Freq) ([]Count, Freq) {
	var ts []time.Time
	for _, v := range c.Values {
		if t, ok := v.(time.Time); ok {
			ts = append(ts, t)
		}
	}
	if len(ts) == 0 {
		return nil, freq
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
	if freq == "" {
		freq = ChooseFreq(ts[len(ts)-1].Sub(ts[0]))
	}
	var out []Count
	for _, t := range ts {
		b := Truncate(t, freq)
		if n := len(out); n > 0 && out[n-1].At.Equal(b) {
			out[n-1].N++
			continue
		}
		out = append(out, Count{At: b, N: 1})
	}
	return out, freq
}
