// Package session groups the rows of a price series into sessions
// (calendar days by default) and computes per-session aggregates.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/ind/market"
)

// Granularity is the length of a session.
type Granularity string

const (
	Hour  Granularity = "hour"
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

// ParseGranularity accepts hour, day, week or month (case-insensitive).
// An empty string means Day.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return Day, nil
	case Hour, Day, Week, Month:
		return g, nil
	default:
		return "", fmt.Errorf("unknown session granularity %q", s)
	}
}

// Key identifies a session by the unix time of its start.
type Key int64

// Time returns the session start in UTC.
func (k Key) Time() time.Time {
	return time.Unix(int64(k), 0).UTC()
}

// Session is a contiguous run of rows [Start, End) sharing a Key.
type Session struct {
	Key   Key
	Start int
	End   int
}

// Len returns the number of rows in the session.
func (s Session) Len() int {
	return s.End - s.Start
}

// Partitioner assigns timestamps to sessions.
//
// A timestamp t belongs to the session containing t-Offset in Location,
// truncated to Granularity. The zero value partitions by UTC calendar day.
type Partitioner struct {
	Granularity Granularity
	Location    *time.Location
	// Offset shifts the session boundary, e.g. 17h for FX days that roll
	// over at 17:00 New York time.
	Offset time.Duration
}

// Key returns the session key of t. It never decreases as t increases.
func (p Partitioner) Key(t time.Time) Key {
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	lt := t.Add(-p.Offset).In(loc)

	var start time.Time
	switch p.Granularity {
	case Hour:
		// Built from the instant: wall-clock hours repeat at a DST fall-back.
		into := time.Duration(lt.Minute())*time.Minute +
			time.Duration(lt.Second())*time.Second +
			time.Duration(lt.Nanosecond())
		start = lt.Add(-into)
	case Week:
		// ISO weeks start on Monday.
		back := (int(lt.Weekday()) + 6) % 7
		d := lt.AddDate(0, 0, -back)
		start = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	case Month:
		start = time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, loc)
	default:
		start = time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
	}
	return Key(start.Unix())
}

// Index is the session layout of one series.
type Index struct {
	// Keys holds the session key of every row.
	Keys []Key
	// RowSession maps each row to its position in Sessions.
	RowSession []int
	Sessions   []Session
}

// Index partitions s. Because s is sorted by time and Key is monotonic,
// every session is a contiguous block of rows.
func (p Partitioner) Index(s *market.Series) *Index {
	n := s.Len()
	idx := &Index{
		Keys:       make([]Key, n),
		RowSession: make([]int, n),
	}
	for i := 0; i < n; i++ {
		k := p.Key(s.Time(i))
		idx.Keys[i] = k
		if i == 0 || k != idx.Keys[i-1] {
			if len(idx.Sessions) > 0 {
				idx.Sessions[len(idx.Sessions)-1].End = i
			}
			idx.Sessions = append(idx.Sessions, Session{Key: k, Start: i})
		}
		idx.RowSession[i] = len(idx.Sessions) - 1
	}
	if len(idx.Sessions) > 0 {
		idx.Sessions[len(idx.Sessions)-1].End = n
	}
	return idx
}

// Column renders the session start of every row as a unix-seconds column.
func (idx *Index) Column(name string) *market.Column {
	c := market.NewColumn(name, len(idx.Keys))
	for i, k := range idx.Keys {
		c.Set(i, float64(k))
	}
	return c
}
