// Package bjtime provides Beijing wall-clock (UTC+8) helpers used across the
// service: the fixed zone, formatting/parsing in the two canonical layouts,
// unix timestamp conversion, and an Anchor for mapping elapsed durations to
// wall-clock milliseconds.
package bjtime

import (
	"fmt"
	"math"
	"time"

	"searchapi/internal/apperrors"
)

// Zone is the fixed UTC+8 zone; no DST, so a fixed offset is exact.
var Zone = time.FixedZone("CST", 8*60*60)

// Canonical layouts.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "2006-01-02 15:04:05"
)

// Year range accepted for unix conversions; timestamps mapping outside of it
// are rejected as implausible.
const (
	minYear = 1
	maxYear = 9999
)

// Now returns the current instant in Zone.
func Now() time.Time {
	return time.Now().In(Zone)
}

// Today returns the current Beijing date.
func Today() Date {
	return DateOf(Now())
}

// NowString returns the current Beijing time as "YYYY-MM-DD hh:mm:ss".
func NowString() string {
	return Now().Format(TimeLayout)
}

// TodayString returns the current Beijing date as "YYYY-MM-DD".
func TodayString() string {
	return Today().String()
}

// Timestamp returns the current unix timestamp in seconds.
func Timestamp() int64 {
	return time.Now().Unix()
}

// TimestampMillis returns the current unix timestamp in milliseconds.
func TimestampMillis() int64 {
	return time.Now().UnixMilli()
}

// FormatDate renders t's Beijing date as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.In(Zone).Format(DateLayout)
}

// FormatTime renders t's Beijing time as "YYYY-MM-DD hh:mm:ss".
func FormatTime(t time.Time) string {
	return t.In(Zone).Format(TimeLayout)
}

// ParseTime parses "YYYY-MM-DD hh:mm:ss" as a Beijing time.
func ParseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, s, Zone)
	if err != nil {
		return time.Time{}, apperrors.Wrap(apperrors.CodeInvalidInput, err, "parse time %q", s)
	}
	return t, nil
}

// FromUnix converts a unix timestamp (seconds plus milliseconds) to a Beijing
// time. millis must be in [0, 999]; timestamps outside the supported year
// range are rejected.
func FromUnix(sec, millis int64) (time.Time, error) {
	if millis < 0 || millis > 999 {
		return time.Time{}, apperrors.New(apperrors.CodeInvalidInput, "invalid millis %d", millis)
	}
	t := time.Unix(sec, millis*int64(time.Millisecond)).In(Zone)
	if y := t.Year(); y < minYear || y > maxYear {
		return time.Time{}, apperrors.New(apperrors.CodeInvalidInput, "invalid timestamp %d", sec)
	}
	return t, nil
}

// FromUnixFloat converts a fractional unix timestamp in seconds to a Beijing
// time, keeping millisecond precision.
func FromUnixFloat(sec float64) (time.Time, error) {
	if math.IsNaN(sec) || math.IsInf(sec, 0) {
		return time.Time{}, apperrors.New(apperrors.CodeInvalidInput, "invalid timestamp %v", sec)
	}
	whole, frac := math.Modf(sec)
	return FromUnix(int64(whole), int64(frac*1000))
}

// UnixFloat returns t as a fractional unix timestamp in seconds with
// millisecond precision.
func UnixFloat(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000
}

// Anchor pairs a wall-clock instant with a monotonic reading taken at the
// same moment. It converts between elapsed durations (e.g. measured by a
// worker loop) and absolute wall-clock milliseconds.
type Anchor struct {
	wall time.Time
}

// NewAnchor captures the current instant.
func NewAnchor() Anchor {
	// time.Now carries a monotonic reading, so Sub below stays steady
	// across wall-clock adjustments.
	return Anchor{wall: time.Now()}
}

// Wall returns the anchored wall-clock instant in Zone.
func (a Anchor) Wall() time.Time {
	return a.wall.In(Zone)
}

// FromElapsed converts a duration since the anchor to unix milliseconds.
func (a Anchor) FromElapsed(elapsed time.Duration) int64 {
	return a.wall.Add(elapsed).UnixMilli()
}

// ToElapsed converts unix milliseconds back to a duration since the anchor.
// The result is truncated to whole milliseconds; instants a full millisecond
// or more before the anchor yield an error.
func (a Anchor) ToElapsed(unixMillis int64) (time.Duration, error) {
	elapsed := time.UnixMilli(unixMillis).Sub(a.wall).Truncate(time.Millisecond)
	if elapsed < 0 {
		return 0, apperrors.New(apperrors.CodeInvalidInput,
			"timestamp %d precedes anchor by %s", unixMillis, (-elapsed).String())
	}
	return elapsed, nil
}

// String implements fmt.Stringer.
func (a Anchor) String() string {
	return fmt.Sprintf("anchor(%s)", FormatTime(a.wall))
}
