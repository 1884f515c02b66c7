package temporal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Seconds per unit, following the GRASS temporal hierarchy where
// 1 year equals 365.2425 days and 1 month is a twelfth of that.
const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
	secondsPerWeek   = 604800
	secondsPerMonth  = 2629746
	secondsPerYear   = 31556952
)

var unitSeconds = map[string]int64{
	"second": 1,
	"minute": secondsPerMinute,
	"hour":   secondsPerHour,
	"day":    secondsPerDay,
	"week":   secondsPerWeek,
	"month":  secondsPerMonth,
	"year":   secondsPerYear,
}

// Granularity is a fixed temporal bucket width given as a single-unit
// string such as "1 hour" or "30 seconds".
type Granularity struct {
	Count int
	Unit  string
}

// ParseGranularity parses strings like "1 day" or "15 minutes".
// Only single-unit granularities are supported.
func ParseGranularity(str string) (Granularity, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(str)))
	if len(fields) != 2 {
		return Granularity{}, fmt.Errorf("granularity %q must be a single count and unit, e.g. \"1 hour\"", str)
	}

	count, err := strconv.Atoi(fields[0])
	if err != nil {
		return Granularity{}, fmt.Errorf("granularity count %q is not a number", fields[0])
	}
	if count < 1 {
		return Granularity{}, fmt.Errorf("granularity count must be positive, got %d", count)
	}

	unit := strings.TrimSuffix(fields[1], "s")
	if _, ok := unitSeconds[unit]; !ok {
		return Granularity{}, fmt.Errorf("unknown granularity unit %q", fields[1])
	}

	return Granularity{Count: count, Unit: unit}, nil
}

func (g Granularity) IsZero() bool {
	return g.Count == 0
}

// Seconds returns the bucket width in whole seconds. The zero value
// yields 1, meaning no aggregation beyond second precision.
func (g Granularity) Seconds() int64 {
	if g.IsZero() {
		return 1
	}
	return int64(g.Count) * unitSeconds[g.Unit]
}

func (g Granularity) Duration() time.Duration {
	return time.Duration(g.Seconds()) * time.Second
}

func (g Granularity) String() string {
	if g.IsZero() {
		return "1 second"
	}
	unit := g.Unit
	if g.Count != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s", g.Count, unit)
}
