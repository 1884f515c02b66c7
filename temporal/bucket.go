package temporal

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// Method reduces the readings collected into one bucket to a single value.
type Method string

const (
	MethodAverage Method = "average"
	MethodSum     Method = "sum"
	MethodMinimum Method = "minimum"
	MethodMaximum Method = "maximum"
	MethodCount   Method = "count"
)

func ParseMethod(str string) (Method, error) {
	switch Method(str) {
	case MethodAverage, MethodSum, MethodMinimum, MethodMaximum, MethodCount:
		return Method(str), nil
	case "":
		return MethodAverage, nil
	}
	return "", fmt.Errorf("unknown aggregation method %q", str)
}

// Aggregate reduces values with the chosen method. NaN for empty input.
func (m Method) Aggregate(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	switch m {
	case MethodSum:
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum
	case MethodMinimum:
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min
	case MethodMaximum:
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max
	case MethodCount:
		return float64(len(values))
	default:
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values))
	}
}

// Buckets divides a window into fixed-width intervals. The first bucket
// starts at the window start, the last one at or before the window end.
type Buckets struct {
	start time.Time
	end   time.Time
	width int64
}

func NewBuckets(w Window, g Granularity) Buckets {
	return Buckets{start: w.Start.UTC(), end: w.End.UTC(), width: g.Seconds()}
}

// Assign returns the start of the bucket a timestamp falls into,
// or false when the timestamp is outside the window.
func (b Buckets) Assign(t time.Time) (time.Time, bool) {
	t = t.UTC()
	if t.Before(b.start) {
		return time.Time{}, false
	}
	offset := t.Unix() - b.start.Unix()
	bucket := b.start.Add(time.Duration(offset/b.width*b.width) * time.Second)
	if bucket.After(b.end) {
		return time.Time{}, false
	}
	return bucket, true
}

// Width returns the bucket width.
func (b Buckets) Width() time.Duration {
	return time.Duration(b.width) * time.Second
}

// Collector groups readings per bucket and series key, the in-memory
// shape behind every import: bucket start -> key -> collected values.
type Collector struct {
	buckets Buckets
	values  map[time.Time]map[string][]float64
}

func NewCollector(b Buckets) *Collector {
	return &Collector{buckets: b, values: make(map[time.Time]map[string][]float64)}
}

// Add files one reading under its bucket. Readings outside the window
// are dropped and reported with false.
func (c *Collector) Add(key string, t time.Time, value float64) bool {
	bucket, ok := c.buckets.Assign(t)
	if !ok {
		return false
	}
	if c.values[bucket] == nil {
		c.values[bucket] = make(map[string][]float64)
	}
	c.values[bucket][key] = append(c.values[bucket][key], value)
	return true
}

// Reduce aggregates every non-empty bucket, returned in ascending
// bucket-start order.
func (c *Collector) Reduce(m Method) []BucketValues {
	out := make([]BucketValues, 0, len(c.values))
	for bucket, perKey := range c.values {
		bv := BucketValues{Start: bucket, End: bucket.Add(c.buckets.Width()), Values: make(map[string]float64, len(perKey))}
		for key, values := range perKey {
			bv.Values[key] = m.Aggregate(values)
		}
		out = append(out, bv)
	}
	slices.SortFunc(out, func(a, b BucketValues) int { return a.Start.Compare(b.Start) })
	return out
}

// BucketValues is one aggregated bucket: every key that had at least
// one reading inside [Start, End) mapped to its reduced value.
type BucketValues struct {
	Start  time.Time
	End    time.Time
	Values map[string]float64
}
