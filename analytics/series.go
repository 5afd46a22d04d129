package analytics

import (
	"fmt"
	"math"
	"time"

	"salesdash/models"
)

const (
	trendMinDays        = 30
	trendMinNonZeroDays = 10

	secondsPerDay = 24 * 60 * 60
)

// DailySeries holds one quantity per calendar day with no gaps. Start is the
// first day as a UTC midnight carrying the civil date.
type DailySeries struct {
	Start  time.Time
	Values []float64
}

func (s DailySeries) Len() int { return len(s.Values) }

// Day returns the civil date of the i-th entry.
func (s DailySeries) Day(i int) time.Time { return s.Start.AddDate(0, 0, i) }

// civilDate strips t down to its calendar date in loc, as a UTC midnight, so
// day arithmetic is not affected by DST transitions.
func civilDate(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dayNumber counts days since the Unix epoch for a UTC midnight. Unlike a
// Duration it does not overflow on long windows.
func dayNumber(civil time.Time) int64 {
	return civil.Unix() / secondsPerDay
}

// BuildDailySeries sums point quantities per calendar day (in loc) over the
// inclusive range [start, end]. Days without sales are zero and points outside
// the range are ignored.
func BuildDailySeries(points []models.SalePoint, start, end time.Time, loc *time.Location) (DailySeries, error) {
	first := civilDate(start, loc)
	last := civilDate(end, loc)
	if last.Before(first) {
		return DailySeries{}, fmt.Errorf("%w: window ends %s before it starts %s",
			ErrMalformedHistory, last.Format(time.DateOnly), first.Format(time.DateOnly))
	}

	n := int(dayNumber(last)-dayNumber(first)) + 1
	values := make([]float64, n)
	for i, p := range points {
		if p.Date.IsZero() {
			return DailySeries{}, fmt.Errorf("%w: point %d has no date", ErrMalformedHistory, i)
		}
		if math.IsNaN(p.Quantity) || math.IsInf(p.Quantity, 0) {
			return DailySeries{}, fmt.Errorf("%w: point %d on %s has quantity %v",
				ErrMalformedHistory, i, p.Date.Format(time.DateOnly), p.Quantity)
		}
		idx := int(dayNumber(civilDate(p.Date, loc)) - dayNumber(first))
		if idx < 0 || idx >= n {
			continue
		}
		values[idx] += p.Quantity
	}
	return DailySeries{Start: first, Values: values}, nil
}

// MovingAverage returns the trailing mean over window days for every point.
// The first window-1 entries are NaN.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}

// latest returns the last value of a moving average, or 0 when it is undefined.
func latest(ma []float64) float64 {
	if len(ma) == 0 {
		return 0
	}
	v := ma[len(ma)-1]
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// TrendSlope fits a least-squares line through the (day offset, quantity)
// pairs of days that had sales and returns its slope in units per day. It is
// zero for series shorter than 30 days or with fewer than 10 selling days.
func TrendSlope(values []float64) float64 {
	if len(values) < trendMinDays {
		return 0
	}

	xs := make([]float64, 0, len(values))
	ys := make([]float64, 0, len(values))
	for i, v := range values {
		if v > 0 {
			xs = append(xs, float64(i))
			ys = append(ys, v)
		}
	}
	if len(xs) < trendMinNonZeroDays {
		return 0
	}
	return olsSlope(xs, ys)
}

func olsSlope(xs, ys []float64) float64 {
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var sxy, sxx float64
	for i := range xs {
		dx := xs[i] - meanX
		sxy += dx * (ys[i] - meanY)
		sxx += dx * dx
	}
	if sxx == 0 {
		return 0
	}
	return sxy / sxx
}

// WeekdayPattern returns the mean quantity per weekday, Monday=0 ... Sunday=6,
// over the whole series including zero days.
func WeekdayPattern(s DailySeries) map[int]float64 {
	var sums, counts [7]float64
	for i, v := range s.Values {
		wd := mondayFirst(s.Day(i).Weekday())
		sums[wd] += v
		counts[wd]++
	}

	pattern := make(map[int]float64, 7)
	for wd := 0; wd < 7; wd++ {
		if counts[wd] > 0 {
			pattern[wd] = sums[wd] / counts[wd]
		}
	}
	return pattern
}

func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}
