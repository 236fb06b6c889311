package valuetype

import (
	"time"

	"github.com/blevesearch/bleve/v2/search/query"
)

// Resolution controls how much of a timestamp survives normalization.
// Two dates that agree down to the configured resolution are equal under
// equality queries and indistinguishable in the index.
type Resolution string

const (
	ResolutionYear        Resolution = "year"
	ResolutionMonth       Resolution = "month"
	ResolutionDay         Resolution = "day"
	ResolutionHour        Resolution = "hour"
	ResolutionMinute      Resolution = "minute"
	ResolutionSecond      Resolution = "second"
	ResolutionMillisecond Resolution = "millisecond"
)

// ParseResolution maps a schema string to a Resolution.
func ParseResolution(s string) (Resolution, bool) {
	switch Resolution(s) {
	case ResolutionYear, ResolutionMonth, ResolutionDay, ResolutionHour,
		ResolutionMinute, ResolutionSecond, ResolutionMillisecond:
		return Resolution(s), true
	case "":
		return ResolutionMillisecond, true
	default:
		return "", false
	}
}

// defaultDateLayouts are tried in order when coercing string values and no
// explicit layout is configured.
var defaultDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date is the timestamp value type. Values are normalized to the configured
// resolution before conversion to the sortable integral form (epoch
// milliseconds, UTC); both equality and range queries operate on that form.
// Range-capable and sortable.
type Date struct {
	field      string
	store      bool
	resolution Resolution
	layout     string
}

// NewDate creates a date value type bound to field. layout is the
// time.Parse layout for string inputs; empty means the default layouts.
func NewDate(field string, store bool, resolution Resolution, layout string) *Date {
	if resolution == "" {
		resolution = ResolutionMillisecond
	}
	return &Date{field: field, store: store, resolution: resolution, layout: layout}
}

func (d *Date) Field() string { return d.field }
func (d *Date) Kind() Kind    { return KindDate }
func (d *Date) Store() bool   { return d.store }

// Resolution returns the configured normalization resolution.
func (d *Date) Resolution() Resolution { return d.resolution }

// TryCoerce accepts time.Time, layout-formatted strings, and epoch
// milliseconds. The coerced representation is a UTC time.Time already
// normalized to the configured resolution.
func (d *Date) TryCoerce(raw any) (any, bool) {
	switch v := raw.(type) {
	case time.Time:
		return d.normalize(v), true
	case string:
		if d.layout != "" {
			t, err := time.Parse(d.layout, v)
			if err != nil {
				return nil, false
			}
			return d.normalize(t), true
		}
		for _, layout := range defaultDateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return d.normalize(t), true
			}
		}
		return nil, false
	case int64:
		return d.normalize(time.UnixMilli(v)), true
	case float64:
		ms, ok := floatToInt64(v)
		if !ok {
			return nil, false
		}
		return d.normalize(time.UnixMilli(ms)), true
	default:
		return nil, false
	}
}

// normalize truncates t to the configured resolution in UTC.
func (d *Date) normalize(t time.Time) time.Time {
	t = t.UTC()
	switch d.resolution {
	case ResolutionYear:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	case ResolutionMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case ResolutionDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case ResolutionHour:
		return t.Truncate(time.Hour)
	case ResolutionMinute:
		return t.Truncate(time.Minute)
	case ResolutionSecond:
		return t.Truncate(time.Second)
	default:
		return t.Truncate(time.Millisecond)
	}
}

// EqualityQuery matches the normalized integral form exactly.
func (d *Date) EqualityQuery(v any) query.Query {
	f := float64(v.(time.Time).UnixMilli())
	return numericRange(d.field, &f, &f, true, true)
}

// RangeQuery bounds the normalized integral form between two coerced values.
func (d *Date) RangeQuery(lower, upper any, lowerInclusive, upperInclusive bool) query.Query {
	var lo, hi *float64
	if lower != nil {
		f := float64(lower.(time.Time).UnixMilli())
		lo = &f
	}
	if upper != nil {
		f := float64(upper.(time.Time).UnixMilli())
		hi = &f
	}
	return numericRange(d.field, lo, hi, lowerInclusive, upperInclusive)
}

// IndexValue emits the normalized epoch-millisecond form.
func (d *Date) IndexValue(v any) any {
	return v.(time.Time).UnixMilli()
}

func (d *Date) SortField() string { return SortFieldPrefix + d.field }

func (d *Date) SortValue(v any) any {
	return v.(time.Time).UnixMilli()
}

// Interface checks.
var (
	_ ValueType    = (*Date)(nil)
	_ RangeCapable = (*Date)(nil)
	_ Sortable     = (*Date)(nil)
)
