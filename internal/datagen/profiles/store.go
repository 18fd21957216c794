package profiles

import (
	"time"
)

// regionalHours is the relative purchase rate for each local hour of a
// single-country store: quiet nights, a lunch bump and an evening peak.
var regionalHours = [24]float64{
	0.30, 0.15, 0.10, 0.10, 0.10, 0.15, // 00-05
	0.25, 0.35, 0.45, 0.55, 0.65, 0.70, // 06-11
	0.75, 0.70, 0.70, 0.70, 0.75, 0.80, // 12-17
	0.85, 0.95, 1.00, 1.00, 0.80, 0.50, // 18-23
}

// StoreRegional models a marketplace selling in a single zone.
// Weekdays follow regionalHours; Monday carries a 10% bonus and weekends
// are 20% quieter.
type StoreRegional struct {
	tz *time.Location
}

// NewStoreRegional creates a new StoreRegional profile.
func NewStoreRegional(tz *time.Location) Profile {
	return &StoreRegional{tz: tz}
}

func (p *StoreRegional) Name() string {
	return "store-regional"
}

func (p *StoreRegional) Description() string {
	return "Single-country marketplace (evening peak, busy Mondays)"
}

func (p *StoreRegional) ActivityLevel(t time.Time) float64 {
	t = t.In(p.tz)
	level := regionalHours[t.Hour()]

	switch t.Weekday() {
	case time.Monday:
		level *= 1.10
	case time.Saturday, time.Sunday:
		level *= 0.80
	}
	return level
}

// market is an evening shopping window expressed in UTC hours, with
// end exclusive. Windows may wrap past midnight.
type market struct {
	name  string
	start int
	end   int
}

var globalMarkets = []market{
	{"americas", 22, 3},
	{"europe", 16, 21},
	{"asia", 8, 13},
}

// StoreGlobal models a marketplace selling worldwide. Activity never drops
// below 40% and rises towards each market's evening window; weekends are
// 10% busier.
type StoreGlobal struct {
	tz *time.Location
}

// NewStoreGlobal creates a new StoreGlobal profile. Peaks are fixed in
// UTC, so the zone only affects which calendar day counts as a weekend.
func NewStoreGlobal(tz *time.Location) Profile {
	return &StoreGlobal{tz: tz}
}

func (p *StoreGlobal) Name() string {
	return "store-global"
}

func (p *StoreGlobal) Description() string {
	return "Worldwide marketplace (24/7, regional evening peaks)"
}

func (p *StoreGlobal) ActivityLevel(t time.Time) float64 {
	hour := t.UTC().Hour()

	var peak float64
	for _, m := range globalMarkets {
		peak = max(peak, m.contribution(hour))
	}
	level := 0.40 + 0.60*peak

	if wd := t.In(p.tz).Weekday(); wd == time.Saturday || wd == time.Sunday {
		level *= 1.10
	}
	return level
}

// contribution is 1 inside the window and ramps down over the two hours
// either side of it.
func (m market) contribution(hour int) float64 {
	if m.inside(hour) {
		return 1.0
	}
	switch hoursAway(hour, m.start, m.end) {
	case 1:
		return 0.6
	case 2:
		return 0.3
	}
	return 0.0
}

func (m market) inside(hour int) bool {
	if m.start <= m.end {
		return hour >= m.start && hour < m.end
	}
	return hour >= m.start || hour < m.end
}

// hoursAway returns the circular distance from hour to the nearest edge
// of [start, end): hours before start, or hours at or after end plus one.
func hoursAway(hour, start, end int) int {
	before := (start - hour + 24) % 24
	after := (hour - end + 24) % 24
	return min(before, after+1)
}
