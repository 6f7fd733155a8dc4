package dates

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dayFirst matches the primary persisted format: day, month, year. The
// bulk importer and the appointment picker both write dates this way, so
// "05/03/2024" is the 5th of March, never the 3rd of May.
var dayFirst = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)

// fallbackLayouts covers dates that arrive from other tooling (exports,
// manual edits). Tried in order after the day-first pattern fails.
var fallbackLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Normalizer turns the heterogeneous date strings found on customer records
// into canonical dates and relative-day facts. "Now" is injectable so
// today/tomorrow logic is testable.
type Normalizer struct {
	now func() time.Time
}

func New() *Normalizer {
	return &Normalizer{now: time.Now}
}

func NewAt(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// Parse returns the canonical date for text, or ok=false when the input is
// empty or unparseable. Callers treat a failed parse as "no date", not as
// an error.
func (n *Normalizer) Parse(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	if m := dayFirst.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, false
		}
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
		// time.Date normalizes overflow (31 Feb becomes 2/3 Mar); reject it.
		if d.Day() != day || d.Month() != time.Month(month) {
			return time.Time{}, false
		}
		return d, true
	}

	for _, layout := range fallbackLayouts {
		if d, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func (n *Normalizer) Today() time.Time {
	return midnight(n.now())
}

func (n *Normalizer) IsToday(text string) bool {
	d, ok := n.Parse(text)
	if !ok {
		return false
	}
	return midnight(d).Equal(n.Today())
}

func (n *Normalizer) IsTomorrow(text string) bool {
	d, ok := n.Parse(text)
	if !ok {
		return false
	}
	return midnight(d).Equal(n.Today().AddDate(0, 0, 1))
}

// DaysDifference returns today minus the given date in whole days: positive
// for overdue dates, zero for today, negative for future dates. Unparseable
// input yields 0 so a missing date carries no temporal signal.
func (n *Normalizer) DaysDifference(text string) int {
	d, ok := n.Parse(text)
	if !ok {
		return 0
	}
	diff := n.Today().Sub(midnight(d))
	return int(math.Round(diff.Hours() / 24))
}

// FormatCompact renders a date as "5 Mar" for list rows and reminder text.
// Unparseable input is returned unchanged.
func (n *Normalizer) FormatCompact(text string) string {
	d, ok := n.Parse(text)
	if !ok {
		return text
	}
	return d.Format("2 Jan")
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
