package query

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/deynapp/collections-backend/internal/dates"
	"github.com/deynapp/collections-backend/internal/domain"
)

type Tab string

const (
	TabActive Tab = "active"
	TabToday  Tab = "today"
	TabBalan  Tab = "balan"
	TabPaid   Tab = "paid"
)

type FilterType string

const (
	FilterAll       FilterType = "all"
	FilterBalan     FilterType = "balan"
	FilterDiscount  FilterType = "discount"
	FilterTwoMonths FilterType = "2 Bilood"
)

type SortOrder string

const (
	SortAsc   SortOrder = "asc"
	SortDesc  SortOrder = "desc"
	SortCalls SortOrder = "calls"
)

type Params struct {
	Tab    Tab
	Filter FilterType
	Letter string
	Search string
	Sort   SortOrder
}

// Counts are the tab badges. They are computed over the population matching
// the secondary filter and search term but ignoring the open tab, so a badge
// shows the same total from every tab.
type Counts struct {
	Active int `json:"active"`
	Paid   int `json:"paid"`
	Balan  int `json:"balan"`
	Today  int `json:"today"`
}

// Summary is the dashboard aggregate, produced only when a secondary filter
// is active. Like Counts it ignores the tab.
type Summary struct {
	Count   int             `json:"count"`
	Active  int             `json:"active"`
	Paid    int             `json:"paid"`
	PrevSum decimal.Decimal `json:"prev_sum"`
	DueSum  decimal.Decimal `json:"due_sum"`
}

type Result struct {
	Visible []domain.Customer `json:"visible"`
	Counts  Counts            `json:"counts"`
	Summary *Summary          `json:"summary,omitempty"`
}

// todayKeywords flag an account for the "today" tab regardless of status
// (except Paid): the note promises payment at some point during this day.
var todayKeywords = []string{"caawa", "galab", "galbta", "duhur"}

// Aggregator computes the visible subset, sort order, and summary numbers
// for one UI query. It is stateless and recomputed per call; list sizes are
// small enough that no caching is worth the staleness risk.
type Aggregator struct {
	dates *dates.Normalizer
}

func NewAggregator(d *dates.Normalizer) *Aggregator {
	return &Aggregator{dates: d}
}

func (a *Aggregator) Query(customers []domain.Customer, p Params) Result {
	// Population: secondary filter + search, tab ignored. Counts and
	// summary come from here so badges stay stable across tabs.
	var population []domain.Customer
	for _, c := range customers {
		if a.matchFilter(c, p.Filter) && matchSearch(c, p.Search) {
			population = append(population, c)
		}
	}

	var counts Counts
	for _, c := range population {
		if !c.Status.IsPaid() {
			counts.Active++
		} else {
			counts.Paid++
		}
		if c.Status == domain.StatusBalan {
			counts.Balan++
		}
		if a.isTodayBucket(c) {
			counts.Today++
		}
	}

	var summary *Summary
	if p.Filter != "" && p.Filter != FilterAll {
		s := Summary{Count: len(population), PrevSum: decimal.Zero, DueSum: decimal.Zero}
		for _, c := range population {
			if !c.Status.IsPaid() {
				s.Active++
			} else {
				s.Paid++
			}
			s.PrevSum = s.PrevSum.Add(c.PrevBalance)
			s.DueSum = s.DueSum.Add(c.Balance)
		}
		summary = &s
	}

	var visible []domain.Customer
	for _, c := range population {
		if !matchLetter(c, p.Letter) {
			continue
		}
		if !a.matchTab(c, p.Tab) {
			continue
		}
		visible = append(visible, c)
	}

	a.sortVisible(visible, p)

	return Result{Visible: visible, Counts: counts, Summary: summary}
}

func (a *Aggregator) matchFilter(c domain.Customer, f FilterType) bool {
	switch f {
	case "", FilterAll:
		return true
	case FilterBalan:
		return c.Status == domain.StatusBalan
	case FilterDiscount:
		return c.Status == domain.StatusDiscount
	case FilterTwoMonths:
		return c.PrevBalance.GreaterThanOrEqual(decimal.NewFromInt(2))
	default:
		return true
	}
}

func (a *Aggregator) matchTab(c domain.Customer, t Tab) bool {
	switch t {
	case TabPaid:
		return c.Status.IsPaid()
	case TabBalan:
		// Only appointments that are due or overdue belong here; future
		// promises stay out of the working list (but still count).
		if c.Status != domain.StatusBalan {
			return false
		}
		if _, ok := a.dates.Parse(c.AppointmentDate); !ok {
			return false
		}
		return a.dates.DaysDifference(c.AppointmentDate) >= 0
	case TabToday:
		return a.isTodayBucket(c)
	default: // active
		return !c.Status.IsPaid()
	}
}

func (a *Aggregator) isTodayBucket(c domain.Customer) bool {
	if c.Status.IsPaid() {
		return false
	}
	if c.IsFavorite {
		return true
	}
	note := strings.ToLower(c.Note)
	for _, kw := range todayKeywords {
		if strings.Contains(note, kw) {
			return true
		}
	}
	return false
}

func (a *Aggregator) sortVisible(visible []domain.Customer, p Params) {
	if p.Tab == TabBalan {
		// Most overdue first.
		sort.SliceStable(visible, func(i, j int) bool {
			return a.dates.DaysDifference(visible[i].AppointmentDate) > a.dates.DaysDifference(visible[j].AppointmentDate)
		})
		return
	}

	switch p.Sort {
	case SortDesc:
		sort.SliceStable(visible, func(i, j int) bool {
			return strings.ToLower(visible[i].Name) > strings.ToLower(visible[j].Name)
		})
	case SortCalls:
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].CallCount > visible[j].CallCount
		})
	default:
		sort.SliceStable(visible, func(i, j int) bool {
			return strings.ToLower(visible[i].Name) < strings.ToLower(visible[j].Name)
		})
	}
}

func matchSearch(c domain.Customer, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range []string{c.Name, c.ID, c.Note, c.Phone} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func matchLetter(c domain.Customer, letter string) bool {
	if letter == "" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(c.Name), strings.ToLower(letter))
}
