package query

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deynapp/collections-backend/internal/dates"
	"github.com/deynapp/collections-backend/internal/domain"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 15, 10, 30, 0, 0, time.Local)
}

func testAggregator() *Aggregator {
	return NewAggregator(dates.NewAt(fixedNow))
}

// book is a small but representative agent portfolio:
//
//	Amina   — balan, due today
//	Bashir  — balan, five days overdue
//	Cumar   — balan, promised for next week (future)
//	Deeqa   — discount request, note mentions caawa
//	Faarax  — paid
//	Guuleed — plain unpaid, heavy prev balance, most called
//	Hodan   — balan with an unreadable date
func book() []domain.Customer {
	return []domain.Customer{
		{
			ID: "SQN1", Name: "Amina", Phone: "0634000001",
			Status: domain.StatusBalan, Note: "balan", AppointmentDate: "15/03/2024",
			Balance: decimal.NewFromInt(10), PrevBalance: decimal.NewFromInt(1),
		},
		{
			ID: "SQN2", Name: "Bashir", Phone: "0634000002",
			Status: domain.StatusBalan, Note: "balan", AppointmentDate: "10/03/2024",
			Balance: decimal.NewFromInt(20), PrevBalance: decimal.NewFromInt(2),
		},
		{
			ID: "SQN3", Name: "Cumar", Phone: "0634000003",
			Status: domain.StatusBalan, Note: "balan", AppointmentDate: "22/03/2024",
			Balance: decimal.NewFromInt(30), PrevBalance: decimal.NewFromInt(0),
		},
		{
			ID: "SQN4", Name: "Deeqa", Phone: "0634000004",
			Status: domain.StatusDiscount, Note: "caawa wuu diray qayb",
			Balance: decimal.NewFromInt(40), PrevBalance: decimal.NewFromInt(3),
		},
		{
			ID: "SQN5", Name: "Faarax", Phone: "0634000005",
			Status:  domain.StatusPaid,
			Balance: decimal.NewFromInt(0), PrevBalance: decimal.NewFromInt(0),
		},
		{
			ID: "SQN6", Name: "Guuleed", Phone: "0634000006",
			Status: domain.StatusNormal, Note: "",
			Balance: decimal.NewFromInt(60), PrevBalance: decimal.NewFromInt(5),
			CallCount: 9,
		},
		{
			ID: "SQN7", Name: "Hodan", Phone: "0634000007",
			Status: domain.StatusBalan, Note: "balan", AppointmentDate: "next week",
			Balance: decimal.NewFromInt(15), PrevBalance: decimal.NewFromInt(2),
		},
	}
}

func names(cs []domain.Customer) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestTabs(t *testing.T) {
	a := testAggregator()

	tests := []struct {
		name string
		tab  Tab
		want []string
	}{
		{
			name: "active is every unpaid account",
			tab:  TabActive,
			want: []string{"Amina", "Bashir", "Cumar", "Deeqa", "Guuleed", "Hodan"},
		},
		{
			name: "empty tab defaults to active",
			tab:  "",
			want: []string{"Amina", "Bashir", "Cumar", "Deeqa", "Guuleed", "Hodan"},
		},
		{
			name: "paid",
			tab:  TabPaid,
			want: []string{"Faarax"},
		},
		{
			name: "today picks up intra-day keywords",
			tab:  TabToday,
			want: []string{"Deeqa"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := a.Query(book(), Params{Tab: tc.tab})
			assert.Equal(t, tc.want, names(res.Visible))
		})
	}
}

func TestBalanTab(t *testing.T) {
	a := testAggregator()

	res := a.Query(book(), Params{Tab: TabBalan})

	// Future promises and unreadable dates stay off the working list;
	// ordering is most overdue first.
	assert.Equal(t, []string{"Bashir", "Amina"}, names(res.Visible))

	// The badge still counts every balan account.
	assert.Equal(t, 4, res.Counts.Balan)
}

func TestCountsIgnoreTab(t *testing.T) {
	a := testAggregator()

	for _, tab := range []Tab{TabActive, TabToday, TabBalan, TabPaid} {
		res := a.Query(book(), Params{Tab: tab})
		assert.Equal(t, Counts{Active: 6, Paid: 1, Balan: 4, Today: 1}, res.Counts, "tab %s", tab)
	}
}

func TestFavoritesCountAsToday(t *testing.T) {
	a := testAggregator()

	cs := book()
	cs[5].IsFavorite = true // Guuleed

	res := a.Query(cs, Params{Tab: TabToday})
	assert.Equal(t, []string{"Deeqa", "Guuleed"}, names(res.Visible))
	assert.Equal(t, 2, res.Counts.Today)
}

func TestFilters(t *testing.T) {
	a := testAggregator()

	tests := []struct {
		name   string
		filter FilterType
		want   []string
	}{
		{
			name:   "balan filter narrows every tab computation",
			filter: FilterBalan,
			want:   []string{"Amina", "Bashir", "Cumar", "Hodan"},
		},
		{
			name:   "discount",
			filter: FilterDiscount,
			want:   []string{"Deeqa"},
		},
		{
			name:   "two months of arrears",
			filter: FilterTwoMonths,
			want:   []string{"Bashir", "Deeqa", "Guuleed", "Hodan"},
		},
		{
			name:   "all is a pass-through",
			filter: FilterAll,
			want:   []string{"Amina", "Bashir", "Cumar", "Deeqa", "Guuleed", "Hodan"},
		},
		{
			name:   "unknown filter is ignored",
			filter: "bogus",
			want:   []string{"Amina", "Bashir", "Cumar", "Deeqa", "Guuleed", "Hodan"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := a.Query(book(), Params{Tab: TabActive, Filter: tc.filter})
			assert.Equal(t, tc.want, names(res.Visible))
		})
	}
}

func TestSummary(t *testing.T) {
	a := testAggregator()

	t.Run("absent without a filter", func(t *testing.T) {
		assert.Nil(t, a.Query(book(), Params{Tab: TabActive}).Summary)
		assert.Nil(t, a.Query(book(), Params{Tab: TabActive, Filter: FilterAll}).Summary)
	})

	t.Run("aggregates the filtered population across tabs", func(t *testing.T) {
		res := a.Query(book(), Params{Tab: TabPaid, Filter: FilterTwoMonths})
		require.NotNil(t, res.Summary)

		// Bashir, Deeqa, Guuleed, Hodan — none paid.
		assert.Equal(t, 4, res.Summary.Count)
		assert.Equal(t, 4, res.Summary.Active)
		assert.Equal(t, 0, res.Summary.Paid)
		assert.True(t, res.Summary.PrevSum.Equal(decimal.NewFromInt(12)), "prev sum %s", res.Summary.PrevSum)
		assert.True(t, res.Summary.DueSum.Equal(decimal.NewFromInt(135)), "due sum %s", res.Summary.DueSum)

		// The paid tab itself is empty under this filter.
		assert.Empty(t, res.Visible)
	})
}

func TestSearchAndLetter(t *testing.T) {
	a := testAggregator()

	t.Run("search hits name id note and phone", func(t *testing.T) {
		assert.Equal(t, []string{"Bashir"}, names(a.Query(book(), Params{Search: "bashir"}).Visible))
		assert.Equal(t, []string{"Cumar"}, names(a.Query(book(), Params{Search: "SQN3"}).Visible))
		assert.Equal(t, []string{"Deeqa"}, names(a.Query(book(), Params{Search: "caawa"}).Visible))
		assert.Equal(t, []string{"Guuleed"}, names(a.Query(book(), Params{Search: "0634000006"}).Visible))
	})

	t.Run("search narrows the counts too", func(t *testing.T) {
		res := a.Query(book(), Params{Search: "bashir"})
		assert.Equal(t, Counts{Active: 1, Paid: 0, Balan: 1, Today: 0}, res.Counts)
	})

	t.Run("letter is a name prefix on the visible list only", func(t *testing.T) {
		res := a.Query(book(), Params{Tab: TabActive, Letter: "g"})
		assert.Equal(t, []string{"Guuleed"}, names(res.Visible))
		assert.Equal(t, 6, res.Counts.Active, "letter must not shrink the badges")
	})

	t.Run("no match is empty not nil panic", func(t *testing.T) {
		res := a.Query(book(), Params{Search: "zzz"})
		assert.Empty(t, res.Visible)
		assert.Equal(t, Counts{}, res.Counts)
	})
}

func TestSorting(t *testing.T) {
	a := testAggregator()

	t.Run("default is name ascending", func(t *testing.T) {
		res := a.Query(book(), Params{Tab: TabActive})
		assert.Equal(t, []string{"Amina", "Bashir", "Cumar", "Deeqa", "Guuleed", "Hodan"}, names(res.Visible))
	})

	t.Run("desc reverses", func(t *testing.T) {
		res := a.Query(book(), Params{Tab: TabActive, Sort: SortDesc})
		assert.Equal(t, []string{"Hodan", "Guuleed", "Deeqa", "Cumar", "Bashir", "Amina"}, names(res.Visible))
	})

	t.Run("calls puts the most-dialled first", func(t *testing.T) {
		res := a.Query(book(), Params{Tab: TabActive, Sort: SortCalls})
		assert.Equal(t, "Guuleed", res.Visible[0].Name)
	})

	t.Run("balan tab ignores the sort parameter", func(t *testing.T) {
		res := a.Query(book(), Params{Tab: TabBalan, Sort: SortDesc})
		assert.Equal(t, []string{"Bashir", "Amina"}, names(res.Visible))
	})
}
