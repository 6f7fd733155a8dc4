package message

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/deynapp/collections-backend/internal/dates"
	"github.com/deynapp/collections-backend/internal/domain"
)

// Composer drafts one Somali collection reminder per customer by walking an
// ordered rule table, first match wins. The order is load-bearing: notes
// often carry several keywords at once ("caawa balan") and the earlier rule
// must take the message. Each rule is a plain (match, render) pair so it
// can be unit-tested on its own.
type Composer struct {
	dates   *dates.Normalizer
	floor   decimal.Decimal
	contact string
	rules   []rule
}

type rule struct {
	name   string
	match  func(c domain.Customer) bool
	render func(c domain.Customer) string
}

// NewComposer builds the rule table. floor is the minimum billable unit:
// every template shows max(balance, floor), never a smaller raw balance.
// contact is the office number embedded in the generic "ok" reminder.
func NewComposer(d *dates.Normalizer, floor decimal.Decimal, contact string) *Composer {
	c := &Composer{dates: d, floor: floor, contact: contact}
	c.rules = []rule{
		{
			name:  "caawa-today",
			match: func(cu domain.Customer) bool { return noteHas(cu, "caawa") && d.IsToday(cu.AppointmentDate) },
			render: func(cu domain.Customer) string {
				return fmt.Sprintf("Asc %s, ballantaadii lacag bixinta waa caawa. Waxaa lagugu leeyahay $%s, fadlan caawa soo dir lacagta. Mahadsanid.", cu.Name, c.amount(cu))
			},
		},
		{
			name: "galab-today",
			match: func(cu domain.Customer) bool {
				return (noteHas(cu, "galab") || noteHas(cu, "galbta")) && d.IsToday(cu.AppointmentDate)
			},
			render: func(cu domain.Customer) string {
				return fmt.Sprintf("Asc %s, ballantaadu waa maanta galabta. Waxaa lagugu leeyahay $%s, fadlan galabta soo dir lacagta. Mahadsanid.", cu.Name, c.amount(cu))
			},
		},
		{
			name:  "duhur-today",
			match: func(cu domain.Customer) bool { return noteHas(cu, "duhur") && d.IsToday(cu.AppointmentDate) },
			render: func(cu domain.Customer) string {
				return fmt.Sprintf("Asc %s, ballantaadu waa maanta duhurka. Waxaa lagugu leeyahay $%s, fadlan duhurka soo dir lacagta. Mahadsanid.", cu.Name, c.amount(cu))
			},
		},
		{
			name:  "qataato",
			match: func(cu domain.Customer) bool { return noteHas(cu, "qataato") },
			render: func(cu domain.Customer) string {
				return fmt.Sprintf("DIGNIIN U DAMBEYSA: %s, waxaa lagugu leeyahay $%s. Haddii aadan maanta bixin waxaa laga qaadan doonaa adeegga. Fadlan degdeg u bixi.", cu.Name, c.amount(cu))
			},
		},
		{
			name:  "acc-ussd",
			match: func(cu domain.Customer) bool { return noteHas(cu, "acc") },
			render: func(cu domain.Customer) string {
				return fmt.Sprintf("Asc %s, si aad u bixiso $%s ee lagugu leeyahay, garaac *233*%s*%s#. Mahadsanid.", cu.Name, c.amount(cu), cu.ID, c.amount(cu))
			},
		},
		{
			name: "balan-overdue-week",
			match: func(cu domain.Customer) bool {
				return noteHas(cu, "balan") && d.DaysDifference(cu.AppointmentDate) > 7
			},
			render: func(cu domain.Customer) string {
				return fmt.Sprintf("Asc %s, ballantii aad samaysay waa laga gudbay wax ka badan toddobaad. Waxaa lagugu leeyahay $%s, fadlan maanta bixi ama nala soo xiriir.", cu.Name, c.amount(cu))
			},
		},
		{
			name: "balan-overdue",
			match: func(cu domain.Customer) bool {
				return noteHas(cu, "balan") && d.DaysDifference(cu.AppointmentDate) > 0
			},
			render: func(cu domain.Customer) string {
				days := d.DaysDifference(cu.AppointmentDate)
				return fmt.Sprintf("Asc %s, ballantaadii waxay ahayd %d maalmood ka hor. Waxaa lagugu leeyahay $%s, fadlan soo bixi. Mahadsanid.", cu.Name, days, c.amount(cu))
			},
		},
		{
			name: "balan-today",
			match: func(cu domain.Customer) bool {
				return noteHas(cu, "balan") && d.IsToday(cu.AppointmentDate)
			},
			render: func(cu domain.Customer) string {
				return fmt.Sprintf("Asc %s, ballantaadu waa maanta. Waxaa lagugu leeyahay $%s, fadlan maanta soo dir lacagta. Mahadsanid.", cu.Name, c.amount(cu))
			},
		},
		{
			name: "balan-tomorrow",
			match: func(cu domain.Customer) bool {
				return noteHas(cu, "balan") && d.IsTomorrow(cu.AppointmentDate)
			},
			render: func(cu domain.Customer) string {
				return fmt.Sprintf("Asc %s, ballantaadu waa barri. Waxaa lagugu leeyahay $%s. Mahadsanid.", cu.Name, c.amount(cu))
			},
		},
		{
			name: "balan-upcoming",
			match: func(cu domain.Customer) bool {
				return noteHas(cu, "balan") && d.DaysDifference(cu.AppointmentDate) < 0
			},
			render: func(cu domain.Customer) string {
				return fmt.Sprintf("Asc %s, waxaad ballan ku leedahay %s. Waxaa lagugu leeyahay $%s. Mahadsanid.", cu.Name, d.FormatCompact(cu.AppointmentDate), c.amount(cu))
			},
		},
		{
			name:  "qabyo",
			match: func(cu domain.Customer) bool { return cu.Status == domain.StatusQabyo },
			render: func(cu domain.Customer) string {
				return fmt.Sprintf("Mahadsanid %s lacagtii aad soo dirtay. Waxaa kuu haray $%s, fadlan dhammaystir markii aad awooddo.", cu.Name, c.amount(cu))
			},
		},
		{
			name:  "dhicid",
			match: func(cu domain.Customer) bool { return noteHas(cu, "dhicid") },
			render: func(cu domain.Customer) string {
				return fmt.Sprintf("Asc %s, waan ku soo wacnay laakiin ma aannu helin. Waxaa lagugu leeyahay $%s, fadlan soo bixi ama nala soo xiriir.", cu.Name, c.amount(cu))
			},
		},
		{
			name: "ok",
			match: func(cu domain.Customer) bool {
				n := strings.ToLower(strings.TrimSpace(cu.Note))
				return n == "ok" || strings.Contains(n, "ok -")
			},
			render: func(cu domain.Customer) string {
				return fmt.Sprintf("Asc %s, waxaa lagugu leeyahay $%s. Wixii faahfaahin ah kala soo xiriir %s. Mahadsanid.", cu.Name, c.amount(cu), c.contact)
			},
		},
		{
			name:  "default",
			match: func(domain.Customer) bool { return true },
			render: func(cu domain.Customer) string {
				return fmt.Sprintf("Asc %s, waxaa lagugu leeyahay $%s oo dhaaftay waqtigii. Fadlan soo bixi. Mahadsanid.", cu.Name, c.amount(cu))
			},
		},
	}
	return c
}

// Compose always returns a message: the final rule matches everything.
func (c *Composer) Compose(cu domain.Customer) string {
	for _, r := range c.rules {
		if r.match(cu) {
			return r.render(cu)
		}
	}
	return "" // unreachable, the default rule is total
}

// MatchedRule returns the name of the rule Compose would use, for activity
// detail and tests.
func (c *Composer) MatchedRule(cu domain.Customer) string {
	for _, r := range c.rules {
		if r.match(cu) {
			return r.name
		}
	}
	return "default"
}

// amount is the displayed balance, floored at the minimum billable unit.
func (c *Composer) amount(cu domain.Customer) string {
	b := cu.Balance
	if b.LessThan(c.floor) {
		b = c.floor
	}
	return b.String()
}

func noteHas(c domain.Customer, keyword string) bool {
	return strings.Contains(strings.ToLower(c.Note), keyword)
}
