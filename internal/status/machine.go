package status

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/deynapp/collections-backend/internal/dates"
	"github.com/deynapp/collections-backend/internal/domain"
)

// Machine governs the legal status transitions of a customer account. Every
// transition is a total function over a value: it returns the new customer
// plus an activity entry describing the change, and on a validation failure
// it returns the input unchanged. The caller persists the result and
// appends the activity; the machine itself never touches storage.
type Machine struct {
	dates *dates.Normalizer
	now   func() time.Time
}

func NewMachine(d *dates.Normalizer) *Machine {
	return &Machine{dates: d, now: time.Now}
}

func NewMachineAt(d *dates.Normalizer, now func() time.Time) *Machine {
	return &Machine{dates: d, now: now}
}

// ToBalan records a promise-to-pay appointment. The date must parse; the
// note is either one of the enumerated reasons or free text from the agent.
func (m *Machine) ToBalan(c domain.Customer, date, note string) (domain.Customer, domain.Activity, error) {
	if _, ok := m.dates.Parse(date); !ok {
		return c, domain.Activity{}, fmt.Errorf("ToBalan: %q: %w", date, domain.ErrInvalidDate)
	}

	c.Status = domain.StatusBalan
	c.AppointmentDate = date
	c.Note = note

	return c, m.activity(c, domain.ActivityStatusBalan, fmt.Sprintf("appointment %s (%s)", date, note)), nil
}

// ToDiscount records a discount request: the customer pays paidAmount now
// and asks for the remainder to be written off. The note is rewritten to a
// human-readable summary of the request.
func (m *Machine) ToDiscount(c domain.Customer, paidAmount decimal.Decimal) (domain.Customer, domain.Activity, error) {
	if paidAmount.IsNegative() || paidAmount.GreaterThan(c.Balance) {
		return c, domain.Activity{}, fmt.Errorf("ToDiscount: %s of %s: %w", paidAmount, c.Balance, domain.ErrAmountOutOfRange)
	}

	discount := c.Balance.Sub(paidAmount).Round(2)
	c.Status = domain.StatusDiscount
	c.PaidAmount = decimal.NewNullDecimal(paidAmount)
	c.DiscountAmount = decimal.NewNullDecimal(discount)
	c.Note = fmt.Sprintf("Discount Request: $%s (Paid $%s)", discount, paidAmount)

	return c, m.activity(c, domain.ActivityStatusDiscount, c.Note), nil
}

// ToPaid settles the account. Calling it on an already-paid customer is a
// no-op: the value comes back unchanged, the first PaidDate stands, and no
// activity entry is emitted.
func (m *Machine) ToPaid(c domain.Customer) (domain.Customer, domain.Activity, error) {
	if c.Status == domain.StatusPaid && c.PaidDate != nil {
		return c, domain.Activity{}, nil
	}

	now := m.now().UTC()
	c.Status = domain.StatusPaid
	c.PaidDate = &now

	return c, m.activity(c, domain.ActivityStatusPaid, "balance settled"), nil
}

// ToNormal reverts the account to the unpaid baseline, clearing the
// appointment and any pending discount. PaidDate is kept as history.
func (m *Machine) ToNormal(c domain.Customer) (domain.Customer, domain.Activity, error) {
	c.Status = domain.StatusNormal
	c.AppointmentDate = ""
	c.DiscountAmount = decimal.NullDecimal{}
	c.PaidAmount = decimal.NullDecimal{}

	return c, m.activity(c, domain.ActivityStatusNormal, "reset to unpaid"), nil
}

func (m *Machine) activity(c domain.Customer, typ domain.ActivityType, detail string) domain.Activity {
	return domain.Activity{
		CustomerID: c.ID,
		Type:       typ,
		Detail:     detail,
		CreatedAt:  m.now().UTC(),
	}
}
