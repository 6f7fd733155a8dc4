package status

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

func testMachine() *Machine {
	return NewMachineAt(dates.NewAt(fixedNow), fixedNow)
}

func testCustomer() domain.Customer {
	return domain.Customer{
		ID:      "SQN1042",
		Name:    "Xasan Cali",
		Phone:   "0634123456",
		Balance: decimal.NewFromInt(100),
		Status:  domain.StatusNormal,
	}
}

func TestToBalan(t *testing.T) {
	m := testMachine()

	t.Run("sets appointment and note", func(t *testing.T) {
		got, act, err := m.ToBalan(testCustomer(), "20/03/2024", "balan galab")
		require.NoError(t, err)

		assert.Equal(t, domain.StatusBalan, got.Status)
		assert.Equal(t, "20/03/2024", got.AppointmentDate)
		assert.Equal(t, "balan galab", got.Note)
		assert.Equal(t, domain.ActivityStatusBalan, act.Type)
		assert.Equal(t, "SQN1042", act.CustomerID)
	})

	t.Run("unparseable date leaves customer unchanged", func(t *testing.T) {
		before := testCustomer()
		got, act, err := m.ToBalan(before, "soon inshallah", "balan")
		require.ErrorIs(t, err, domain.ErrInvalidDate)

		assert.Equal(t, before, got)
		assert.True(t, act.IsZero())
	})
}

func TestToDiscount(t *testing.T) {
	m := testMachine()

	t.Run("splits balance into paid and discount", func(t *testing.T) {
		got, act, err := m.ToDiscount(testCustomer(), decimal.NewFromInt(40))
		require.NoError(t, err)

		assert.Equal(t, domain.StatusDiscount, got.Status)
		require.True(t, got.PaidAmount.Valid)
		require.True(t, got.DiscountAmount.Valid)
		assert.True(t, got.PaidAmount.Decimal.Equal(decimal.NewFromInt(40)))
		assert.True(t, got.DiscountAmount.Decimal.Equal(decimal.NewFromInt(60)))
		assert.Equal(t, "Discount Request: $60 (Paid $40)", got.Note)
		assert.Equal(t, domain.ActivityStatusDiscount, act.Type)
	})

	t.Run("rounds the discount to cents", func(t *testing.T) {
		c := testCustomer()
		c.Balance = decimal.RequireFromString("100.555")

		got, _, err := m.ToDiscount(c, decimal.RequireFromString("0.33"))
		require.NoError(t, err)
		assert.True(t, got.DiscountAmount.Decimal.Equal(decimal.RequireFromString("100.23")),
			"got %s", got.DiscountAmount.Decimal)
	})

	t.Run("full payment leaves zero discount", func(t *testing.T) {
		got, _, err := m.ToDiscount(testCustomer(), decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.True(t, got.DiscountAmount.Decimal.IsZero())
	})

	tests := []struct {
		name string
		paid decimal.Decimal
	}{
		{name: "negative amount", paid: decimal.NewFromInt(-1)},
		{name: "more than the balance", paid: decimal.NewFromInt(101)},
	}
	for _, tc := range tests {
		t.Run(tc.name+" is rejected", func(t *testing.T) {
			before := testCustomer()
			got, act, err := m.ToDiscount(before, tc.paid)
			require.ErrorIs(t, err, domain.ErrAmountOutOfRange)

			assert.Equal(t, before, got)
			assert.True(t, act.IsZero())
		})
	}
}

func TestToPaid(t *testing.T) {
	m := testMachine()

	got, act, err := m.ToPaid(testCustomer())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPaid, got.Status)
	require.NotNil(t, got.PaidDate)
	assert.True(t, got.PaidDate.Equal(fixedNow()))
	assert.Equal(t, domain.ActivityStatusPaid, act.Type)

	t.Run("second call is a no-op keeping the first paid date", func(t *testing.T) {
		again, act, err := m.ToPaid(got)
		require.NoError(t, err)

		assert.True(t, act.IsZero())
		assert.Equal(t, got.PaidDate, again.PaidDate)
		assert.Equal(t, got, again)
	})
}

func TestToNormal(t *testing.T) {
	m := testMachine()

	c := testCustomer()
	c, _, err := m.ToDiscount(c, decimal.NewFromInt(40))
	require.NoError(t, err)
	c.AppointmentDate = "20/03/2024"
	paidAt := fixedNow().UTC()
	c.PaidDate = &paidAt

	got, act, err := m.ToNormal(c)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusNormal, got.Status)
	assert.Empty(t, got.AppointmentDate)
	assert.False(t, got.DiscountAmount.Valid)
	assert.False(t, got.PaidAmount.Valid)
	assert.Equal(t, &paidAt, got.PaidDate, "paid date is history, not state")
	assert.Equal(t, domain.ActivityStatusNormal, act.Type)
}
