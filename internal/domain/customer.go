package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusNormal   Status = "Normal"
	StatusBalan    Status = "Balan"
	StatusDiscount Status = "Discount"
	StatusPaid     Status = "Paid"

	// StatusQabyo marks a partial payment. Old bulk imports still carry it;
	// the state machine never produces it but the rest of the engine must
	// recognize it.
	StatusQabyo Status = "Qabyo"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusNormal, StatusBalan, StatusDiscount, StatusPaid, StatusQabyo:
		return true
	}
	return false
}

// IsPaid reports whether the account is settled. Qabyo counts as unpaid.
func (s Status) IsPaid() bool {
	return s == StatusPaid
}

// Enumerated note reasons. Anything outside this set is free text
// ("fahfahin") entered by the agent.
const (
	NoteBalan   = "Balan"
	NoteCaawa   = "Caawa"
	NoteBarri   = "Barri"
	NoteDuhur   = "Duhur"
	NoteQataato = "qataato"
	NoteDhicid  = "dhicid"
	NoteAcc     = "acc"
)

var knownNotes = []string{NoteBalan, NoteCaawa, NoteBarri, NoteDuhur, NoteQataato, NoteDhicid, NoteAcc}

func IsKnownNote(note string) bool {
	for _, n := range knownNotes {
		if strings.EqualFold(note, n) {
			return true
		}
	}
	return false
}

// Customer is one debt account assigned to a field agent. ID is the stable
// collections account number ("SQN") and never changes after import.
type Customer struct {
	ID              string
	OwnerID         uuid.UUID
	Name            string
	Phone           string
	Balance         decimal.Decimal
	PrevBalance     decimal.Decimal
	Status          Status
	Note            string
	AppointmentDate string
	DiscountAmount  decimal.NullDecimal
	PaidAmount      decimal.NullDecimal
	PaidDate        *time.Time
	IsFavorite      bool
	CallCount       int
	Location        *string
	CreatedAt       time.Time
}
