package domain

import (
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityStatusBalan    ActivityType = "status_balan"
	ActivityStatusDiscount ActivityType = "status_discount"
	ActivityStatusPaid     ActivityType = "status_paid"
	ActivityStatusNormal   ActivityType = "status_normal"
	ActivityMessageSent    ActivityType = "message_sent"
	ActivityCall           ActivityType = "call"
)

// Activity is one best-effort audit entry: a status transition, an outbound
// reminder, or a call attempt. Append failures are logged and never block
// the action they describe.
type Activity struct {
	ID         uuid.UUID
	CustomerID string
	ActorID    uuid.UUID
	Type       ActivityType
	Detail     string
	CreatedAt  time.Time
}

func (a Activity) IsZero() bool {
	return a.Type == ""
}
