package domain

import (
	"time"

	"github.com/google/uuid"
)

type AgentStatus string

const (
	AgentStatusActive   AgentStatus = "active"
	AgentStatusDisabled AgentStatus = "disabled"
)

// Agent is a field collection agent. Customers are scoped to the agent that
// owns them; the agent identity travels in the request context, never in
// ambient global state.
type Agent struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Zone         *string
	Status       AgentStatus
	CreatedAt    time.Time
}
