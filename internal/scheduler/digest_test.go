package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deynapp/collections-backend/internal/dates"
	"github.com/deynapp/collections-backend/internal/domain"
)

type staticLister struct {
	customers []domain.Customer
	err       error
}

func (s *staticLister) ListAll(context.Context) ([]domain.Customer, error) {
	return s.customers, s.err
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 15, 10, 30, 0, 0, time.Local)
}

func TestDigestRun(t *testing.T) {
	agent := uuid.New()
	lister := &staticLister{customers: []domain.Customer{
		{OwnerID: agent, ID: "SQN1", Status: domain.StatusBalan, AppointmentDate: "15/03/2024"},
		{OwnerID: agent, ID: "SQN2", Status: domain.StatusBalan, AppointmentDate: "10/03/2024"},
		{OwnerID: agent, ID: "SQN3", Status: domain.StatusBalan, AppointmentDate: "20/03/2024"},
		{OwnerID: agent, ID: "SQN4", Status: domain.StatusNormal},
		{OwnerID: agent, ID: "SQN5", Status: domain.StatusPaid},
	}}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	d := NewDigest(lister, dates.NewAt(fixedNow), logger)
	d.Run(context.Background())

	out := buf.String()
	assert.Contains(t, out, "due_today=1")
	assert.Contains(t, out, "overdue=1")
	assert.Contains(t, out, "unpaid=4")
	assert.Contains(t, out, "agent_id="+agent.String())
}

func TestDigestRunListFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	d := NewDigest(&staticLister{err: errors.New("db down")}, dates.NewAt(fixedNow), logger)
	d.Run(context.Background())

	assert.Contains(t, buf.String(), "list customers failed")
}

func TestDigestStartRejectsBadSchedule(t *testing.T) {
	d := NewDigest(&staticLister{}, dates.NewAt(fixedNow), slog.Default())
	require.Error(t, d.Start("every morning-ish"))
	require.NoError(t, d.Start("0 6 * * *"))
	d.Stop()
}
