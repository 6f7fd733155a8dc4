package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/deynapp/collections-backend/internal/dates"
	"github.com/deynapp/collections-backend/internal/domain"
)

type customerLister interface {
	ListAll(ctx context.Context) ([]domain.Customer, error)
}

// Digest logs a per-agent snapshot of due and overdue appointments every
// morning so ops can see which books need attention before agents head
// out. It reads and logs only; nothing is delivered to customers.
type Digest struct {
	customers customerLister
	dates     *dates.Normalizer
	logger    *slog.Logger
	cron      *cron.Cron
}

func NewDigest(customers customerLister, d *dates.Normalizer, logger *slog.Logger) *Digest {
	return &Digest{
		customers: customers,
		dates:     d,
		logger:    logger,
		cron:      cron.New(),
	}
}

func (d *Digest) Start(schedule string) error {
	if _, err := d.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		d.Run(ctx)
	}); err != nil {
		return err
	}
	d.cron.Start()
	return nil
}

func (d *Digest) Stop() {
	d.cron.Stop()
}

func (d *Digest) Run(ctx context.Context) {
	customers, err := d.customers.ListAll(ctx)
	if err != nil {
		d.logger.Error("digest: list customers failed", "error", err)
		return
	}

	type bucket struct {
		dueToday int
		overdue  int
		unpaid   int
	}
	byAgent := make(map[uuid.UUID]*bucket)

	for _, c := range customers {
		b := byAgent[c.OwnerID]
		if b == nil {
			b = &bucket{}
			byAgent[c.OwnerID] = b
		}
		if !c.Status.IsPaid() {
			b.unpaid++
		}
		if c.Status != domain.StatusBalan {
			continue
		}
		switch diff := d.dates.DaysDifference(c.AppointmentDate); {
		case d.dates.IsToday(c.AppointmentDate):
			b.dueToday++
		case diff > 0:
			b.overdue++
		}
	}

	for agentID, b := range byAgent {
		d.logger.Info("collection digest",
			"agent_id", agentID,
			"due_today", b.dueToday,
			"overdue", b.overdue,
			"unpaid", b.unpaid,
		)
	}
}
