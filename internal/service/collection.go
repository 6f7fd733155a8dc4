package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/deynapp/collections-backend/internal/auth"
	"github.com/deynapp/collections-backend/internal/dispatch"
	"github.com/deynapp/collections-backend/internal/domain"
	"github.com/deynapp/collections-backend/internal/logging"
	"github.com/deynapp/collections-backend/internal/message"
	"github.com/deynapp/collections-backend/internal/query"
	"github.com/deynapp/collections-backend/internal/status"
)

type customerRepo interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.Customer, error)
	GetByID(ctx context.Context, ownerID uuid.UUID, id string) (*domain.Customer, error)
	Save(ctx context.Context, c *domain.Customer) error
}

type activityRepo interface {
	Append(ctx context.Context, a *domain.Activity) error
}

// Collection is the workflow engine behind the agent app: it applies status
// transitions optimistically to an in-memory copy, persists the result, and
// appends a best-effort activity entry. It never retries or rolls back; on
// a persistence failure the handler surfaces the error and the stored
// record is untouched.
type Collection struct {
	customers  customerRepo
	activities activityRepo
	machine    *status.Machine
	composer   *message.Composer
	aggregator *query.Aggregator
}

func NewCollection(
	customers customerRepo,
	activities activityRepo,
	machine *status.Machine,
	composer *message.Composer,
	aggregator *query.Aggregator,
) *Collection {
	return &Collection{
		customers:  customers,
		activities: activities,
		machine:    machine,
		composer:   composer,
		aggregator: aggregator,
	}
}

func (s *Collection) Query(ctx context.Context, sess auth.Session, p query.Params) (query.Result, error) {
	customers, err := s.customers.List(ctx, sess.AgentID)
	if err != nil {
		return query.Result{}, fmt.Errorf("Query: %w", err)
	}
	return s.aggregator.Query(customers, p), nil
}

func (s *Collection) GetCustomer(ctx context.Context, sess auth.Session, id string) (*domain.Customer, error) {
	c, err := s.customers.GetByID(ctx, sess.AgentID, id)
	if err != nil {
		return nil, fmt.Errorf("GetCustomer: %w", err)
	}
	return c, nil
}

// PromiseToPay schedules a balan appointment.
func (s *Collection) PromiseToPay(ctx context.Context, sess auth.Session, id, date, note string) (*domain.Customer, error) {
	return s.transition(ctx, sess, id, func(c domain.Customer) (domain.Customer, domain.Activity, error) {
		return s.machine.ToBalan(c, date, note)
	})
}

// RequestDiscount records a partial payment with the remainder requested as
// a write-off.
func (s *Collection) RequestDiscount(ctx context.Context, sess auth.Session, id string, paidAmount decimal.Decimal) (*domain.Customer, error) {
	return s.transition(ctx, sess, id, func(c domain.Customer) (domain.Customer, domain.Activity, error) {
		return s.machine.ToDiscount(c, paidAmount)
	})
}

func (s *Collection) MarkPaid(ctx context.Context, sess auth.Session, id string) (*domain.Customer, error) {
	return s.transition(ctx, sess, id, s.machine.ToPaid)
}

func (s *Collection) Reset(ctx context.Context, sess auth.Session, id string) (*domain.Customer, error) {
	return s.transition(ctx, sess, id, s.machine.ToNormal)
}

// ReminderDraft is everything the app needs to put a reminder in front of
// the agent: the composed text plus ready-made deep links. Opening a link
// is the phone's job, not this engine's.
type ReminderDraft struct {
	CustomerID   string `json:"customer_id"`
	Rule         string `json:"rule"`
	Message      string `json:"message"`
	Phone        string `json:"phone"`
	WhatsAppLink string `json:"whatsapp_link"`
	SMSLink      string `json:"sms_link"`
}

func (s *Collection) Reminder(ctx context.Context, sess auth.Session, id string) (*ReminderDraft, error) {
	c, err := s.customers.GetByID(ctx, sess.AgentID, id)
	if err != nil {
		return nil, fmt.Errorf("Reminder: %w", err)
	}
	return s.draft(*c), nil
}

// RecordSend logs one outbound reminder on a given channel ("whatsapp" or
// "sms") and returns the draft that was sent.
func (s *Collection) RecordSend(ctx context.Context, sess auth.Session, id, channel string) (*ReminderDraft, error) {
	c, err := s.customers.GetByID(ctx, sess.AgentID, id)
	if err != nil {
		return nil, fmt.Errorf("RecordSend: %w", err)
	}

	d := s.draft(*c)
	s.logActivity(ctx, sess, domain.Activity{
		CustomerID: c.ID,
		Type:       domain.ActivityMessageSent,
		Detail:     fmt.Sprintf("rule=%s channel=%s", d.Rule, channel),
	})
	return d, nil
}

// RecordCall logs a call attempt and bumps the per-customer call counter.
func (s *Collection) RecordCall(ctx context.Context, sess auth.Session, id string) (*domain.Customer, error) {
	c, err := s.customers.GetByID(ctx, sess.AgentID, id)
	if err != nil {
		return nil, fmt.Errorf("RecordCall: %w", err)
	}

	c.CallCount++
	if err := s.customers.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("RecordCall: %w", err)
	}

	s.logActivity(ctx, sess, domain.Activity{
		CustomerID: c.ID,
		Type:       domain.ActivityCall,
		Detail:     fmt.Sprintf("call attempt %d", c.CallCount),
	})
	return c, nil
}

func (s *Collection) draft(c domain.Customer) *ReminderDraft {
	text := s.composer.Compose(c)
	return &ReminderDraft{
		CustomerID:   c.ID,
		Rule:         s.composer.MatchedRule(c),
		Message:      text,
		Phone:        dispatch.PrimaryPhone(c.Phone),
		WhatsAppLink: dispatch.WhatsAppLink(c.Phone, text),
		SMSLink:      dispatch.SMSLink(c.Phone, text),
	}
}

func (s *Collection) transition(
	ctx context.Context,
	sess auth.Session,
	id string,
	fn func(domain.Customer) (domain.Customer, domain.Activity, error),
) (*domain.Customer, error) {
	current, err := s.customers.GetByID(ctx, sess.AgentID, id)
	if err != nil {
		return nil, fmt.Errorf("transition: %w", err)
	}

	next, act, err := fn(*current)
	if err != nil {
		return nil, fmt.Errorf("transition: %w", err)
	}

	// A zero activity means the machine decided nothing changed
	// (re-marking a paid account); skip the write entirely.
	if act.IsZero() {
		return &next, nil
	}

	if err := s.customers.Save(ctx, &next); err != nil {
		return nil, fmt.Errorf("transition: %w", err)
	}

	s.logActivity(ctx, sess, act)
	return &next, nil
}

// logActivity appends best-effort: a dead activity table must never block a
// collection action in the field.
func (s *Collection) logActivity(ctx context.Context, sess auth.Session, act domain.Activity) {
	act.ID = uuid.New()
	act.ActorID = sess.AgentID
	if act.CreatedAt.IsZero() {
		act.CreatedAt = time.Now().UTC()
	}
	if err := s.activities.Append(ctx, &act); err != nil {
		logging.FromContext(ctx).Error("activity append failed",
			"error", err,
			"customer_id", act.CustomerID,
			"type", act.Type,
		)
	}
}
