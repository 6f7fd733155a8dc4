package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/deynapp/collections-backend/internal/auth"
	"github.com/deynapp/collections-backend/internal/domain"
	"github.com/deynapp/collections-backend/internal/logging"
	"github.com/deynapp/collections-backend/internal/query"
	"github.com/deynapp/collections-backend/internal/service"
)

type collectionService interface {
	Query(ctx context.Context, sess auth.Session, p query.Params) (query.Result, error)
	GetCustomer(ctx context.Context, sess auth.Session, id string) (*domain.Customer, error)
	PromiseToPay(ctx context.Context, sess auth.Session, id, date, note string) (*domain.Customer, error)
	RequestDiscount(ctx context.Context, sess auth.Session, id string, paidAmount decimal.Decimal) (*domain.Customer, error)
	MarkPaid(ctx context.Context, sess auth.Session, id string) (*domain.Customer, error)
	Reset(ctx context.Context, sess auth.Session, id string) (*domain.Customer, error)
	Reminder(ctx context.Context, sess auth.Session, id string) (*service.ReminderDraft, error)
	RecordSend(ctx context.Context, sess auth.Session, id, channel string) (*service.ReminderDraft, error)
	RecordCall(ctx context.Context, sess auth.Session, id string) (*domain.Customer, error)
}

type CustomerHandler struct {
	collection collectionService
}

func NewCustomerHandler(collection collectionService) *CustomerHandler {
	return &CustomerHandler{collection: collection}
}

type customerDTO struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Phone           string           `json:"phone"`
	Balance         decimal.Decimal  `json:"balance"`
	PrevBalance     decimal.Decimal  `json:"prev_balance"`
	Status          string           `json:"status"`
	Note            string           `json:"note"`
	AppointmentDate string           `json:"appointment_date,omitempty"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount,omitempty"`
	PaidAmount      *decimal.Decimal `json:"paid_amount,omitempty"`
	PaidDate        *time.Time       `json:"paid_date,omitempty"`
	IsFavorite      bool             `json:"is_favorite"`
	CallCount       int              `json:"call_count"`
	Location        *string          `json:"location,omitempty"`
}

func toCustomerDTO(c *domain.Customer) customerDTO {
	dto := customerDTO{
		ID:              c.ID,
		Name:            c.Name,
		Phone:           c.Phone,
		Balance:         c.Balance,
		PrevBalance:     c.PrevBalance,
		Status:          string(c.Status),
		Note:            c.Note,
		AppointmentDate: c.AppointmentDate,
		PaidDate:        c.PaidDate,
		IsFavorite:      c.IsFavorite,
		CallCount:       c.CallCount,
		Location:        c.Location,
	}
	if c.DiscountAmount.Valid {
		d := c.DiscountAmount.Decimal
		dto.DiscountAmount = &d
	}
	if c.PaidAmount.Valid {
		p := c.PaidAmount.Decimal
		dto.PaidAmount = &p
	}
	return dto
}

type queryResponse struct {
	Visible []customerDTO  `json:"visible"`
	Counts  query.Counts   `json:"counts"`
	Summary *query.Summary `json:"summary,omitempty"`
}

// List runs the tab/filter/search/sort engine over the agent's book.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	q := r.URL.Query()
	params := query.Params{
		Tab:    query.Tab(q.Get("tab")),
		Filter: query.FilterType(q.Get("filter")),
		Letter: q.Get("letter"),
		Search: q.Get("q"),
		Sort:   query.SortOrder(q.Get("sort")),
	}

	result, err := h.collection.Query(r.Context(), sess, params)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to query customers", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]customerDTO, len(result.Visible))
	for i := range result.Visible {
		dtos[i] = toCustomerDTO(&result.Visible[i])
	}

	RespondSuccess(w, http.StatusOK, queryResponse{
		Visible: dtos,
		Counts:  result.Counts,
		Summary: result.Summary,
	})
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	c, err := h.collection.GetCustomer(r.Context(), sess, r.PathValue("id"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toCustomerDTO(c))
}

type balanRequest struct {
	Date string `json:"date"`
	Note string `json:"note"`
}

func (r balanRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Date == "" {
		errs = append(errs, FieldError{Field: "date", Message: "required"})
	}
	return errs
}

func (h *CustomerHandler) Balan(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req balanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	note := req.Note
	if note == "" {
		note = domain.NoteBalan
	}

	c, err := h.collection.PromiseToPay(r.Context(), sess, r.PathValue("id"), req.Date, note)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to set balan", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toCustomerDTO(c))
}

type discountRequest struct {
	PaidAmount decimal.Decimal `json:"paid_amount"`
}

func (h *CustomerHandler) Discount(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req discountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	c, err := h.collection.RequestDiscount(r.Context(), sess, r.PathValue("id"), req.PaidAmount)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to set discount", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toCustomerDTO(c))
}

func (h *CustomerHandler) Paid(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	c, err := h.collection.MarkPaid(r.Context(), sess, r.PathValue("id"))
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to mark paid", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toCustomerDTO(c))
}

func (h *CustomerHandler) Normal(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	c, err := h.collection.Reset(r.Context(), sess, r.PathValue("id"))
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to reset status", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toCustomerDTO(c))
}

func (h *CustomerHandler) Reminder(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	draft, err := h.collection.Reminder(r.Context(), sess, r.PathValue("id"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, draft)
}

type sendRequest struct {
	Channel string `json:"channel"`
}

func (r sendRequest) Validate() []FieldError {
	var errs []FieldError
	switch r.Channel {
	case "whatsapp", "sms":
	default:
		errs = append(errs, FieldError{Field: "channel", Message: "must be whatsapp or sms"})
	}
	return errs
}

func (h *CustomerHandler) RecordSend(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	draft, err := h.collection.RecordSend(r.Context(), sess, r.PathValue("id"), req.Channel)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to record send", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, draft)
}

func (h *CustomerHandler) RecordCall(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	c, err := h.collection.RecordCall(r.Context(), sess, r.PathValue("id"))
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to record call", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toCustomerDTO(c))
}
