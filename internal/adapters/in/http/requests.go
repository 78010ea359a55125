package http

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// PatchField carries tri-state JSON patch semantics: an absent field keeps
// the current value, an explicit null clears it, a value replaces it.
type PatchField[T any] struct {
	present bool
	value   *T
}

// UnmarshalJSON records that the field was present; a JSON null leaves the
// value nil, which maps to a clear.
func (p *PatchField[T]) UnmarshalJSON(data []byte) error {
	p.present = true
	if string(data) == "null" {
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	p.value = &v
	return nil
}

// IsPresent reports whether the field appeared in the request body.
func (p PatchField[T]) IsPresent() bool {
	return p.present
}

// Value returns the field's value, or nil for an absent field or an
// explicit null.
func (p PatchField[T]) Value() *T {
	return p.value
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateStatusRequest is the body of POST /api/v1/orders/:orderId/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateTimestampsRequest is the body of
// PATCH /api/v1/orders/:orderId/timestamps. Each field is tri-state.
type UpdateTimestampsRequest struct {
	TakenAt            PatchField[time.Time] `json:"takenAt"`
	ArrivedAt          PatchField[time.Time] `json:"arrivedAt"`
	CheckInAt          PatchField[time.Time] `json:"checkInAt"`
	ActivityStartedAt  PatchField[time.Time] `json:"activityStartedAt"`
	ActivityFinishedAt PatchField[time.Time] `json:"activityFinishedAt"`
	DeliveredAt        PatchField[time.Time] `json:"deliveredAt"`
}

// ScheduleOrderRequest is the body of
// PATCH /api/v1/orders/:orderId/schedule. Each field is tri-state.
type ScheduleOrderRequest struct {
	DueDate      PatchField[time.Time] `json:"dueDate"`
	TechnicianID PatchField[string]    `json:"technicianId"`
	DurationMin  PatchField[int]       `json:"durationMin"`
}

// OrderResponse is the detail projection of one service order.
type OrderResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	DurationMin *int       `json:"durationMin,omitempty"`

	TechnicianID *string `json:"technicianId,omitempty"`
	SupervisorID *string `json:"supervisorId,omitempty"`

	Timestamps TimestampsResponse `json:"timestamps"`
}

// TimestampsResponse carries the six checkpoint timestamps; unset
// checkpoints are omitted.
type TimestampsResponse struct {
	TakenAt            *time.Time `json:"takenAt,omitempty"`
	ArrivedAt          *time.Time `json:"arrivedAt,omitempty"`
	CheckInAt          *time.Time `json:"checkInAt,omitempty"`
	ActivityStartedAt  *time.Time `json:"activityStartedAt,omitempty"`
	ActivityFinishedAt *time.Time `json:"activityFinishedAt,omitempty"`
	DeliveredAt        *time.Time `json:"deliveredAt,omitempty"`
}

// StatusChangeResponse reports the outcome of a status change request,
// including the soft-skip case where nothing changed.
type StatusChangeResponse struct {
	Status  string `json:"status"`
	Skipped bool   `json:"skipped,omitempty"`
	Message string `json:"message,omitempty"`
}

// SessionResponse is one work session.
type SessionResponse struct {
	ID         string     `json:"id"`
	OrderID    string     `json:"orderId"`
	OrderTitle string     `json:"orderTitle,omitempty"`
	UserID     string     `json:"userId"`
	StartedAt  time.Time  `json:"startedAt"`
	EndedAt    *time.Time `json:"endedAt,omitempty"`
	Source     string     `json:"source"`
}

// AuditEntryResponse is one recorded change on an order.
type AuditEntryResponse struct {
	At       time.Time `json:"at"`
	ByUserID string    `json:"byUserId"`
	Field    string    `json:"field"`
	Part     string    `json:"part,omitempty"`
	From     string    `json:"from,omitempty"`
	To       string    `json:"to,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`

	// Set only for open-session conflicts, naming the order that holds the
	// technician's open session.
	ConflictOrderID    string `json:"conflictOrderId,omitempty"`
	ConflictOrderTitle string `json:"conflictOrderTitle,omitempty"`
}

// RequestValidator adapts go-playground/validator to echo's Validator
// interface.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates the request validator used by the server.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}
	return nil
}
