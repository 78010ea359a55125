// Package http exposes the order lifecycle over a JSON API. Actor identity
// arrives in headers (X-Tenant-ID, X-User-ID, X-User-Role) set by the
// gateway in front of this service; the server trusts them and translates
// domain errors to HTTP status codes.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/application/usecases/queries"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"
	"fieldservice/internal/core/domain/model/worklog"
	"fieldservice/internal/core/domain/services"
	"fieldservice/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrderHandler      commands.CreateOrderCommandHandler
	updateStatusHandler     commands.UpdateStatusCommandHandler
	updateTimestampsHandler commands.UpdateTimestampsCommandHandler
	scheduleOrderHandler    commands.ScheduleOrderCommandHandler
	startSessionHandler     commands.StartSessionCommandHandler
	stopSessionHandler      commands.StopSessionCommandHandler

	getOrderHandler        queries.GetOrderQueryHandler
	getOpenSessionsHandler queries.GetOpenSessionsQueryHandler
	getAuditTrailHandler   queries.GetAuditTrailQueryHandler
}

// NewServer creates a new HTTP server with the required command and query
// handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	updateStatusHandler commands.UpdateStatusCommandHandler,
	updateTimestampsHandler commands.UpdateTimestampsCommandHandler,
	scheduleOrderHandler commands.ScheduleOrderCommandHandler,
	startSessionHandler commands.StartSessionCommandHandler,
	stopSessionHandler commands.StopSessionCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getOpenSessionsHandler queries.GetOpenSessionsQueryHandler,
	getAuditTrailHandler queries.GetAuditTrailQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:      createOrderHandler,
		updateStatusHandler:     updateStatusHandler,
		updateTimestampsHandler: updateTimestampsHandler,
		scheduleOrderHandler:    scheduleOrderHandler,
		startSessionHandler:     startSessionHandler,
		stopSessionHandler:      stopSessionHandler,
		getOrderHandler:         getOrderHandler,
		getOpenSessionsHandler:  getOpenSessionsHandler,
		getAuditTrailHandler:    getAuditTrailHandler,
	}
}

// RegisterRoutes binds all lifecycle endpoints on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewRequestValidator()

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:orderId", s.GetOrder)
	api.POST("/orders/:orderId/status", s.UpdateStatus)
	api.PATCH("/orders/:orderId/timestamps", s.UpdateTimestamps)
	api.PATCH("/orders/:orderId/schedule", s.ScheduleOrder)
	api.POST("/orders/:orderId/sessions", s.StartSession)
	api.POST("/orders/:orderId/sessions/:sessionId/stop", s.StopSession)
	api.GET("/orders/:orderId/sessions", s.GetOrderSessions)
	api.GET("/orders/:orderId/audit", s.GetAuditTrail)
	api.GET("/sessions/open", s.GetOpenSessions)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var req CreateOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	if err = ctx.Validate(&req); err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), actor, req.Title, req.Description)
	if err != nil {
		return writeError(ctx, err)
	}

	order, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, orderResponseFromAggregate(order))
}

// GetOrder handles GET /api/v1/orders/:orderId.
func (s *Server) GetOrder(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(actor.TenantID(), orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	resp, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderResponseFromProjection(resp))
}

// UpdateStatus handles POST /api/v1/orders/:orderId/status.
func (s *Server) UpdateStatus(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return writeError(ctx, err)
	}

	var req UpdateStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	if err = ctx.Validate(&req); err != nil {
		return err
	}

	requested, err := serviceorder.StatusFromString(req.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewUpdateStatusCommand(orderID, actor, requested)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.updateStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	if result.SoftSkipped {
		return ctx.JSON(http.StatusOK, StatusChangeResponse{
			Status:  result.Order.Status().String(),
			Skipped: true,
			Message: result.Message,
		})
	}

	return ctx.JSON(http.StatusOK, StatusChangeResponse{Status: result.Order.Status().String()})
}

// UpdateTimestamps handles PATCH /api/v1/orders/:orderId/timestamps.
func (s *Server) UpdateTimestamps(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return writeError(ctx, err)
	}

	var req UpdateTimestampsRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	patch := serviceorder.TimestampsPatch{
		TakenAt:            toTimePatch(req.TakenAt),
		ArrivedAt:          toTimePatch(req.ArrivedAt),
		CheckInAt:          toTimePatch(req.CheckInAt),
		ActivityStartedAt:  toTimePatch(req.ActivityStartedAt),
		ActivityFinishedAt: toTimePatch(req.ActivityFinishedAt),
		DeliveredAt:        toTimePatch(req.DeliveredAt),
	}

	cmd, err := commands.NewUpdateTimestampsCommand(orderID, actor, patch)
	if err != nil {
		return writeError(ctx, err)
	}

	order, err := s.updateTimestampsHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderResponseFromAggregate(order))
}

// ScheduleOrder handles PATCH /api/v1/orders/:orderId/schedule.
func (s *Server) ScheduleOrder(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return writeError(ctx, err)
	}

	var req ScheduleOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	technicianPatch, err := toUUIDPatch(req.TechnicianID)
	if err != nil {
		return writeError(ctx, err)
	}

	patch := services.SchedulePatch{
		DueDate:      toTimePatch(req.DueDate),
		TechnicianID: technicianPatch,
		DurationMin:  toIntPatch(req.DurationMin),
	}

	cmd, err := commands.NewScheduleOrderCommand(orderID, actor, patch)
	if err != nil {
		return writeError(ctx, err)
	}

	order, err := s.scheduleOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderResponseFromAggregate(order))
}

// StartSession handles POST /api/v1/orders/:orderId/sessions.
func (s *Server) StartSession(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewStartSessionCommand(orderID, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	session, err := s.startSessionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, sessionResponseFromEntity(session))
}

// StopSession handles POST /api/v1/orders/:orderId/sessions/:sessionId/stop.
func (s *Server) StopSession(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return writeError(ctx, err)
	}
	sessionID, err := pathUUID(ctx, "sessionId")
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewStopSessionCommand(orderID, sessionID, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	session, err := s.stopSessionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, sessionResponseFromEntity(session))
}

// GetOrderSessions handles GET /api/v1/orders/:orderId/sessions.
func (s *Server) GetOrderSessions(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetOpenSessionsForOrderQuery(actor.TenantID(), orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	return s.respondOpenSessions(ctx, query)
}

// GetOpenSessions handles GET /api/v1/sessions/open.
func (s *Server) GetOpenSessions(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetOpenSessionsQuery(actor.TenantID())
	if err != nil {
		return writeError(ctx, err)
	}

	return s.respondOpenSessions(ctx, query)
}

func (s *Server) respondOpenSessions(ctx echo.Context, query queries.GetOpenSessionsQuery) error {
	sessions, err := s.getOpenSessionsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		response = append(response, SessionResponse{
			ID:         session.SessionID.String(),
			OrderID:    session.OrderID.String(),
			OrderTitle: session.OrderTitle,
			UserID:     session.UserID.String(),
			StartedAt:  session.StartedAt,
			Source:     session.Source,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetAuditTrail handles GET /api/v1/orders/:orderId/audit.
func (s *Server) GetAuditTrail(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return writeError(ctx, err)
	}

	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return badRequest(ctx, "limit must be an integer")
		}
	}

	query, err := queries.NewGetAuditTrailQuery(actor.TenantID(), orderID, limit)
	if err != nil {
		return writeError(ctx, err)
	}

	entries, err := s.getAuditTrailHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, AuditEntryResponse{
			At:       entry.At,
			ByUserID: entry.ByUserID.String(),
			Field:    entry.Field,
			Part:     entry.Part,
			From:     entry.From,
			To:       entry.To,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

func actorFromHeaders(ctx echo.Context) (kernel.ActorContext, error) {
	tenantID, err := kernel.UUIDFromString(ctx.Request().Header.Get("X-Tenant-ID"))
	if err != nil {
		return kernel.ActorContext{}, errs.NewValueIsRequiredError("X-Tenant-ID header")
	}
	userID, err := kernel.UUIDFromString(ctx.Request().Header.Get("X-User-ID"))
	if err != nil {
		return kernel.ActorContext{}, errs.NewValueIsRequiredError("X-User-ID header")
	}
	role, err := kernel.RoleFromString(ctx.Request().Header.Get("X-User-Role"))
	if err != nil {
		return kernel.ActorContext{}, err
	}

	return kernel.NewActorContext(tenantID, userID, role)
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(ctx.Param(name))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func toTimePatch(f PatchField[time.Time]) kernel.Patch[time.Time] {
	if !f.IsPresent() {
		return kernel.Keep[time.Time]()
	}
	if f.Value() == nil {
		return kernel.Clear[time.Time]()
	}
	return kernel.Set(*f.Value())
}

func toIntPatch(f PatchField[int]) kernel.Patch[int] {
	if !f.IsPresent() {
		return kernel.Keep[int]()
	}
	if f.Value() == nil {
		return kernel.Clear[int]()
	}
	return kernel.Set(*f.Value())
}

func toUUIDPatch(f PatchField[string]) (kernel.Patch[kernel.UUID], error) {
	if !f.IsPresent() {
		return kernel.Keep[kernel.UUID](), nil
	}
	if f.Value() == nil {
		return kernel.Clear[kernel.UUID](), nil
	}
	id, err := kernel.UUIDFromString(*f.Value())
	if err != nil {
		return kernel.Patch[kernel.UUID]{}, errs.NewValueIsInvalidErrorWithCause("technicianId", err)
	}
	return kernel.Set(id), nil
}

func orderResponseFromAggregate(order *serviceorder.ServiceOrder) OrderResponse {
	ts := order.Timestamps()

	resp := OrderResponse{
		ID:          order.ID().String(),
		Title:       order.Title(),
		Description: order.Description(),
		Status:      order.Status().String(),
		DueDate:     order.DueDate(),
		DurationMin: order.DurationMin(),
		Timestamps: TimestampsResponse{
			TakenAt:            ts.TakenAt(),
			ArrivedAt:          ts.ArrivedAt(),
			CheckInAt:          ts.CheckInAt(),
			ActivityStartedAt:  ts.ActivityStartedAt(),
			ActivityFinishedAt: ts.ActivityFinishedAt(),
			DeliveredAt:        ts.DeliveredAt(),
		},
	}

	if techID := order.ActiveTechnician(); techID != nil {
		v := techID.String()
		resp.TechnicianID = &v
	}
	if supervisorID := order.ActiveSupervisor(); supervisorID != nil {
		v := supervisorID.String()
		resp.SupervisorID = &v
	}

	return resp
}

func orderResponseFromProjection(p queries.GetOrderQueryResponse) OrderResponse {
	resp := OrderResponse{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		DueDate:     p.DueDate,
		DurationMin: p.DurationMin,
		Timestamps: TimestampsResponse{
			TakenAt:            p.TakenAt,
			ArrivedAt:          p.ArrivedAt,
			CheckInAt:          p.CheckInAt,
			ActivityStartedAt:  p.ActivityStartedAt,
			ActivityFinishedAt: p.ActivityFinishedAt,
			DeliveredAt:        p.DeliveredAt,
		},
	}

	if p.TechnicianID != nil {
		v := p.TechnicianID.String()
		resp.TechnicianID = &v
	}
	if p.SupervisorID != nil {
		v := p.SupervisorID.String()
		resp.SupervisorID = &v
	}

	return resp
}

func sessionResponseFromEntity(session *worklog.WorkLog) SessionResponse {
	return SessionResponse{
		ID:        session.ID().String(),
		OrderID:   session.ServiceOrderID().String(),
		UserID:    session.UserID().String(),
		StartedAt: session.StartedAt(),
		EndedAt:   session.EndedAt(),
		Source:    session.Source().String(),
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError translates domain errors to HTTP status codes. Unclassified
// errors surface as 500 without leaking internals.
func writeError(ctx echo.Context, err error) error {
	var conflictErr *errs.OpenSessionConflictError
	if errors.As(err, &conflictErr) {
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:               http.StatusConflict,
			Message:            conflictErr.Error(),
			ConflictOrderID:    conflictErr.OrderID,
			ConflictOrderTitle: conflictErr.OrderTitle,
		})
	}

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code: http.StatusNotFound, Message: err.Error(),
		})
	case errors.Is(err, errs.ErrPermissionDenied):
		return ctx.JSON(http.StatusForbidden, ErrorResponse{
			Code: http.StatusForbidden, Message: err.Error(),
		})
	case errors.Is(err, errs.ErrConflict):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code: http.StatusConflict, Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code: http.StatusBadRequest, Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code: http.StatusInternalServerError, Message: "internal error",
		})
	}
}
