package queries

import (
	"context"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/worklog"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOpenSessionsQueryHandler retrieves open work sessions from the
// database, joined with their order's title.
type GetOpenSessionsQueryHandler struct {
	db *gorm.DB
}

// NewGetOpenSessionsQueryHandler creates a handler for open session queries.
// Requires a GORM database connection for query execution.
func NewGetOpenSessionsQueryHandler(db *gorm.DB) GetOpenSessionsQueryHandler {
	return GetOpenSessionsQueryHandler{db: db}
}

// Handle executes the query. Results are sorted oldest first so the
// longest-running session leads the report.
func (h GetOpenSessionsQueryHandler) Handle(
	ctx context.Context,
	query GetOpenSessionsQuery,
) ([]GetOpenSessionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sessions := make([]GetOpenSessionsQueryResponse, 0)

	stmt := `
		SELECT
			w.id,
			w.service_order_id,
			o.title,
			w.user_id,
			w.started_at,
			w.source
		FROM work_logs w
		JOIN service_orders o ON o.id = w.service_order_id
		WHERE w.tenant_id = ? AND w.ended_at IS NULL
	`
	args := []any{query.TenantID().Bytes()}
	if orderID := query.OrderID(); orderID != nil {
		stmt += ` AND w.service_order_id = ?`
		args = append(args, orderID.Bytes())
	}
	stmt += ` ORDER BY w.started_at`

	rows, err := h.db.WithContext(ctx).Raw(stmt, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOpenSessionsQueryResponse
		var sessionID, orderID, userID uuid.UUID
		var source int

		err = rows.Scan(
			&sessionID,
			&orderID,
			&resp.OrderTitle,
			&userID,
			&resp.StartedAt,
			&source,
		)
		if err != nil {
			return nil, err
		}

		if resp.SessionID, err = kernel.UUIDFromBytes(sessionID[:]); err != nil {
			return nil, err
		}
		if resp.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		if resp.UserID, err = kernel.UUIDFromBytes(userID[:]); err != nil {
			return nil, err
		}
		resp.Source = worklog.Source(source).String()

		sessions = append(sessions, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
