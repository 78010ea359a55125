package queries

import (
	"context"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAuditTrailQueryHandler retrieves an order's audit ledger from the
// database, newest first.
type GetAuditTrailQueryHandler struct {
	db *gorm.DB
}

// NewGetAuditTrailQueryHandler creates a handler for audit trail queries.
// Requires a GORM database connection for query execution.
func NewGetAuditTrailQueryHandler(db *gorm.DB) GetAuditTrailQueryHandler {
	return GetAuditTrailQueryHandler{db: db}
}

// Handle executes the query. An order with no recorded changes yields an
// empty slice, not an error.
func (h GetAuditTrailQueryHandler) Handle(
	ctx context.Context,
	query GetAuditTrailQuery,
) ([]GetAuditTrailQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	limit := query.Limit()
	if limit <= 0 || limit > serviceorder.AuditLogCap {
		limit = serviceorder.AuditLogCap
	}

	entries := make([]GetAuditTrailQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			at,
			by_user_id,
			field,
			part,
			old_value,
			new_value
		FROM audit_entries
		WHERE tenant_id = ? AND order_id = ?
		ORDER BY seq DESC
		LIMIT ?
	`, query.TenantID().Bytes(), query.OrderID().Bytes(), limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetAuditTrailQueryResponse
		var byUserID uuid.UUID

		err = rows.Scan(
			&resp.At,
			&byUserID,
			&resp.Field,
			&resp.Part,
			&resp.From,
			&resp.To,
		)
		if err != nil {
			return nil, err
		}

		if resp.ByUserID, err = kernel.UUIDFromBytes(byUserID[:]); err != nil {
			return nil, err
		}

		entries = append(entries, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
