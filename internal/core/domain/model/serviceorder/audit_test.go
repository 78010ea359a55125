package serviceorder_test

import (
	"strings"
	"testing"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"

	"github.com/stretchr/testify/assert"
)

func TestNewAuditEntry(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	byUser := kernel.NewUUID()

	entry := serviceorder.NewAuditEntry(now, byUser, "timestamps", "arrivedAt", "", "2025-03-01T10:00:00Z")

	assert.Equal(t, now, entry.At)
	assert.True(t, entry.ByUserID.IsEqual(byUser))
	assert.Equal(t, "timestamps", entry.Field)
	assert.Equal(t, "arrivedAt", entry.Part)
	assert.Empty(t, entry.From)
	assert.Equal(t, "2025-03-01T10:00:00Z", entry.To)
}

func TestTruncateAuditValue(t *testing.T) {
	t.Run("short_values_unchanged", func(t *testing.T) {
		assert.Equal(t, "OPEN", serviceorder.TruncateAuditValue("OPEN"))
		assert.Empty(t, serviceorder.TruncateAuditValue(""))
	})

	t.Run("long_values_truncated_with_ellipsis", func(t *testing.T) {
		long := strings.Repeat("x", 500)
		got := serviceorder.TruncateAuditValue(long)

		assert.Len(t, []rune(got), 121)
		assert.True(t, strings.HasSuffix(got, "…"))
	})

	t.Run("truncation_applied_by_constructor", func(t *testing.T) {
		long := strings.Repeat("y", 500)
		entry := serviceorder.NewAuditEntry(time.Now(), kernel.NewUUID(), "description", "", long, long)

		assert.True(t, strings.HasSuffix(entry.From, "…"))
		assert.True(t, strings.HasSuffix(entry.To, "…"))
	})
}
