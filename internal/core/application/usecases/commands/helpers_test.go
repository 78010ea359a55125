package commands_test

import (
	"testing"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/serviceorder"

	"github.com/stretchr/testify/require"
)

func newTestActor(t *testing.T, tenantID kernel.UUID, userID kernel.UUID, role kernel.Role) kernel.ActorContext {
	t.Helper()
	actor, err := kernel.NewActorContext(tenantID, userID, role)
	require.NoError(t, err)
	return actor
}

func newTenantOrder(t *testing.T, tenantID kernel.UUID) *serviceorder.ServiceOrder {
	t.Helper()
	order, err := serviceorder.NewServiceOrder(kernel.NewUUID(), tenantID, "Chiller repair")
	require.NoError(t, err)
	return order
}
