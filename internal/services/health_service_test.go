package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabiq/internal/operations"
	"tabiq/pkg/contracts"
)

func TestHealthServiceCheck(t *testing.T) {
	manager := operations.NewManager()
	svc := NewHealthService(manager, nil, nil)

	status := svc.Check(context.Background())
	require.NotNil(t, status)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, contracts.Version, status.Version)
	assert.Equal(t, "ok", status.Checks["operations"])
	assert.Equal(t, "disabled", status.Checks["websocket"])
	assert.Positive(t, status.Runtime.Goroutines)
}

func TestHealthServiceCheckNoManager(t *testing.T) {
	svc := NewHealthService(nil, nil, nil)

	status := svc.Check(context.Background())
	assert.Equal(t, "disabled", status.Checks["operations"])
	assert.Equal(t, 0, status.Runtime.ActiveRuns)
}

func TestHealthServiceUptime(t *testing.T) {
	svc := NewHealthService(nil, nil, nil)
	assert.GreaterOrEqual(t, svc.Uptime().Nanoseconds(), int64(0))
}
