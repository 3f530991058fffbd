package mdns

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTXTRecords(t *testing.T) {
	records := txtRecords(Advertisement{Name: "Book Club", Port: 3000})

	assert.Equal(t, []string{
		"name=Book Club",
		"version=" + ServerVersion,
		"api=v1",
		"path=/api",
	}, records)
}

func TestServiceStop(t *testing.T) {
	t.Run("stop when not started is safe", func(t *testing.T) {
		service := NewService(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

		service.Stop()
		service.Stop()
		assert.False(t, service.Running())
	})
}

func TestServiceLifecycle(t *testing.T) {
	// Multicast is unavailable in many CI and container environments.
	var buf bytes.Buffer
	service := NewService(slog.New(slog.NewTextHandler(&buf, nil)))

	if err := service.Start(Advertisement{Name: "Lifecycle Test", Port: 3000}); err != nil {
		t.Skipf("mDNS not available: %v", err)
	}
	assert.True(t, service.Running())
	assert.Contains(t, buf.String(), "mDNS advertisement started")

	// Restart replaces the running server.
	require.NoError(t, service.Start(Advertisement{Port: 3001}))
	assert.True(t, service.Running())

	service.Stop()
	assert.False(t, service.Running())
	assert.Contains(t, buf.String(), "mDNS advertisement stopped")
}
