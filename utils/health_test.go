package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealthMonitor_CheckNow(t *testing.T) {
	m := NewHealthMonitor(time.Minute)
	m.Register("docstore", func(context.Context) error { return nil })
	m.Register("redis", func(context.Context) error { return errors.New("connection refused") })

	status := m.CheckNow(context.Background())

	assert.True(t, status.Services["docstore"])
	assert.False(t, status.Services["redis"])
	assert.False(t, m.Healthy())
	assert.Equal(t, status, m.Status())
}

func TestHealthMonitor_AllHealthy(t *testing.T) {
	m := NewHealthMonitor(time.Minute)
	m.Register("docstore", func(context.Context) error { return nil })

	m.CheckNow(context.Background())
	assert.True(t, m.Healthy())
}
