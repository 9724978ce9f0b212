package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compal/cloudxr-go/internal/bindings"
	"github.com/compal/cloudxr-go/pkg/cloudxr"
)

func TestServeSimulatedDisabled(t *testing.T) {
	assert.NoError(t, serveSimulated(cloudxr.DefaultConfig()))
}

func TestServeSimulated(t *testing.T) {
	t.Setenv("CLOUDXR_LOG_LEVEL", "error")
	cfg := cloudxr.DefaultConfig()
	cfg.Simulate = true

	err := serveSimulated(cfg)
	if errors.Is(err, bindings.ErrNotBuilt) {
		t.Skip("native bindings not built")
	}
	require.NoError(t, err)
	assert.ErrorIs(t, serveSimulated(cfg), bindings.ErrAlreadyInstalled)
}
