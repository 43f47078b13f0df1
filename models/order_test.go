package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]string{
		"pending":       StatusPending,
		"bekliyor":      StatusPending,
		"PREPARING":     StatusPreparing,
		"hazırlanıyor":  StatusPreparing,
		"hazirlaniyor":  StatusPreparing,
		" hazir ":       StatusReady,
		"teslim_edildi": StatusDelivered,
		"iptal":         StatusCancelled,
	}
	for token, want := range cases {
		got, ok := NormalizeStatus(token)
		assert.True(t, ok, "token %q", token)
		assert.Equal(t, want, got, "token %q", token)
	}

	for _, token := range []string{"", "unknown", "teslim edildi", "cancelled!"} {
		_, ok := NormalizeStatus(token)
		assert.False(t, ok, "token %q", token)
	}
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(StatusDelivered))
	assert.True(t, IsTerminalStatus(StatusCancelled))
	assert.False(t, IsTerminalStatus(StatusPending))
	assert.False(t, IsTerminalStatus(StatusPreparing))
	assert.False(t, IsTerminalStatus(StatusReady))
}
