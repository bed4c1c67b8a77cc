package resolver

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

func TestIsBlockedAddr(t *testing.T) {
	tests := []struct {
		addr    string
		blocked bool
	}{
		{"127.0.0.1", true},
		{"::1", true},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.1.10", true},
		{"169.254.169.254", true},
		{"100.64.0.1", true},
		{"0.0.0.0", true},
		{"224.0.0.1", true},
		{"fe80::1", true},
		{"fc00::1", true},
		{"::ffff:127.0.0.1", true},
		{"93.184.216.34", false},
		{"2606:4700:4700::1111", false},
		{"100.128.0.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.blocked, isBlockedAddr(netip.MustParseAddr(tt.addr)))
		})
	}
}

func TestGuardControl(t *testing.T) {
	assert.ErrorIs(t, guardControl("tcp4", "127.0.0.1:80", nil), domain.ErrBlockedTarget)
	assert.ErrorIs(t, guardControl("tcp4", "garbage", nil), domain.ErrBlockedTarget)
	assert.NoError(t, guardControl("tcp4", "93.184.216.34:443", nil))
}

func TestNewGuardedTransportIgnoresProxy(t *testing.T) {
	tr := NewGuardedTransport(false)
	assert.Nil(t, tr.Proxy)
}
