// Package probe answers whether the process currently has general network
// reachability.
package probe

import (
	"context"
	"net"
	"time"

	"github.com/ZaguanLabs/salin"
)

const (
	// DefaultAddress is a well-known public DNS endpoint.
	DefaultAddress = "8.8.8.8:53"
	// DefaultTimeout bounds a single probe.
	DefaultTimeout = 3 * time.Second
)

// TCPProber reports online when a TCP connection to Address succeeds within
// Timeout. Results are never cached.
type TCPProber struct {
	Address string
	Timeout time.Duration

	dialer net.Dialer
}

// NewTCPProber creates a prober for address. Empty values take the defaults.
func NewTCPProber(address string, timeout time.Duration) *TCPProber {
	if address == "" {
		address = DefaultAddress
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TCPProber{Address: address, Timeout: timeout}
}

// IsOnline dials the probe address. Any error means offline.
func (p *TCPProber) IsOnline(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	conn, err := p.dialer.DialContext(ctx, "tcp", p.Address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Static always reports the same state. It backs forced modes such as
// --offline and --online.
type Static bool

// IsOnline returns the fixed state.
func (s Static) IsOnline(context.Context) bool {
	return bool(s)
}

// Func adapts a function to salin.Prober.
type Func = salin.ProberFunc

var (
	_ salin.Prober = (*TCPProber)(nil)
	_ salin.Prober = Static(false)
)
