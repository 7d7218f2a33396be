// Package netprobe answers whether the network a remote speech provider
// needs is reachable.
package netprobe

import (
	"context"
	"net"
	"time"

	"golang.org/x/net/proxy"

	"github.com/kbukum/sttkit/logger"
)

// Default target and timeout of the reachability check.
const (
	DefaultAddress = "www.google.com:80"
	DefaultTimeout = 2 * time.Second
)

// Probe reports whether a capability is currently available.
type Probe interface {
	Available(ctx context.Context) bool
}

// Func adapts a function to Probe.
type Func func(ctx context.Context) bool

// Available calls f.
func (f Func) Available(ctx context.Context) bool { return f(ctx) }

// Static returns a probe with a fixed answer.
func Static(available bool) Probe {
	return Func(func(context.Context) bool { return available })
}

// DialProbe opens a TCP connection to Address, through the proxy named by
// ALL_PROXY when set, and reports whether it succeeded within Timeout.
type DialProbe struct {
	Address string
	Timeout time.Duration
	// Forward is the dialer used for direct connections. Nil uses net.Dialer.
	Forward proxy.Dialer
	Logger  *logger.Logger
}

// NewDialProbe returns a probe for the default address and timeout.
func NewDialProbe(log *logger.Logger) *DialProbe {
	return &DialProbe{Address: DefaultAddress, Timeout: DefaultTimeout, Logger: log}
}

// Available dials the target. The connection is closed immediately.
func (p *DialProbe) Available(ctx context.Context) bool {
	addr := p.Address
	if addr == "" {
		addr = DefaultAddress
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	forward := p.Forward
	if forward == nil {
		forward = &net.Dialer{Timeout: timeout}
	}
	dialer := proxy.FromEnvironmentUsing(forward)

	var (
		conn net.Conn
		err  error
	)
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		conn, err = cd.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		if p.Logger != nil {
			p.Logger.Debug("network probe failed", logger.Fields("address", addr, logger.FieldError, err.Error()))
		}
		return false
	}
	_ = conn.Close()
	return true
}
