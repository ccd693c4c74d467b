package scanner

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/muurk/adbscan/internal/logging"
	"github.com/muurk/adbscan/internal/protocol"
)

// Prober is the connection capability a probe worker needs: a timed
// transport connect and a timed handshake. The scanner injects a
// NetProber by default; tests substitute fakes.
type Prober interface {
	// Dial opens a transport connection to addr, bounded by the
	// prober's connect timeout.
	Dial(ctx context.Context, addr netip.AddrPort) (net.Conn, error)

	// Handshake performs one probe exchange on an open connection and
	// returns the endpoint's identity. The prober's handshake timeout
	// bounds the whole exchange.
	Handshake(conn net.Conn) (*protocol.Identity, error)
}

// NetProber is the concrete Prober backed by the platform networking
// stack and the ADB wire format.
type NetProber struct {
	ConnectTimeout   time.Duration
	HandshakeTimeout time.Duration
}

// NewNetProber builds a NetProber with the timeouts from cfg.
func NewNetProber(cfg Config) *NetProber {
	return &NetProber{
		ConnectTimeout:   cfg.TCPTimeout,
		HandshakeTimeout: cfg.HandshakeTimeout,
	}
}

// Dial opens a TCP connection to addr within ConnectTimeout. The scan
// context gates dispatch only: a connect already in flight when the
// scan is cancelled runs to its own timeout and reports its real
// outcome, so the dial is deliberately detached from ctx.
func (p *NetProber) Dial(ctx context.Context, addr netip.AddrPort) (net.Conn, error) {
	d := net.Dialer{Timeout: p.ConnectTimeout}
	conn, err := d.DialContext(context.WithoutCancel(ctx), "tcp", addr.String())
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Handshake sends a CNXN probe and reads one reply. Any write error,
// read error, malformed reply or timeout fails the handshake.
func (p *NetProber) Handshake(conn net.Conn) (*protocol.Identity, error) {
	if err := conn.SetDeadline(time.Now().Add(p.HandshakeTimeout)); err != nil {
		return nil, fmt.Errorf("set handshake deadline: %w", err)
	}

	if err := protocol.WriteMessage(conn, protocol.NewConnect()); err != nil {
		return nil, err
	}

	reply, err := protocol.ReadMessage(conn)
	if err != nil {
		return nil, err
	}
	logging.LogRawBytes("handshake reply", reply.Payload)

	return protocol.IdentityFromMessage(reply)
}
