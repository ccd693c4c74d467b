package scanner

import (
	"context"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/muurk/adbscan/internal/protocol"
)

// startEndpoint starts a loopback listener that answers each probe
// with the given handler. It returns the address to probe.
func startEndpoint(t *testing.T, handler func(net.Conn)) netip.AddrPort {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				handler(c)
			}(conn)
		}
	}()

	return netip.MustParseAddrPort(ln.Addr().String())
}

// adbEndpoint answers a connect probe like an adb daemon would.
func adbEndpoint(banner string) func(net.Conn) {
	return func(c net.Conn) {
		if _, err := protocol.ReadMessage(c); err != nil {
			return
		}
		reply := &protocol.Message{
			Command: protocol.CmdConnect,
			Arg0:    protocol.Version,
			Arg1:    protocol.MaxPayload,
			Payload: []byte(banner),
		}
		_ = protocol.WriteMessage(c, reply)
	}
}

func proberConfig() Config {
	cfg := DefaultConfig()
	cfg.TCPTimeout = 250 * time.Millisecond
	cfg.HandshakeTimeout = 250 * time.Millisecond
	return cfg
}

func TestNetProber_ReachableEndpoint(t *testing.T) {
	addr := startEndpoint(t, adbEndpoint("device::ro.product.model=IP2300;ro.product.device=IP2300"))
	prober := NewNetProber(proberConfig())

	conn, err := prober.Dial(context.Background(), addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	id, err := prober.Handshake(conn)
	if err != nil {
		t.Fatalf("Handshake() error = %v", err)
	}
	if id.Model != "IP2300" {
		t.Errorf("identity model = %q, want IP2300", id.Model)
	}
	if id.AuthRequired {
		t.Error("AuthRequired = true, want false")
	}
}

func TestNetProber_AuthReply(t *testing.T) {
	addr := startEndpoint(t, func(c net.Conn) {
		if _, err := protocol.ReadMessage(c); err != nil {
			return
		}
		_ = protocol.WriteMessage(c, &protocol.Message{Command: protocol.CmdAuth})
	})
	prober := NewNetProber(proberConfig())

	conn, err := prober.Dial(context.Background(), addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	id, err := prober.Handshake(conn)
	if err != nil {
		t.Fatalf("Handshake() error = %v", err)
	}
	if !id.AuthRequired {
		t.Error("AuthRequired = false, want true for AUTH reply")
	}
}

func TestNetProber_NonADBListener(t *testing.T) {
	// A listener that talks something else entirely. The garbage
	// reply must fail the handshake, not crash it.
	addr := startEndpoint(t, func(c net.Conn) {
		_, _ = c.Write([]byte("HTTP/1.1 400 Bad Request\r\n\r\n"))
	})
	prober := NewNetProber(proberConfig())

	conn, err := prober.Dial(context.Background(), addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	if _, err := prober.Handshake(conn); err == nil {
		t.Error("Handshake() with non-ADB listener succeeded, want error")
	}
}

func TestNetProber_SilentListener(t *testing.T) {
	// Accepts the connection but never replies; the handshake must
	// resolve within its own timeout.
	addr := startEndpoint(t, func(c net.Conn) {
		time.Sleep(2 * time.Second)
	})

	cfg := proberConfig()
	cfg.HandshakeTimeout = 100 * time.Millisecond
	prober := NewNetProber(cfg)

	conn, err := prober.Dial(context.Background(), addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	start := time.Now()
	_, err = prober.Handshake(conn)
	elapsed := time.Since(start)

	if err == nil {
		t.Error("Handshake() with silent listener succeeded, want timeout")
	}
	if elapsed > time.Second {
		t.Errorf("handshake took %v, want bounded by the 100ms timeout", elapsed)
	}
}

func TestNetProber_DialCompletesAfterCancel(t *testing.T) {
	// Cancellation stops new work from being dispatched; a connect the
	// worker has already started must still run to completion against a
	// live endpoint rather than being aborted and misreported.
	addr := startEndpoint(t, adbEndpoint("device::ro.product.model=IP2300"))
	prober := NewNetProber(proberConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conn, err := prober.Dial(ctx, addr)
	if err != nil {
		t.Fatalf("Dial() with cancelled context error = %v, want the connect to complete", err)
	}
	defer conn.Close()

	id, err := prober.Handshake(conn)
	if err != nil {
		t.Fatalf("Handshake() error = %v", err)
	}
	if id.Model != "IP2300" {
		t.Errorf("identity model = %q, want IP2300", id.Model)
	}
}

func TestNetProber_ConnectionRefused(t *testing.T) {
	// Grab a port that is then closed again so nothing listens on it.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := netip.MustParseAddrPort(ln.Addr().String())
	ln.Close()

	prober := NewNetProber(proberConfig())
	if _, err := prober.Dial(context.Background(), addr); err == nil {
		t.Error("Dial() to closed port succeeded, want error")
	}
}

func TestScan_AgainstLoopbackEndpoint(t *testing.T) {
	// End-to-end over a real socket: a single-address range whose one
	// address hosts a fake adb daemon.
	addr := startEndpoint(t, adbEndpoint("device::ro.product.name=SwisscomBox23;ro.product.model=IP2300"))

	rng := mustRange(t, addr.Addr().String())
	cfg := proberConfig()
	cfg.Port = int(addr.Port())
	cfg.Concurrency = 2

	found, err := New().ScanAll(context.Background(), rng, cfg)
	if err != nil {
		t.Fatalf("ScanAll() error = %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("found %d endpoints, want 1", len(found))
	}
	if got := found[0].Identity.Product; got != "SwisscomBox23" {
		t.Errorf("identity product = %q, want SwisscomBox23", got)
	}
}
