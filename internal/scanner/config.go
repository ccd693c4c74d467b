package scanner

import (
	"fmt"
	"runtime"
	"time"
)

const (
	// DefaultPort is the TCP port adbd listens on for network debugging.
	DefaultPort = 5555

	// DefaultTCPTimeout bounds the phase-1 transport connect. A closed
	// or filtered port on a LAN resolves well inside this.
	DefaultTCPTimeout = 200 * time.Millisecond

	// DefaultHandshakeTimeout bounds the phase-2 message exchange.
	DefaultHandshakeTimeout = 400 * time.Millisecond
)

// Config holds the tunables for one scan. It is read-only once a scan
// starts; workers never mutate it.
type Config struct {
	// TCPTimeout bounds the phase-1 TCP connect per address.
	TCPTimeout time.Duration

	// HandshakeTimeout bounds the phase-2 handshake exchange per
	// address. Worst-case per-address latency is therefore
	// TCPTimeout + HandshakeTimeout.
	HandshakeTimeout time.Duration

	// Concurrency is the fixed number of probe workers.
	Concurrency int

	// Port is the TCP port probed on every address.
	Port int

	// Progress enables Progress events on the result channel, emitted
	// as soon as phase 1 resolves for each address.
	Progress bool
}

// DefaultConfig returns a Config with sensible defaults: concurrency
// matches the number of available CPUs.
func DefaultConfig() Config {
	return Config{
		TCPTimeout:       DefaultTCPTimeout,
		HandshakeTimeout: DefaultHandshakeTimeout,
		Concurrency:      runtime.NumCPU(),
		Port:             DefaultPort,
	}
}

// Validate checks the configuration before any work begins. A scan
// with an invalid config fails fast and emits nothing.
func (c Config) Validate() error {
	if c.TCPTimeout <= 0 {
		return fmt.Errorf("tcp timeout must be positive, got %v", c.TCPTimeout)
	}
	if c.HandshakeTimeout <= 0 {
		return fmt.Errorf("handshake timeout must be positive, got %v", c.HandshakeTimeout)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", c.Port)
	}
	return nil
}
