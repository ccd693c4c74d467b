package scanner

import (
	"fmt"
	"net/netip"

	"github.com/muurk/adbscan/internal/protocol"
)

// Phase identifies how far a probe got before it resolved.
type Phase int

const (
	// PhaseConnect is the transport-level TCP connect.
	PhaseConnect Phase = iota

	// PhaseHandshake is the ADB message exchange after a successful
	// connect.
	PhaseHandshake
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseConnect:
		return "connect"
	case PhaseHandshake:
		return "handshake"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Event is a value delivered on the scan result channel. The two
// concrete kinds are Progress and Outcome; consumers distinguish them
// with a type switch.
type Event interface {
	event()
}

// Progress reports that phase 1 resolved for an address, independent
// of the final outcome. Emitted only when Config.Progress is set.
type Progress struct {
	Addr      netip.AddrPort
	Connected bool
}

func (Progress) event() {}

// Outcome is the final per-address result. Exactly one Outcome is
// delivered for every address dispatched to a worker.
type Outcome struct {
	Addr netip.AddrPort

	// Reachable is true when both probe phases succeeded.
	Reachable bool

	// Phase is the last phase the probe reached. An unreachable
	// outcome with PhaseHandshake means the port accepted the
	// connection but the handshake failed; with PhaseConnect the
	// connect itself failed. The two stay distinguishable.
	Phase Phase

	// Identity is the endpoint's self-description from the handshake.
	// Non-nil exactly when Reachable is true.
	Identity *protocol.Identity
}

func (Outcome) event() {}

// String renders a reachable outcome in the `adb devices -l` column
// style used by scan output.
func (o Outcome) String() string {
	if !o.Reachable {
		return fmt.Sprintf("%s    unreachable (%s)", o.Addr, o.Phase)
	}
	return fmt.Sprintf("%s    %s", o.Addr, o.Identity)
}
