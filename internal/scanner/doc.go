// Package scanner locates ADB endpoints on a local network.
//
// Given an address range, the scanner probes every address in parallel
// with a two-phase reachability check: a bounded TCP connect to the
// adb daemon port, then a single bounded handshake exchange to confirm
// the listener really is an ADB server. Results stream back to the
// caller over a channel as they complete.
//
// # Probe Phases
//
//  1. Transport: TCP connect bounded by Config.TCPTimeout. Refusal,
//     filtering or timeout is conclusive; there is no retry.
//  2. Handshake: one CNXN message is sent and one reply read, bounded
//     by Config.HandshakeTimeout. A valid CNXN or AUTH reply marks the
//     endpoint reachable and carries its identity.
//
// # Usage Example
//
//	rng, err := scanner.ParseRange("192.168.1.0/24")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	events, err := scanner.New().Scan(ctx, rng, scanner.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for ev := range events {
//	    switch ev := ev.(type) {
//	    case scanner.Outcome:
//	        if ev.Reachable {
//	            fmt.Printf("%s    %s\n", ev.Addr, ev.Identity)
//	        }
//	    }
//	}
//
// # Concurrency Model
//
// A fixed pool of Config.Concurrency worker goroutines drains a job
// channel fed by a single dispatcher. In-flight probes never exceed
// the configured concurrency; completion order is not enumeration
// order. Exactly one Outcome is delivered per dispatched address.
// Cancelling the context stops dispatch of new addresses; probes
// already running finish under their own timeouts.
//
// # Thread Safety
//
// A Scanner holds no mutable state; the same Scanner may run multiple
// scans concurrently. Each scan gets a fresh iterator, worker pool and
// result channel.
package scanner
