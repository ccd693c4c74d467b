package scanner

import (
	"context"
	"fmt"
	"net/netip"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/adbscan/internal/logging"
)

// Scanner orchestrates concurrent probes of an address range. The
// zero value scans with a NetProber built from the scan config.
type Scanner struct {
	// Prober overrides the connection capability used by workers.
	// Nil means a NetProber with the config's timeouts.
	Prober Prober
}

// New returns a Scanner using the platform networking stack.
func New() *Scanner {
	return &Scanner{}
}

// Scan probes every address in rng and returns a channel of events.
// The call itself does not block: the caller owns the channel and
// drains it at its own pace until it is closed, which happens once
// every dispatched address has produced its outcome.
//
// Cancelling ctx stops dispatch of new addresses; probes already
// in flight finish under their own timeouts and their outcomes are
// still delivered to a draining consumer. A consumer that stops
// draining after cancelling simply loses the trailing outcomes.
//
// An invalid config fails fast before any worker starts.
func (s *Scanner) Scan(ctx context.Context, rng Range, cfg Config) (<-chan Event, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scan config: %w", err)
	}

	prober := s.Prober
	if prober == nil {
		prober = NewNetProber(cfg)
	}

	logging.Info("scan starting",
		zap.Stringer("range", rng.Prefix()),
		zap.Int("addresses", rng.Size()),
		zap.Int("port", cfg.Port),
		zap.Int("concurrency", cfg.Concurrency),
	)

	// Buffering the result channel to the pool size lets a finishing
	// worker hand off its outcome and pick up the next address without
	// waiting on the consumer; a slow consumer still throttles the
	// scan once the buffer fills.
	events := make(chan Event, cfg.Concurrency)
	jobs := make(chan netip.AddrPort)

	var wg sync.WaitGroup
	wg.Add(cfg.Concurrency)
	for i := 0; i < cfg.Concurrency; i++ {
		go func() {
			defer wg.Done()
			for addr := range jobs {
				probe(ctx, prober, cfg, addr, events)
			}
		}()
	}

	// Dispatcher: the single consumer of the iterator. Stops pulling
	// new addresses as soon as ctx is cancelled.
	go func() {
		defer close(jobs)
		it := rng.Iter()
		for {
			addr, ok := it.Next()
			if !ok {
				return
			}
			select {
			case jobs <- netip.AddrPortFrom(addr, uint16(cfg.Port)):
			case <-ctx.Done():
				logging.Info("scan cancelled", zap.Stringer("range", rng.Prefix()))
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(events)
	}()

	return events, nil
}

// ScanAll runs Scan and collects the reachable outcomes into a slice,
// blocking until the scan terminates.
func (s *Scanner) ScanAll(ctx context.Context, rng Range, cfg Config) ([]Outcome, error) {
	events, err := s.Scan(ctx, rng, cfg)
	if err != nil {
		return nil, err
	}

	var found []Outcome
	for ev := range events {
		if out, ok := ev.(Outcome); ok && out.Reachable {
			found = append(found, out)
		}
	}
	return found, nil
}

// probe runs the two-phase reachability check for one address and
// emits exactly one Outcome (plus an optional Progress event).
func probe(ctx context.Context, prober Prober, cfg Config, addr netip.AddrPort, events chan<- Event) {
	conn, err := prober.Dial(ctx, addr)

	if cfg.Progress {
		emit(ctx, events, Progress{Addr: addr, Connected: err == nil})
	}

	if err != nil {
		logging.LogProbe(addr.String(), "connect", "unreachable")
		emit(ctx, events, Outcome{Addr: addr, Phase: PhaseConnect})
		return
	}
	defer conn.Close()

	identity, err := prober.Handshake(conn)
	if err != nil {
		logging.LogProbe(addr.String(), "handshake", "failed")
		emit(ctx, events, Outcome{Addr: addr, Phase: PhaseHandshake})
		return
	}

	logging.LogProbe(addr.String(), "handshake", "reachable")
	emit(ctx, events, Outcome{
		Addr:      addr,
		Reachable: true,
		Phase:     PhaseHandshake,
		Identity:  identity,
	})
}

// drainGrace is how long a worker keeps trying to deliver an event
// after cancellation. A consumer that cancelled but keeps draining
// still receives every outcome for a dispatched address; one that
// abandoned the channel costs at most this long before the worker
// gives up.
const drainGrace = time.Second

// emit delivers an event to the consumer. Before cancellation the
// send blocks, which is what throttles the scan to the consumer's
// drain rate. After cancellation the send is bounded by drainGrace;
// an undeliverable event is dropped silently, the consumer having
// walked away.
func emit(ctx context.Context, events chan<- Event, ev Event) {
	select {
	case events <- ev:
		return
	case <-ctx.Done():
	}

	t := time.NewTimer(drainGrace)
	defer t.Stop()
	select {
	case events <- ev:
	case <-t.C:
	}
}
