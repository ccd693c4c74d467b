package scanner

import (
	"fmt"
	"net/netip"
)

// MaxRangeSize caps the number of addresses a single scan will
// enumerate. Ranges wider than this (anything broader than a /12 in
// IPv4 terms) are almost certainly a typo.
const MaxRangeSize = 1 << 20

// Range is a contiguous block of addresses expressed as a base address
// plus prefix length. The zero value is not usable; construct one with
// ParseRange or NewRange.
type Range struct {
	prefix netip.Prefix

	// HostsOnly excludes the IPv4 network and broadcast addresses
	// from enumeration. Off by default: an adb daemon can sit on any
	// address the user asked about.
	HostsOnly bool
}

// ParseRange parses a range specification: either CIDR notation
// ("192.168.1.0/24") or a single address ("192.168.1.34"), which is
// treated as a one-address range.
func ParseRange(s string) (Range, error) {
	if addr, err := netip.ParseAddr(s); err == nil {
		return Range{prefix: netip.PrefixFrom(addr, addr.BitLen())}, nil
	}

	prefix, err := netip.ParsePrefix(s)
	if err != nil {
		return Range{}, fmt.Errorf("invalid address range %q: %w", s, err)
	}
	return NewRange(prefix)
}

// NewRange builds a Range from a prefix, rejecting ranges wider than
// MaxRangeSize.
func NewRange(prefix netip.Prefix) (Range, error) {
	hostBits := prefix.Addr().BitLen() - prefix.Bits()
	if hostBits >= 21 {
		return Range{}, fmt.Errorf("address range %s too large (max %d addresses)", prefix, MaxRangeSize)
	}
	return Range{prefix: prefix.Masked()}, nil
}

// Prefix returns the masked prefix backing the range.
func (r Range) Prefix() netip.Prefix {
	return r.prefix
}

// String renders the range the way it was specified: a bare address
// for single-address ranges, CIDR notation otherwise.
func (r Range) String() string {
	if r.prefix.IsSingleIP() {
		return r.prefix.Addr().String()
	}
	return r.prefix.String()
}

// Size returns the number of addresses the iterator will produce.
func (r Range) Size() int {
	if !r.prefix.IsValid() {
		return 0
	}
	n := 1 << (r.prefix.Addr().BitLen() - r.prefix.Bits())
	if r.excludesEdges() {
		n -= 2
	}
	return n
}

// excludesEdges reports whether the network/broadcast addresses are
// skipped. Only meaningful for IPv4 prefixes that actually have them.
func (r Range) excludesEdges() bool {
	return r.HostsOnly && r.prefix.Addr().Is4() && r.prefix.Bits() < 31
}

// Iter returns a fresh iterator over the range in ascending numeric
// order. Each call starts over from the first address, so a Range can
// back any number of independent scans.
func (r Range) Iter() *AddrIter {
	it := &AddrIter{next: r.prefix.Masked().Addr(), remaining: r.Size()}
	if r.excludesEdges() {
		it.next = it.next.Next()
	}
	return it
}

// AddrIter walks the addresses of a Range. Not safe for concurrent
// use; the scan dispatcher is its only consumer.
type AddrIter struct {
	next      netip.Addr
	remaining int
}

// Next returns the next address in the range, or ok=false when the
// range is exhausted.
func (it *AddrIter) Next() (addr netip.Addr, ok bool) {
	if it.remaining <= 0 {
		return netip.Addr{}, false
	}
	addr = it.next
	it.next = it.next.Next()
	it.remaining--
	return addr, true
}
