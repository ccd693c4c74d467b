package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServicePairedTLS is advertised by devices with wireless
	// debugging enabled (Android 11 and later)
	ServicePairedTLS = "_adb-tls-connect._tcp"

	// ServicePlain is advertised by adbd running in plain tcpip mode
	ServicePlain = "_adb._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for device discovery
	DefaultScanTimeout = 10 * time.Second

	// DefaultPort is the conventional adbd port for plain tcpip mode
	DefaultPort = 5555
)

// Scanner handles mDNS device discovery
type Scanner struct {
	// Timeout is the maximum time to wait for device discovery
	Timeout time.Duration

	// Services are the service types to browse. Defaults to both
	// the wireless-debugging and plain tcpip service types.
	Services []string
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout:  DefaultScanTimeout,
		Services: []string{ServicePairedTLS, ServicePlain},
	}
}

// ScanForDevices discovers all adb-capable devices on the local network
func (s *Scanner) ScanForDevices() ([]*Device, error) {
	return s.ScanForDevicesWithContext(context.Background())
}

// ScanForDevicesWithContext discovers devices with a custom context.
// Both service types are browsed concurrently and the results are
// merged, deduplicated on the ip:port pair.
func (s *Scanner) ScanForDevicesWithContext(ctx context.Context) ([]*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		devices []*Device
		seen    = make(map[string]bool)
		wg      sync.WaitGroup
	)

	for _, service := range s.Services {
		entries := make(chan *zeroconf.ServiceEntry)

		resolver, err := zeroconf.NewResolver(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
		}

		wg.Add(1)
		go func(service string) {
			defer wg.Done()
			for entry := range entries {
				device := s.parseServiceEntry(entry, service)
				if device == nil {
					continue
				}
				mu.Lock()
				if !seen[device.Addr()] {
					seen[device.Addr()] = true
					devices = append(devices, device)
				}
				mu.Unlock()
			}
		}(service)

		if err := resolver.Browse(ctx, service, ServiceDomain, entries); err != nil {
			cancel()
			wg.Wait()
			return nil, fmt.Errorf("failed to browse for %s services: %w", service, err)
		}
	}

	// Wait for the timeout to expire and the entry channels to drain
	<-ctx.Done()
	wg.Wait()

	return devices, nil
}

// WaitForDevice waits for a specific device by instance name
func (s *Scanner) WaitForDevice(instance string) (*Device, error) {
	return s.WaitForDeviceWithContext(context.Background(), instance)
}

// WaitForDeviceWithContext waits for a specific device with a custom context
func (s *Scanner) WaitForDeviceWithContext(ctx context.Context, instance string) (*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	deviceChan := make(chan *Device, 1)

	for _, service := range s.Services {
		entries := make(chan *zeroconf.ServiceEntry)

		resolver, err := zeroconf.NewResolver(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
		}

		go func(service string) {
			for entry := range entries {
				device := s.parseServiceEntry(entry, service)
				if device != nil && device.Instance == instance {
					select {
					case deviceChan <- device:
						cancel()
					default:
					}
					return
				}
			}
		}(service)

		if err := resolver.Browse(ctx, service, ServiceDomain, entries); err != nil {
			return nil, fmt.Errorf("failed to browse for %s services: %w", service, err)
		}
	}

	select {
	case device := <-deviceChan:
		return device, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("device %s not found within timeout", instance)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Device.
// Returns nil for entries with no resolvable address.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry, service string) *Device {
	if entry.Instance == "" {
		return nil
	}

	// Get IP address (prefer IPv4)
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// Parse TXT records into metadata
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Device{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		Service:      service,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForDevices is a convenience function to scan for devices with a custom timeout
func ScanForDevices(timeout time.Duration) ([]*Device, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForDevices()
}

// QuickScan performs a fast scan with a 3-second timeout
func QuickScan() ([]*Device, error) {
	scanner := NewScanner()
	scanner.Timeout = 3 * time.Second
	return scanner.ScanForDevices()
}
