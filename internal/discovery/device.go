package discovery

import (
	"fmt"
	"time"
)

// Device represents a device advertising adb over mDNS
type Device struct {
	// Instance is the mDNS instance name (e.g., "adb-R58M12ABCDE-Xy3fQz")
	Instance string

	// Hostname is the mDNS hostname (e.g., "Android.local.")
	Hostname string

	// Service is the service type the device was found under
	// (ServicePairedTLS or ServicePlain)
	Service string

	// IP is the IPv4 address (e.g., "192.168.1.34")
	IP string

	// Port is the adbd listening port (5555 for plain tcpip mode,
	// a random high port for wireless debugging)
	Port int

	// Metadata contains additional mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("ADB Device %s at %s:%d (%s)", d.Instance, d.IP, d.Port, d.Service)
}

// Addr returns the ip:port pair usable as an adb connect target
func (d *Device) Addr() string {
	return fmt.Sprintf("%s:%d", d.IP, d.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
