package config

import "time"

// Registry represents the entire user configuration file.
// This stores user-defined metadata for devices and application preferences.
type Registry struct {
	Version int                `yaml:"version"`
	Devices map[string]*Device `yaml:"devices,omitempty"` // Keyed by device serial (ip:port for TCP devices)
	Scan    *ScanPrefs         `yaml:"scan,omitempty"`
	ADB     *ADBPrefs          `yaml:"adb,omitempty"`
}

// Device represents user-defined metadata for a single device.
// This is keyed by the device's serial in the Registry.
type Device struct {
	Nickname string    `yaml:"nickname,omitempty"`  // User-friendly name
	LastIP   string    `yaml:"last_ip,omitempty"`   // Last known IP address
	LastPort int       `yaml:"last_port,omitempty"` // Last known adbd port
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last scan/connection time
	Model    string    `yaml:"model,omitempty"`     // ro.product.model from the last handshake
	Product  string    `yaml:"product,omitempty"`   // ro.product.name from the last handshake
}

// ScanPrefs represents default scan settings.
type ScanPrefs struct {
	Subnet           string `yaml:"subnet"`                      // Default range, e.g. "192.168.1.0/24"
	Port             int    `yaml:"port"`                        // adbd port to probe
	TimeoutMS        int    `yaml:"timeout_ms"`                  // TCP connect timeout in milliseconds
	HandshakeTimeout int    `yaml:"handshake_timeout_ms"`        // Handshake timeout in milliseconds
	Concurrency      int    `yaml:"concurrency,omitempty"`       // Worker count, 0 means NumCPU
	MDNSTimeout      int    `yaml:"mdns_timeout_sec,omitempty"`  // mDNS browse timeout in seconds
}

// ADBPrefs represents adb binary preferences.
type ADBPrefs struct {
	Path string `yaml:"path,omitempty"` // Explicit adb binary path, empty searches PATH
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Scan: &ScanPrefs{
			Subnet:           "192.168.1.0/24",
			Port:             5555,
			TimeoutMS:        200,
			HandshakeTimeout: 400,
			MDNSTimeout:      10,
		},
		ADB: &ADBPrefs{},
	}
}

// GetDevice retrieves device metadata by serial.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(serial string) *Device {
	return r.Devices[serial]
}

// EnsureDevice ensures a device entry exists in the registry.
// Returns the device entry (existing or newly created).
func (r *Registry) EnsureDevice(serial string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	if device, exists := r.Devices[serial]; exists {
		return device
	}

	device := &Device{}
	r.Devices[serial] = device
	return device
}

// UpdateDeviceLastSeen updates the last seen timestamp and endpoint for a device.
func (r *Registry) UpdateDeviceLastSeen(serial, ip string, port int) {
	device := r.EnsureDevice(serial)
	device.LastSeen = time.Now()
	device.LastIP = ip
	device.LastPort = port
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(serial, nickname string) {
	device := r.EnsureDevice(serial)
	device.Nickname = nickname
}

// ResolveNickname returns the serial registered under a nickname.
// The second return value reports whether the nickname was found.
func (r *Registry) ResolveNickname(nickname string) (string, bool) {
	for serial, device := range r.Devices {
		if device.Nickname == nickname {
			return serial, true
		}
	}
	return "", false
}
