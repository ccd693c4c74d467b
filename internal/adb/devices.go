package adb

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// deviceStates matches every connection state the server prints in a
// device row, including the rarer recovery/sideload/rescue modes and
// the multi-word "no permissions".
const deviceStates = `device|offline|unauthorized|authorizing|connecting|` +
	`recovery|sideload|rescue|bootloader|host|no permissions`

var deviceLineRe = regexp.MustCompile(
	`^(?P<serial>\S+)\s+(?P<state>` + deviceStates + `)(?:\s+usb:\S+)?` +
		`(?:\s+product:(?P<product>\S+))?(?:\s+model:(?P<model>\S+))?` +
		`(?:\s+device:(?P<device>\S+))?(?:\s+transport_id:(?P<transport>\d+))?`)

// DeviceEntry is one row of `adb devices -l` output.
type DeviceEntry struct {
	// Serial is the device serial, an ip:port pair for TCP devices
	Serial string
	// State is the connection state, e.g. device, offline, unauthorized
	// or recovery
	State string
	// Product is the ro.product.name value reported by the server
	Product string
	// Model is the ro.product.model value reported by the server
	Model string
	// Device is the ro.product.device value reported by the server
	Device string
	// TransportID is the server-assigned transport number
	TransportID int
}

// Connected reports whether the entry is usable for commands.
func (d DeviceEntry) Connected() bool {
	return d.State == "device"
}

// Devices lists the devices known to the adb server.
func (t *Tool) Devices(ctx context.Context) ([]DeviceEntry, error) {
	out, err := t.Exec(ctx, "", "devices", "-l")
	if err != nil {
		return nil, err
	}
	return ParseDevices(out.Stdout), nil
}

// ParseDevices parses `adb devices -l` output. The banner line and
// anything that does not look like a device row is skipped.
func ParseDevices(output string) []DeviceEntry {
	var entries []DeviceEntry

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}

		m := deviceLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		entry := DeviceEntry{}
		for i, name := range deviceLineRe.SubexpNames() {
			switch name {
			case "serial":
				entry.Serial = m[i]
			case "state":
				entry.State = m[i]
			case "product":
				entry.Product = m[i]
			case "model":
				entry.Model = m[i]
			case "device":
				entry.Device = m[i]
			case "transport":
				if m[i] != "" {
					entry.TransportID, _ = strconv.Atoi(m[i])
				}
			}
		}
		entries = append(entries, entry)
	}
	return entries
}
