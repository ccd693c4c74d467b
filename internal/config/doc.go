// Package config manages the user configuration file for adbscan.
//
// The configuration is a YAML file stored in the OS-appropriate
// location ($XDG_CONFIG_HOME/adbscan/config.yaml on Linux). It holds
// scan defaults (subnet, port, timeouts, concurrency), an optional
// explicit adb binary path, and per-device metadata such as nicknames
// and the endpoint a device was last seen at.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.UpdateDeviceLastSeen("192.168.1.34:5555", "192.168.1.34", 5555)
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// LoadRegistry is lazy and returns a process-wide singleton. Save
// writes atomically (temp file plus rename) so a crash cannot leave a
// truncated config behind.
package config
