// Package discovery provides mDNS-based discovery of adb-capable devices.
//
// This package implements multicast DNS (mDNS) service discovery to
// automatically locate devices with network debugging enabled. Two
// service types are browsed:
//   - "_adb-tls-connect._tcp": wireless debugging (Android 11+)
//   - "_adb._tcp": adbd running in plain tcpip mode
//
// # Discovery Process
//
// The discovery process works as follows:
//  1. Broadcasts mDNS queries for both adb service types
//  2. Listens for service advertisements from devices
//  3. Collects device information (instance name, IP, port, TXT records)
//  4. Deduplicates on the ip:port pair and returns after the timeout
//
// # Usage Example
//
//	devices, err := discovery.ScanForDevices(10 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, device := range devices {
//	    fmt.Printf("Found: %s at %s\n", device.Instance, device.Addr())
//	}
//
// The Addr() value feeds directly into `adb connect` or a client.Client.
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// # Thread Safety
//
// This package is safe for concurrent use. Multiple discovery sessions can run
// simultaneously without interference.
package discovery
