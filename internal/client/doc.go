// Package client provides per-device operations on top of the adb server.
//
// A Client is bound to one device serial (an ip:port pair for TCP
// devices) and scopes every adb invocation to it with `-s`. Operations
// cover connection management (Connect, Disconnect, IsConnected,
// WaitForDevice), shell access and system properties (Shell, GetProp,
// GetProps, SetProp), file transfer (Push, Pull, Screencap), and
// package management (Install, Uninstall, ListPackages).
//
// # Error Handling
//
// Failures are classified into *ClientError values. The adb server
// reports most device-state problems through stderr wording rather
// than exit codes, so classification inspects the captured output:
//
//	err := c.Connect(ctx)
//	if client.IsUnauthorized(err) {
//	    fmt.Println("accept the debugging prompt on the device")
//	}
//
// # Thread Safety
//
// A Client is immutable after creation and safe for concurrent use.
package client
