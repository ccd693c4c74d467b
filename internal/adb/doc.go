// Package adb wraps the host adb binary for server and device management.
//
// The package resolves the binary from PATH (or an explicit configured
// path), executes it via os/exec with per-invocation timeouts, and
// parses the command output into structured types.
//
// # Core Components
//
// Tool: a resolved adb binary plus execution defaults
//
//	tool, err := adb.Find()
//	out, err := tool.Exec(ctx, "192.168.1.34:5555", "get-state")
//
// Device listing: parses `adb devices -l` rows into DeviceEntry values
//
//	devices, err := tool.Devices(ctx)
//	for _, d := range devices {
//	    fmt.Printf("%s %s model:%s\n", d.Serial, d.State, d.Model)
//	}
//
// Server lifecycle: StartServer, KillServer, Version
//
// Connection management: Connect and Disconnect drive the server's
// TCP endpoint table. Note that adb exits zero even when `connect`
// fails, so Connect inspects the reply text.
//
// # Error Handling
//
// The package defines specific error types for different failure modes:
//   - NotFoundError: adb binary missing or not executable
//   - ExecError: adb invocation failed (exit code, stderr)
//   - TimeoutError: invocation exceeded its deadline
//   - ParseError: unexpected adb output
//
// All errors include context and can be unwrapped with errors.Unwrap().
//
// # Thread Safety
//
// A Tool is immutable after creation and safe for concurrent use;
// each Exec call spawns an independent process.
package adb
