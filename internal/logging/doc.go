// Package logging provides structured logging for adbscan.
//
// This package wraps zap logger with convenience functions for the
// logging patterns used throughout the tool. Output is silent by
// default so normal CLI output stays clean; set ADBSCAN_LOG_LEVEL to
// enable it.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (hex dumps, per-address probes, exec argv)
//   - Info: Normal operations (scan start/finish, device connections)
//   - Warn: Non-fatal issues (malformed handshake replies, adb retries)
//   - Error: Fatal issues (startup failures, adb not found)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("scan finished",
//	    zap.String("range", "192.168.1.0/24"),
//	    zap.Int("reachable", 3),
//	)
//
// # Specialized Logging
//
// The package provides domain-specific logging functions:
//
//	logging.LogProbe(addr, "connect", "refused")
//	logging.LogCommand(adbPath, []string{"-s", serial, "shell", "getprop"})
//	logging.LogRawBytes("handshake reply", payload)
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
