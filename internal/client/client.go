package client

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/adbscan/internal/adb"
	"github.com/muurk/adbscan/internal/logging"
)

// stateTimeout bounds the quick get-state probe used by IsConnected.
const stateTimeout = 200 * time.Millisecond

// runner executes adb invocations scoped to a device serial.
// *adb.Tool satisfies it; tests substitute a fake.
type runner interface {
	Exec(ctx context.Context, serial string, args ...string) (*adb.Output, error)
}

// Client drives a single device through the adb server.
type Client struct {
	tool   runner
	serial string
	logger *zap.Logger
}

// New returns a client for the device with the given serial. For TCP
// devices the serial is the ip:port pair, e.g. "192.168.1.34:5555".
func New(tool *adb.Tool, serial string) *Client {
	return newClient(tool, serial)
}

func newClient(tool runner, serial string) *Client {
	return &Client{
		tool:   tool,
		serial: serial,
		logger: logging.GetLogger().Named("client").With(zap.String("serial", serial)),
	}
}

// Serial returns the device serial this client is bound to.
func (c *Client) Serial() string {
	return c.serial
}

func (c *Client) String() string {
	return c.serial
}

// Connect attaches the device to the adb server. A no-op when the
// device is already connected.
func (c *Client) Connect(ctx context.Context) error {
	if c.IsConnected(ctx) {
		return nil
	}

	out, err := c.tool.Exec(ctx, "", "connect", c.serial)
	if err != nil {
		return classifyExecError(c.serial, err)
	}

	reply := strings.TrimSpace(out.Stdout)
	if strings.HasPrefix(reply, "failed") || strings.Contains(reply, "cannot connect") {
		return &ClientError{
			Type:    ErrTypeUnreachable,
			Message: reply,
			Serial:  c.serial,
		}
	}

	if !c.IsConnected(ctx) {
		return &ClientError{
			Type:    ErrTypeUnreachable,
			Message: "device did not reach the connected state",
			Serial:  c.serial,
		}
	}
	return nil
}

// Disconnect detaches the device from the adb server.
func (c *Client) Disconnect(ctx context.Context) error {
	if _, err := c.tool.Exec(ctx, "", "disconnect", c.serial); err != nil {
		return classifyExecError(c.serial, err)
	}
	return nil
}

// IsConnected reports whether the device answers get-state with "device".
func (c *Client) IsConnected(ctx context.Context) bool {
	stateCtx, cancel := context.WithTimeout(ctx, stateTimeout)
	defer cancel()

	out, err := c.tool.Exec(stateCtx, c.serial, "get-state")
	if err != nil {
		return false
	}
	return strings.TrimSpace(out.Stdout) == "device"
}

// WaitForDevice blocks until the device has finished booting.
func (c *Client) WaitForDevice(ctx context.Context) error {
	_, err := c.tool.Exec(ctx, c.serial,
		"wait-for-device", "shell",
		"while [ -z $(getprop sys.boot_completed) ]; do sleep 1; done")
	if err != nil {
		return classifyExecError(c.serial, err)
	}
	return nil
}

// SerialNo returns the serial number the device reports about itself.
// For TCP devices this is the ip:port pair.
func (c *Client) SerialNo(ctx context.Context) (string, error) {
	out, err := c.tool.Exec(ctx, c.serial, "get-serialno")
	if err != nil {
		return "", classifyExecError(c.serial, err)
	}
	return strings.TrimSpace(out.Stdout), nil
}

// RebootTarget selects the image a reboot lands in.
type RebootTarget string

const (
	RebootSystem     RebootTarget = ""
	RebootBootloader RebootTarget = "bootloader"
	RebootRecovery   RebootTarget = "recovery"
	RebootSideload   RebootTarget = "sideload"
)

// Reboot restarts the device into the given target image.
func (c *Client) Reboot(ctx context.Context, target RebootTarget) error {
	args := []string{"reboot"}
	if target != RebootSystem {
		args = append(args, string(target))
	}
	if _, err := c.tool.Exec(ctx, c.serial, args...); err != nil {
		return classifyExecError(c.serial, err)
	}
	return nil
}

// Push copies a local file or directory to the device.
func (c *Client) Push(ctx context.Context, local, remote string) error {
	c.logger.Debug("pushing file", zap.String("local", local), zap.String("remote", remote))
	if _, err := c.tool.Exec(ctx, c.serial, "push", local, remote); err != nil {
		return classifyExecError(c.serial, err)
	}
	return nil
}

// Pull copies a remote file or directory from the device.
func (c *Client) Pull(ctx context.Context, remote, local string) error {
	c.logger.Debug("pulling file", zap.String("remote", remote), zap.String("local", local))
	if _, err := c.tool.Exec(ctx, c.serial, "pull", remote, local); err != nil {
		return classifyExecError(c.serial, err)
	}
	return nil
}

// Screencap captures the device screen as PNG into a local file.
// exec-out keeps the image off the shell tty so the bytes arrive intact.
func (c *Client) Screencap(ctx context.Context, local string) error {
	out, err := c.tool.Exec(ctx, c.serial, "exec-out", "screencap", "-p")
	if err != nil {
		return classifyExecError(c.serial, err)
	}
	if len(out.Stdout) == 0 {
		return &ClientError{
			Type:    ErrTypeExec,
			Message: "screencap produced no output",
			Serial:  c.serial,
		}
	}
	if err := os.WriteFile(local, []byte(out.Stdout), 0o644); err != nil {
		return fmt.Errorf("failed to write screenshot: %w", err)
	}
	return nil
}
