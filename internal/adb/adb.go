package adb

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/adbscan/internal/logging"
)

// DefaultTimeout is the maximum time a single adb invocation may take
// unless the caller's context imposes a tighter deadline.
const DefaultTimeout = 30 * time.Second

var versionRe = regexp.MustCompile(`^Version\s+([\d.\-]+)`)

// Tool wraps a resolved adb binary and executes it via os/exec.
type Tool struct {
	path    string
	timeout time.Duration
	logger  *zap.Logger
}

// Output holds the captured result of one adb invocation.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Find locates adb in PATH and returns a Tool bound to it.
func Find() (*Tool, error) {
	path, err := exec.LookPath("adb")
	if err != nil {
		return nil, &NotFoundError{Err: err}
	}
	return newTool(path), nil
}

// FromPath returns a Tool bound to an explicit adb binary. The path is
// validated by running `--version` and checking for the expected banner.
func FromPath(ctx context.Context, path string) (*Tool, error) {
	if path == "" {
		return nil, &NotFoundError{Err: fmt.Errorf("empty path")}
	}

	versionCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	out, err := exec.CommandContext(versionCtx, path, "--version").Output()
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}
	if !strings.Contains(string(out), "Android Debug Bridge") {
		return nil, &NotFoundError{
			Path: path,
			Err:  fmt.Errorf("binary does not appear to be adb"),
		}
	}
	return newTool(path), nil
}

func newTool(path string) *Tool {
	return &Tool{
		path:    path,
		timeout: DefaultTimeout,
		logger:  logging.GetLogger().Named("adb"),
	}
}

// Path returns the resolved adb binary path.
func (t *Tool) Path() string {
	return t.path
}

// WithTimeout returns a copy of the tool using the given per-invocation timeout.
func (t *Tool) WithTimeout(timeout time.Duration) *Tool {
	clone := *t
	clone.timeout = timeout
	return &clone
}

// Exec runs adb with the given arguments and captures its output.
// When serial is non-empty the invocation is scoped to that device
// with `-s`. A non-zero exit code is returned as an *ExecError with
// the captured stderr attached.
func (t *Tool) Exec(ctx context.Context, serial string, args ...string) (*Output, error) {
	argv := args
	if serial != "" {
		argv = append([]string{"-s", serial}, args...)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	logging.LogCommand(t.path, argv)

	cmd := exec.CommandContext(timeoutCtx, t.path, argv...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	out := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			out.ExitCode = exitErr.ExitCode()
		} else {
			out.ExitCode = -1
		}
	}

	t.logger.Debug("adb invocation complete",
		zap.Strings("args", argv),
		zap.Duration("duration", duration),
		zap.Int("exit_code", out.ExitCode),
		zap.Int("stdout_size", len(out.Stdout)),
		zap.Int("stderr_size", len(out.Stderr)),
	)

	if timeoutCtx.Err() == context.DeadlineExceeded {
		return out, &TimeoutError{Args: argv, Timeout: t.timeout.String()}
	}
	if err != nil {
		return out, &ExecError{
			Args:     argv,
			ExitCode: out.ExitCode,
			Stderr:   out.Stderr,
			Err:      err,
		}
	}
	return out, nil
}

// StartServer ensures an adb server is running on the host.
func (t *Tool) StartServer(ctx context.Context) error {
	_, err := t.Exec(ctx, "", "start-server")
	return err
}

// KillServer stops the host adb server if it is running.
func (t *Tool) KillServer(ctx context.Context) error {
	_, err := t.Exec(ctx, "", "kill-server")
	return err
}

// Version returns the adb version string, e.g. "34.0.5".
func (t *Tool) Version(ctx context.Context) (string, error) {
	out, err := t.Exec(ctx, "", "--version")
	if err != nil {
		return "", err
	}
	version, err := parseVersion(out.Stdout)
	if err != nil {
		return "", err
	}
	return version, nil
}

// parseVersion extracts the version number from `adb --version` output.
func parseVersion(output string) (string, error) {
	for _, line := range strings.Split(output, "\n") {
		if m := versionRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return m[1], nil
		}
	}
	return "", &ParseError{
		Field:  "version",
		Output: output,
		Err:    fmt.Errorf("no Version line found"),
	}
}

// Connect asks the adb server to connect to a TCP endpoint.
// adb exits zero even when the connection fails, so the output is
// inspected for the failure wording.
func (t *Tool) Connect(ctx context.Context, addr string) error {
	out, err := t.Exec(ctx, "", "connect", addr)
	if err != nil {
		return err
	}
	reply := strings.TrimSpace(out.Stdout)
	if strings.HasPrefix(reply, "failed") || strings.Contains(reply, "cannot connect") {
		return &ExecError{
			Args:   []string{"connect", addr},
			Stderr: reply,
			Err:    fmt.Errorf("connection refused by device"),
		}
	}
	return nil
}

// Disconnect drops the adb server's connection to a TCP endpoint.
// An empty addr disconnects all devices.
func (t *Tool) Disconnect(ctx context.Context, addr string) error {
	args := []string{"disconnect"}
	if addr != "" {
		args = append(args, addr)
	}
	_, err := t.Exec(ctx, "", args...)
	return err
}

// MDNSCheck reports whether the adb server's mdns backend is available.
func (t *Tool) MDNSCheck(ctx context.Context) bool {
	_, err := t.Exec(ctx, "", "mdns", "check")
	return err == nil
}
