package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/muurk/adbscan/internal/adb"
)

// fakeRunner scripts adb invocations for tests. Each key is the
// space-joined argument list, minus the serial scoping.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeRunner) Exec(ctx context.Context, serial string, args ...string) (*adb.Output, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return &adb.Output{}, err
	}
	return &adb.Output{Stdout: f.outputs[key]}, nil
}

func (f *fakeRunner) called(key string) bool {
	for _, c := range f.calls {
		if c == key {
			return true
		}
	}
	return false
}

func execErr(stderr string) error {
	return &adb.ExecError{ExitCode: 1, Stderr: stderr, Err: fmt.Errorf("exit status 1")}
}

func TestConnect_AlreadyConnected(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"get-state": "device\n",
	}}
	c := newClient(runner, "192.168.1.34:5555")

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if runner.called("connect 192.168.1.34:5555") {
		t.Error("Connect() issued a connect for an already-connected device")
	}
}

func TestConnect_Succeeds(t *testing.T) {
	// get-state fails until the connect call lands, then reports "device".
	runner := &connectFlipRunner{inner: &fakeRunner{}}
	c := newClient(runner, "192.168.1.34:5555")

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if !runner.connected {
		t.Error("Connect() never issued the connect command")
	}
}

// connectFlipRunner answers get-state with "device" only after a
// connect invocation has been seen.
type connectFlipRunner struct {
	inner     *fakeRunner
	connected bool
}

func (r *connectFlipRunner) Exec(ctx context.Context, serial string, args ...string) (*adb.Output, error) {
	key := strings.Join(args, " ")
	if strings.HasPrefix(key, "connect ") {
		r.connected = true
		return &adb.Output{Stdout: "connected to " + args[1] + "\n"}, nil
	}
	if key == "get-state" {
		if r.connected {
			return &adb.Output{Stdout: "device\n"}, nil
		}
		return &adb.Output{}, execErr("error: device not found")
	}
	return r.inner.Exec(ctx, serial, args...)
}

func TestConnect_RefusedReply(t *testing.T) {
	runner := &fakeRunner{
		outputs: map[string]string{
			"connect 192.168.1.99:5555": "failed to connect to 192.168.1.99:5555\n",
		},
		errs: map[string]error{
			"get-state": execErr("error: device not found"),
		},
	}
	c := newClient(runner, "192.168.1.99:5555")

	err := c.Connect(context.Background())
	if err == nil {
		t.Fatal("Connect() error = nil, want unreachable error")
	}
	if !IsUnreachable(err) {
		t.Errorf("Connect() error = %v, want unreachable classification", err)
	}
}

func TestIsConnected(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		err    error
		want   bool
	}{
		{name: "connected", stdout: "device\n", want: true},
		{name: "offline", stdout: "offline\n", want: false},
		{name: "not known", err: execErr("error: device not found"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{
				outputs: map[string]string{"get-state": tt.stdout},
			}
			if tt.err != nil {
				runner.errs = map[string]error{"get-state": tt.err}
			}
			c := newClient(runner, "192.168.1.34:5555")
			if got := c.IsConnected(context.Background()); got != tt.want {
				t.Errorf("IsConnected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShell_TrimsTrailingNewline(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"shell getprop ro.product.model": "IP2300\r\n",
	}}
	c := newClient(runner, "192.168.1.34:5555")

	got, err := c.GetProp(context.Background(), "ro.product.model")
	if err != nil {
		t.Fatalf("GetProp() error = %v", err)
	}
	if got != "IP2300" {
		t.Errorf("GetProp() = %q, want %q", got, "IP2300")
	}
}

func TestSerialNo(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"get-serialno": "192.168.1.34:5555\n",
	}}
	c := newClient(runner, "192.168.1.34:5555")

	got, err := c.SerialNo(context.Background())
	if err != nil {
		t.Fatalf("SerialNo() error = %v", err)
	}
	if got != "192.168.1.34:5555" {
		t.Errorf("SerialNo() = %q, want the device address", got)
	}
}

func TestWaitForDevice(t *testing.T) {
	bootWait := "wait-for-device shell while [ -z $(getprop sys.boot_completed) ]; do sleep 1; done"

	runner := &fakeRunner{outputs: map[string]string{}}
	c := newClient(runner, "192.168.1.34:5555")
	if err := c.WaitForDevice(context.Background()); err != nil {
		t.Fatalf("WaitForDevice() error = %v", err)
	}
	if !runner.called(bootWait) {
		t.Errorf("WaitForDevice() calls = %v, want the boot-completed poll", runner.calls)
	}

	runner = &fakeRunner{errs: map[string]error{
		bootWait: execErr("error: device '192.168.1.34:5555' not found"),
	}}
	c = newClient(runner, "192.168.1.34:5555")
	err := c.WaitForDevice(context.Background())
	if err == nil {
		t.Fatal("WaitForDevice() error = nil, want unreachable error")
	}
	if !IsUnreachable(err) {
		t.Errorf("WaitForDevice() error = %v, want unreachable classification", err)
	}
}

func TestReboot_Targets(t *testing.T) {
	tests := []struct {
		target RebootTarget
		want   string
	}{
		{target: RebootSystem, want: "reboot"},
		{target: RebootBootloader, want: "reboot bootloader"},
		{target: RebootRecovery, want: "reboot recovery"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			runner := &fakeRunner{outputs: map[string]string{}}
			c := newClient(runner, "192.168.1.34:5555")
			if err := c.Reboot(context.Background(), tt.target); err != nil {
				t.Fatalf("Reboot() error = %v", err)
			}
			if !runner.called(tt.want) {
				t.Errorf("Reboot() calls = %v, want %q", runner.calls, tt.want)
			}
		})
	}
}

func TestClassifyExecError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   ErrorType
		checks func(error) bool
	}{
		{
			name:   "offline",
			err:    execErr("adb: device offline"),
			want:   ErrTypeOffline,
			checks: IsOffline,
		},
		{
			name:   "unauthorized",
			err:    execErr("adb: device unauthorized.\nThis adb server's $ADB_VENDOR_KEYS is not set"),
			want:   ErrTypeUnauthorized,
			checks: IsUnauthorized,
		},
		{
			name:   "not found",
			err:    execErr("error: device '192.168.1.34:5555' not found"),
			want:   ErrTypeUnreachable,
			checks: IsUnreachable,
		},
		{
			name:   "timeout",
			err:    &adb.TimeoutError{Args: []string{"get-state"}, Timeout: "200ms"},
			want:   ErrTypeTimeout,
			checks: IsTimeout,
		},
		{
			name: "generic failure",
			err:  execErr("something unexpected"),
			want: ErrTypeExec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyExecError("192.168.1.34:5555", tt.err)
			if got.Type != tt.want {
				t.Errorf("classifyExecError() type = %v, want %v", got.Type, tt.want)
			}
			if tt.checks != nil && !tt.checks(got) {
				t.Errorf("classification predicate rejected %v", got)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error does not wrap the original")
			}
		})
	}
}
