package client

import (
	"context"
	"reflect"
	"testing"
)

func TestParsePackageList(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{
			name: "typical listing",
			output: "package:com.android.bluetooth\n" +
				"package:com.swisscom.tv\n" +
				"package:com.android.settings\n",
			want: []string{"com.android.bluetooth", "com.swisscom.tv", "com.android.settings"},
		},
		{
			name:   "blank and malformed lines skipped",
			output: "package:com.android.shell\n\npackage:\nnot a package line\n",
			want:   []string{"com.android.shell"},
		},
		{
			name:   "empty output",
			output: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePackageList(tt.output)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePackageList() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInstall_FailureReply(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"install -r /tmp/app.apk": "Performing Streamed Install\nFailure [INSTALL_FAILED_OLDER_SDK]\n",
	}}
	c := newClient(runner, "192.168.1.34:5555")

	err := c.Install(context.Background(), "/tmp/app.apk")
	if err == nil {
		t.Fatal("Install() error = nil, want failure")
	}
	cerr, ok := err.(*ClientError)
	if !ok {
		t.Fatalf("Install() error type = %T, want *ClientError", err)
	}
	if cerr.Type != ErrTypeExec {
		t.Errorf("Install() error type = %v, want %v", cerr.Type, ErrTypeExec)
	}
	if got := cerr.Message; got != "install failed: INSTALL_FAILED_OLDER_SDK" {
		t.Errorf("Install() message = %q, want the bracketed failure reason", got)
	}
}

func TestInstall_Success(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"install -r /tmp/app.apk": "Performing Streamed Install\nSuccess\n",
	}}
	c := newClient(runner, "192.168.1.34:5555")

	if err := c.Install(context.Background(), "/tmp/app.apk"); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
}

func TestUninstall_FailureReply(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"uninstall com.example.gone": "Failure [DELETE_FAILED_INTERNAL_ERROR]\n",
	}}
	c := newClient(runner, "192.168.1.34:5555")

	if err := c.Uninstall(context.Background(), "com.example.gone"); err == nil {
		t.Fatal("Uninstall() error = nil, want failure")
	}
}

func TestIsInstalled(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"shell pm list packages": "package:com.android.bluetooth\npackage:com.swisscom.tv\n",
	}}
	c := newClient(runner, "192.168.1.34:5555")

	tests := []struct {
		pkg  string
		want bool
	}{
		{pkg: "com.swisscom.tv", want: true},
		{pkg: "com.example.absent", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.pkg, func(t *testing.T) {
			got, err := c.IsInstalled(context.Background(), tt.pkg)
			if err != nil {
				t.Fatalf("IsInstalled() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsInstalled(%q) = %v, want %v", tt.pkg, got, tt.want)
			}
		})
	}
}
