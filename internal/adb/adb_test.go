package adb

import (
	"context"
	"errors"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{
			name: "platform tools",
			output: "Android Debug Bridge version 1.0.41\n" +
				"Version 34.0.5-10900879\n" +
				"Installed as /usr/local/bin/adb\n",
			want: "34.0.5-10900879",
		},
		{
			name:   "version only",
			output: "Version 33.0.3\n",
			want:   "33.0.3",
		},
		{
			name:    "missing version line",
			output:  "Android Debug Bridge version 1.0.41\n",
			wantErr: true,
		},
		{
			name:    "empty output",
			output:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersion(tt.output)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseVersion() error = nil, want error")
				}
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Errorf("parseVersion() error type = %T, want *ParseError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseVersion() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("parseVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromPath_Invalid(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "empty path", path: ""},
		{name: "nonexistent binary", path: "/nonexistent/adb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromPath(context.Background(), tt.path)
			if err == nil {
				t.Fatal("FromPath() error = nil, want error")
			}
			var notFound *NotFoundError
			if !errors.As(err, &notFound) {
				t.Errorf("FromPath() error type = %T, want *NotFoundError", err)
			}
		})
	}
}

func TestWithTimeout_DoesNotMutateOriginal(t *testing.T) {
	tool := newTool("/usr/bin/adb")
	clone := tool.WithTimeout(DefaultTimeout / 2)

	if tool.timeout != DefaultTimeout {
		t.Errorf("original timeout = %v, want %v", tool.timeout, DefaultTimeout)
	}
	if clone.timeout != DefaultTimeout/2 {
		t.Errorf("clone timeout = %v, want %v", clone.timeout, DefaultTimeout/2)
	}
	if clone.path != tool.path {
		t.Errorf("clone path = %q, want %q", clone.path, tool.path)
	}
}
