package client

import (
	"context"
	"fmt"
	"strings"
)

// Package management operations, backed by `adb install` and the
// on-device package manager.

// Install sideloads a local apk onto the device. Replacing an
// existing installation is allowed.
func (c *Client) Install(ctx context.Context, apkPath string) error {
	out, err := c.tool.Exec(ctx, c.serial, "install", "-r", apkPath)
	if err != nil {
		return classifyExecError(c.serial, err)
	}
	// install reports failures on stdout with a zero exit code
	if strings.Contains(out.Stdout, "Failure") {
		return &ClientError{
			Type:    ErrTypeExec,
			Message: fmt.Sprintf("install failed: %s", installFailureReason(out.Stdout)),
			Serial:  c.serial,
		}
	}
	return nil
}

// Uninstall removes a package from the device.
func (c *Client) Uninstall(ctx context.Context, packageName string) error {
	out, err := c.tool.Exec(ctx, c.serial, "uninstall", packageName)
	if err != nil {
		return classifyExecError(c.serial, err)
	}
	if strings.Contains(out.Stdout, "Failure") {
		return &ClientError{
			Type:    ErrTypeExec,
			Message: fmt.Sprintf("uninstall failed: %s", installFailureReason(out.Stdout)),
			Serial:  c.serial,
		}
	}
	return nil
}

// ListPackages returns the package names installed on the device.
func (c *Client) ListPackages(ctx context.Context) ([]string, error) {
	out, err := c.Shell(ctx, "pm", "list", "packages")
	if err != nil {
		return nil, err
	}
	return ParsePackageList(out), nil
}

// IsInstalled reports whether a package is present on the device.
func (c *Client) IsInstalled(ctx context.Context, packageName string) (bool, error) {
	packages, err := c.ListPackages(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range packages {
		if p == packageName {
			return true, nil
		}
	}
	return false, nil
}

// ParsePackageList parses `pm list packages` output, one
// `package:<name>` entry per line.
func ParsePackageList(output string) []string {
	var packages []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		name, ok := strings.CutPrefix(line, "package:")
		if !ok || name == "" {
			continue
		}
		packages = append(packages, name)
	}
	return packages
}

// installFailureReason extracts the bracketed reason from an install
// or uninstall failure line, e.g. "Failure [INSTALL_FAILED_OLDER_SDK]".
func installFailureReason(output string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Failure") {
			if start := strings.IndexByte(line, '['); start >= 0 {
				if end := strings.IndexByte(line[start:], ']'); end > 0 {
					return line[start+1 : start+end]
				}
			}
			return line
		}
	}
	return strings.TrimSpace(output)
}
