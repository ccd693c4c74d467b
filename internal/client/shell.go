package client

import (
	"context"
	"regexp"
	"strings"
)

// getprop with no arguments prints `[key]: [value]` per line.
var propLineRe = regexp.MustCompile(`^\[([^\]]+)\]:\s*\[(.*)\]$`)

// Shell runs a shell command on the device and returns its combined
// stdout with the trailing newline trimmed.
func (c *Client) Shell(ctx context.Context, args ...string) (string, error) {
	argv := append([]string{"shell"}, args...)
	out, err := c.tool.Exec(ctx, c.serial, argv...)
	if err != nil {
		return "", classifyExecError(c.serial, err)
	}
	return strings.TrimRight(out.Stdout, "\r\n"), nil
}

// GetProp reads a single system property. Unset properties come back
// as the empty string, matching getprop behavior.
func (c *Client) GetProp(ctx context.Context, key string) (string, error) {
	return c.Shell(ctx, "getprop", key)
}

// GetProps reads all system properties into a map.
func (c *Client) GetProps(ctx context.Context) (map[string]string, error) {
	out, err := c.Shell(ctx, "getprop")
	if err != nil {
		return nil, err
	}
	return ParseProps(out), nil
}

// SetProp writes a system property. Most ro.* properties are
// immutable after boot and silently keep their value.
func (c *Client) SetProp(ctx context.Context, key, value string) error {
	if value == "" {
		// setprop rejects a missing argument; an explicit empty
		// string clears the property.
		value = `""`
	}
	_, err := c.Shell(ctx, "setprop", key, value)
	return err
}

// ParseProps parses `getprop` full-listing output. Lines that do not
// match the bracketed form are skipped; multi-line property values
// only keep their first line.
func ParseProps(output string) map[string]string {
	props := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		m := propLineRe.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		props[m[1]] = m[2]
	}
	return props
}
