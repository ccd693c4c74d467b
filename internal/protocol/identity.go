package protocol

import (
	"fmt"
	"strings"
)

// Well-known banner property keys.
const (
	PropProduct = "ro.product.name"
	PropModel   = "ro.product.model"
	PropDevice  = "ro.product.device"
)

// Identity describes what an endpoint said about itself during the
// handshake. It carries enough information to open a full client
// connection later (the address is attached by the scanner).
type Identity struct {
	// Type is the banner system type, typically "device". Empty when
	// the endpoint required authentication before identifying itself.
	Type string

	// Serial is the banner serial number field, usually empty for
	// TCP/IP devices.
	Serial string

	// Product, Model and Device are the standard identifying
	// properties from the banner, when present.
	Product string
	Model   string
	Device  string

	// Features lists the transport features the endpoint advertised.
	Features []string

	// AuthRequired is set when the endpoint answered with AUTH: it is
	// an ADB server, but its properties are hidden until a key
	// exchange this probe does not perform.
	AuthRequired bool

	// Banner is the raw banner text, preserved for debugging.
	Banner string
}

// ParseBanner parses a CNXN connection banner of the form
// "type:serial:prop=val;prop=val;...". The trailing NUL, if present,
// is stripped. Unknown properties are ignored.
func ParseBanner(banner string) (*Identity, error) {
	banner = strings.TrimRight(banner, "\x00")
	parts := strings.SplitN(banner, ":", 3)
	if len(parts) < 3 {
		return nil, fmt.Errorf("protocol: malformed banner %q", banner)
	}

	id := &Identity{
		Type:   parts[0],
		Serial: parts[1],
		Banner: banner,
	}

	for _, pair := range strings.Split(parts[2], ";") {
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case PropProduct:
			id.Product = kv[1]
		case PropModel:
			id.Model = kv[1]
		case PropDevice:
			id.Device = kv[1]
		case "features":
			id.Features = strings.Split(kv[1], ",")
		}
	}

	return id, nil
}

// IdentityFromMessage interprets the reply to a connect probe. A CNXN
// reply yields a parsed identity; an AUTH reply yields an identity
// with AuthRequired set. Any other command means the remote side is
// not an ADB endpoint.
func IdentityFromMessage(m *Message) (*Identity, error) {
	switch m.Command {
	case CmdConnect:
		return ParseBanner(string(m.Payload))
	case CmdAuth:
		return &Identity{AuthRequired: true}, nil
	default:
		return nil, fmt.Errorf("protocol: unexpected reply %s", CommandString(m.Command))
	}
}

// String renders the identity in the compact form used by scan output,
// mirroring the `adb devices -l` column layout.
func (id *Identity) String() string {
	if id.AuthRequired {
		return "unauthorized"
	}
	fields := make([]string, 0, 3)
	if id.Product != "" {
		fields = append(fields, "product:"+id.Product)
	}
	if id.Model != "" {
		fields = append(fields, "model:"+id.Model)
	}
	if id.Device != "" {
		fields = append(fields, "device:"+id.Device)
	}
	if len(fields) == 0 {
		return id.Type
	}
	return id.Type + " " + strings.Join(fields, " ")
}
