package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Commands understood by the probe. The values are the little-endian
// interpretation of the four ASCII bytes of the command name.
const (
	CmdConnect uint32 = 0x4e584e43 // "CNXN"
	CmdAuth    uint32 = 0x48545541 // "AUTH"
)

const (
	// Version is the ADB protocol version sent in CNXN arg0.
	Version uint32 = 0x01000000

	// MaxPayload is the maximum payload size the probe advertises and
	// accepts. Anything larger in a reply is treated as malformed.
	MaxPayload = 256 * 1024

	// HeaderSize is the fixed size of a message header in bytes.
	HeaderSize = 24

	// connectBanner identifies the probe as a host-side connection.
	// The trailing NUL terminates the banner per the wire format.
	connectBanner = "host::\x00"
)

var (
	// ErrBadMagic is returned when a header's magic field is not the
	// complement of its command field.
	ErrBadMagic = errors.New("protocol: header magic does not match command")

	// ErrBadChecksum is returned when the payload byte sum does not
	// match the checksum field.
	ErrBadChecksum = errors.New("protocol: payload checksum mismatch")

	// ErrPayloadTooLarge is returned when a header announces a payload
	// larger than MaxPayload.
	ErrPayloadTooLarge = errors.New("protocol: announced payload exceeds maximum")
)

// Message is a single ADB transport message: a fixed header plus an
// optional payload.
type Message struct {
	Command uint32
	Arg0    uint32
	Arg1    uint32
	Payload []byte
}

// Checksum computes the ADB payload checksum: the unsigned sum of all
// payload bytes.
func Checksum(payload []byte) uint32 {
	var sum uint32
	for _, b := range payload {
		sum += uint32(b)
	}
	return sum
}

// CommandString renders a command word as its four ASCII bytes, for
// logging and error messages. Non-printable bytes are escaped.
func CommandString(cmd uint32) string {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], cmd)
	for _, b := range buf {
		if b < 0x20 || b > 0x7e {
			return fmt.Sprintf("0x%08x", cmd)
		}
	}
	return string(buf[:])
}

// Encode serializes the message into wire format.
func (m *Message) Encode() []byte {
	buf := make([]byte, HeaderSize+len(m.Payload))
	binary.LittleEndian.PutUint32(buf[0:], m.Command)
	binary.LittleEndian.PutUint32(buf[4:], m.Arg0)
	binary.LittleEndian.PutUint32(buf[8:], m.Arg1)
	binary.LittleEndian.PutUint32(buf[12:], uint32(len(m.Payload)))
	binary.LittleEndian.PutUint32(buf[16:], Checksum(m.Payload))
	binary.LittleEndian.PutUint32(buf[20:], m.Command^0xffffffff)
	copy(buf[HeaderSize:], m.Payload)
	return buf
}

// NewConnect builds the CNXN message the probe sends to an endpoint.
func NewConnect() *Message {
	return &Message{
		Command: CmdConnect,
		Arg0:    Version,
		Arg1:    MaxPayload,
		Payload: []byte(connectBanner),
	}
}

// WriteMessage writes a message to w in wire format.
func WriteMessage(w io.Writer, m *Message) error {
	if _, err := w.Write(m.Encode()); err != nil {
		return fmt.Errorf("protocol: write %s: %w", CommandString(m.Command), err)
	}
	return nil
}

// ReadMessage reads and validates a single message from r. It returns
// an error for short reads, bad magic, oversized payloads, and
// checksum mismatches; all of these mean the remote side is not a
// well-behaved ADB endpoint.
func ReadMessage(r io.Reader) (*Message, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("protocol: read header: %w", err)
	}

	m := &Message{
		Command: binary.LittleEndian.Uint32(header[0:]),
		Arg0:    binary.LittleEndian.Uint32(header[4:]),
		Arg1:    binary.LittleEndian.Uint32(header[8:]),
	}
	length := binary.LittleEndian.Uint32(header[12:])
	checksum := binary.LittleEndian.Uint32(header[16:])
	magic := binary.LittleEndian.Uint32(header[20:])

	if magic != m.Command^0xffffffff {
		return nil, ErrBadMagic
	}
	if length > MaxPayload {
		return nil, ErrPayloadTooLarge
	}

	if length > 0 {
		m.Payload = make([]byte, length)
		if _, err := io.ReadFull(r, m.Payload); err != nil {
			return nil, fmt.Errorf("protocol: read %s payload: %w", CommandString(m.Command), err)
		}
		if Checksum(m.Payload) != checksum {
			return nil, ErrBadChecksum
		}
	}

	return m, nil
}
