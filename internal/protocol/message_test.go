package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    uint32
	}{
		{name: "empty", payload: nil, want: 0},
		{name: "single byte", payload: []byte{0x41}, want: 0x41},
		{name: "host banner", payload: []byte("host::\x00"), want: 562},
		{name: "high bytes do not truncate", payload: []byte{0xff, 0xff, 0xff}, want: 0x2fd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Checksum(tt.payload); got != tt.want {
				t.Errorf("Checksum() = 0x%x, want 0x%x", got, tt.want)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	if got := CommandString(CmdConnect); got != "CNXN" {
		t.Errorf("CommandString(CmdConnect) = %q, want %q", got, "CNXN")
	}
	if got := CommandString(CmdAuth); got != "AUTH" {
		t.Errorf("CommandString(CmdAuth) = %q, want %q", got, "AUTH")
	}
	if got := CommandString(0x00000001); got != "0x00000001" {
		t.Errorf("CommandString(0x1) = %q, want hex fallback", got)
	}
}

func TestNewConnect(t *testing.T) {
	m := NewConnect()

	if m.Command != CmdConnect {
		t.Errorf("Command = 0x%x, want CNXN", m.Command)
	}
	if m.Arg0 != Version {
		t.Errorf("Arg0 = 0x%x, want version 0x%x", m.Arg0, Version)
	}
	if m.Arg1 != MaxPayload {
		t.Errorf("Arg1 = %d, want %d", m.Arg1, MaxPayload)
	}
	if !bytes.HasPrefix(m.Payload, []byte("host::")) {
		t.Errorf("Payload = %q, want host banner", m.Payload)
	}
	if m.Payload[len(m.Payload)-1] != 0 {
		t.Error("Payload is not NUL-terminated")
	}
}

func TestMessage_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	sent := NewConnect()
	if err := WriteMessage(&buf, sent); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}

	if buf.Len() != HeaderSize+len(sent.Payload) {
		t.Errorf("encoded length = %d, want %d", buf.Len(), HeaderSize+len(sent.Payload))
	}

	got, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}

	if got.Command != sent.Command {
		t.Errorf("Command = 0x%x, want 0x%x", got.Command, sent.Command)
	}
	if got.Arg0 != sent.Arg0 || got.Arg1 != sent.Arg1 {
		t.Errorf("args = (0x%x, 0x%x), want (0x%x, 0x%x)", got.Arg0, got.Arg1, sent.Arg0, sent.Arg1)
	}
	if !bytes.Equal(got.Payload, sent.Payload) {
		t.Errorf("Payload = %q, want %q", got.Payload, sent.Payload)
	}
}

func TestReadMessage_Malformed(t *testing.T) {
	valid := NewConnect().Encode()

	corrupt := func(mutate func([]byte)) []byte {
		b := append([]byte(nil), valid...)
		mutate(b)
		return b
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "bad magic",
			data:    corrupt(func(b []byte) { b[20] ^= 0xff }),
			wantErr: ErrBadMagic,
		},
		{
			name:    "bad checksum",
			data:    corrupt(func(b []byte) { b[HeaderSize] ^= 0x01 }),
			wantErr: ErrBadChecksum,
		},
		{
			name: "oversized payload",
			data: corrupt(func(b []byte) {
				binary.LittleEndian.PutUint32(b[12:], MaxPayload+1)
			}),
			wantErr: ErrPayloadTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadMessage(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadMessage() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadMessage_ShortInput(t *testing.T) {
	valid := NewConnect().Encode()

	// Truncated header and truncated payload both surface as read errors.
	for _, n := range []int{0, 5, HeaderSize - 1, HeaderSize + 2} {
		_, err := ReadMessage(bytes.NewReader(valid[:n]))
		if err == nil {
			t.Errorf("ReadMessage() with %d bytes: expected error, got nil", n)
		}
		if !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			t.Errorf("ReadMessage() with %d bytes: error = %v, want EOF kind", n, err)
		}
	}
}
