// Package protocol implements the minimal subset of the ADB transport
// wire format needed to probe a remote adbd endpoint.
//
// A full ADB session is out of scope: the scanner sends exactly one
// CNXN message and reads exactly one message back. That single
// exchange is enough to tell an adb daemon apart from any other TCP
// listener and, when the daemon answers with its own CNXN, to harvest
// the identity properties from its connection banner.
//
// # Message Format
//
// Every ADB transport message starts with a 24-byte header of six
// little-endian uint32 fields:
//
//	command   message type (CNXN, AUTH, ...)
//	arg0      first argument (protocol version for CNXN)
//	arg1      second argument (maximum payload size for CNXN)
//	length    payload length in bytes
//	checksum  unsigned byte sum of the payload
//	magic     command XOR 0xFFFFFFFF
//
// The payload follows immediately after the header.
//
// # Connection Banner
//
// A CNXN payload is a textual banner of the form
//
//	device::ro.product.name=x;ro.product.model=y;features=a,b
//
// which ParseBanner turns into an Identity. A daemon that requires key
// exchange replies with AUTH instead; that still identifies the
// endpoint as an ADB server, just one whose properties cannot be read
// without authenticating.
package protocol
