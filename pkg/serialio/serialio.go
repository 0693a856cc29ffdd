// Package serialio provides the byte-oriented, blocking, timeout-bounded
// transport the console protocol is built on. Framing above this layer
// belongs entirely to the console; this package does no line discipline
// and no escape processing.
package serialio

import (
	"fmt"
	"io"
	"time"

	serial "github.com/tarm/goserial"
)

// Control bytes the console protocol exchanges outside of framed payloads.
const (
	CR     = 0x0D
	LF     = 0x0A
	ACK    = 0x06
	NAK    = 0x21
	Cancel = 0x18
)

const (
	// DefaultBaud is the console's factory baud rate.
	DefaultBaud = 19200
	// DefaultReadTimeout bounds every blocking read.
	DefaultReadTimeout = 3 * time.Second
)

// Port is the abstract byte-pipe the console protocol is written against.
// Keeping the protocol layer free of any concrete serial library makes it
// possible to unit test with ScriptedPort instead of real hardware.
type Port interface {
	io.Closer

	// Write sends all of p, failing on a short write.
	Write(p []byte) (int, error)

	// ReadFull reads exactly n bytes, failing with a timeout error if the
	// console goes quiet before n bytes arrive.
	ReadFull(n int) ([]byte, error)

	// WriteACK sends a single ACK byte.
	WriteACK() error

	// WaitForACK reads one byte and reports whether it was an ACK. Failure
	// to read at all is also reported as false; the caller decides how to
	// treat it.
	WaitForACK() bool
}

// SerialPort is the real transport, backed by a physical or USB-emulated
// serial device via github.com/tarm/goserial.
type SerialPort struct {
	rwc    io.ReadWriteCloser
	closed bool
}

// Config describes how to open a serial device.
type Config struct {
	Name        string
	Baud        int
	ReadTimeout time.Duration
}

// Open acquires the named port at the configured baud rate and read
// timeout, defaulting to 19200-8-N-1 with a 3s read timeout.
func Open(cfg Config) (*SerialPort, error) {
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}

	rwc, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Name,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opening serial port %s: %w", cfg.Name, err)
	}
	return &SerialPort{rwc: rwc}, nil
}

// Close releases the port. Idempotent: calls after the first return nil
// without touching the underlying goserial handle again.
func (p *SerialPort) Close() error {
	if p.rwc == nil || p.closed {
		return nil
	}
	p.closed = true
	return p.rwc.Close()
}

// Write sends all of p, failing on a short write.
func (p *SerialPort) Write(b []byte) (int, error) {
	n, err := p.rwc.Write(b)
	if err != nil {
		return n, fmt.Errorf("writing to console: %w", err)
	}
	if n != len(b) {
		return n, fmt.Errorf("short write to console: wrote %d of %d bytes", n, len(b))
	}
	return n, nil
}

// ReadFull reads exactly n bytes or fails with a timeout/short-read error.
func (p *SerialPort) ReadFull(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(p.rwc, buf); err != nil {
		return nil, fmt.Errorf("reading %d bytes from console: %w", n, err)
	}
	return buf, nil
}

// WriteACK sends a single ACK byte.
func (p *SerialPort) WriteACK() error {
	_, err := p.Write([]byte{ACK})
	return err
}

// WaitForACK reads one byte and reports whether it was an ACK.
func (p *SerialPort) WaitForACK() bool {
	b, err := p.ReadFull(1)
	if err != nil {
		return false
	}
	return b[0] == ACK
}
