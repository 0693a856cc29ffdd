// Package vantage implements the wire protocol client for Davis-style
// weather console dataloggers: the wake-up handshake, the GETTIME/SETTIME/
// DMPAFT command frames, the CRC-16/XMODEM framing, and the archive-record
// codec and unit engine. The serial link itself is abstracted behind
// pkg/serialio.Port so the protocol can be exercised against an in-memory
// scripted pipe in tests.
//
// Device-specific framing was ported from the station-logger utility this
// client replaces; see SPEC_FULL.md for the full protocol description.
package vantage

import (
	"bytes"
	"fmt"
	"time"

	"github.com/sievlla/vantageclient/pkg/crc16"
	"github.com/sievlla/vantageclient/pkg/serialio"
	"go.uber.org/zap"
)

// DefaultWakeRetries is how many LF/CRLF exchanges WakeUp attempts before
// giving up, absent an override in Config.
const DefaultWakeRetries = 3

// Station is one protocol session. It exclusively owns port for its
// lifetime: no other caller should read or write the transport while a
// Station method is in flight, and none of its operations are safe to
// call concurrently with each other.
type Station struct {
	port   serialio.Port
	cfg    Config
	logger *zap.SugaredLogger
}

// NewStation builds a protocol session over an already-open transport,
// using cfg for units/collector/altitude/retries. logger receives all of
// this session's diagnostic output; it is never a process-global (see
// SPEC_FULL.md design notes) -- pass zap.NewNop().Sugar() if you don't
// want any.
func NewStation(port serialio.Port, cfg Config, logger *zap.SugaredLogger) *Station {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Station{port: port, cfg: cfg, logger: logger}
}

// WakeUp takes the console out of low-power sleep. It sends a single LF
// and looks for the LF-CR reply, retrying up to cfg.WakeRetries times
// (default 3). Every other operation assumes the console is already
// awake; callers should invoke WakeUp first.
func (s *Station) WakeUp() error {
	retries := s.cfg.wakeRetries()
	for i := 0; i < retries; i++ {
		if _, err := s.port.Write([]byte{serialio.LF}); err != nil {
			return &TransportError{Op: "wake-up", Err: err}
		}
		reply, err := s.port.ReadFull(2)
		if err != nil {
			s.logger.Debugw("wake-up attempt got no reply", "attempt", i+1, "error", err)
			continue
		}
		if reply[0] == serialio.LF && reply[1] == serialio.CR {
			s.logger.Debugw("console woke up", "attempts", i+1)
			return nil
		}
	}
	return &HandshakeError{Op: "wake-up", Err: ErrNotResponding}
}

// TestComm sends the TEST command and reports whether the console echoed
// the expected banner. Callers generally ignore the result; it exists for
// parity with the source protocol. Unlike the source, the comparison is
// byte-for-byte (SPEC_FULL.md open question 4).
func (s *Station) TestComm() (bool, error) {
	if _, err := s.port.Write([]byte("TEST\n")); err != nil {
		return false, &TransportError{Op: "test_comm", Err: err}
	}
	reply, err := s.port.ReadFull(8)
	if err != nil {
		return false, &TransportError{Op: "test_comm", Err: err}
	}
	return bytes.Equal(reply, []byte("\n\rTEST\n\r")), nil
}

// GetTime reads the console's current wall-clock time. The returned time
// is zone-naive (UTC is used as a neutral placeholder; see Record.In and
// SPEC_FULL.md design note 5) -- the console does not know its own zone.
func (s *Station) GetTime() (time.Time, error) {
	if _, err := s.port.Write([]byte("GETTIME\n")); err != nil {
		return time.Time{}, &TransportError{Op: "get_time", Err: err}
	}
	if !s.port.WaitForACK() {
		return time.Time{}, &HandshakeError{Op: "get_time", Err: ErrNoACK}
	}

	payload, err := s.port.ReadFull(6)
	if err != nil {
		return time.Time{}, &TransportError{Op: "get_time", Err: err}
	}
	crcBytes, err := s.port.ReadFull(2)
	if err != nil {
		return time.Time{}, &TransportError{Op: "get_time", Err: err}
	}
	wireCRC := uint16(crcBytes[0])<<8 | uint16(crcBytes[1])
	if !crc16.Verify(payload, wireCRC) {
		return time.Time{}, &CrcMismatchError{Op: "get_time"}
	}

	second, minute, hour, day, month, yearOffset := payload[0], payload[1], payload[2], payload[3], payload[4], payload[5]
	year := 1900 + int(yearOffset)
	return time.Date(year, time.Month(month), int(day), int(hour), int(minute), int(second), 0, time.UTC), nil
}

// SetTime pushes dt to the console as its wall-clock time. dt is
// transmitted exactly as given -- in whatever zone the caller chose, the
// console stores only the wall-clock fields (SPEC_FULL.md design note 5).
func (s *Station) SetTime(dt time.Time) error {
	if _, err := s.port.Write([]byte("SETTIME\n")); err != nil {
		return &TransportError{Op: "set_time", Err: err}
	}
	if !s.port.WaitForACK() {
		return &HandshakeError{Op: "set_time", Err: ErrNoACK}
	}

	frame := []byte{
		byte(dt.Second()), byte(dt.Minute()), byte(dt.Hour()),
		byte(dt.Day()), byte(dt.Month()), byte(dt.Year() - 1900),
	}
	framed := crc16.AppendBigEndian(frame)
	if _, err := s.port.Write(framed); err != nil {
		return &TransportError{Op: "set_time", Err: err}
	}
	if !s.port.WaitForACK() {
		return &HandshakeError{Op: "set_time", Err: ErrNoACK}
	}
	return nil
}

// StationCode sends the optional WRD helper command and returns the
// console's single signed status byte.
func (s *Station) StationCode() (int8, error) {
	if _, err := s.port.Write([]byte("WRD")); err != nil {
		return 0, &TransportError{Op: "station_code", Err: err}
	}
	if _, err := s.port.Write([]byte{0x12, 0x4D}); err != nil {
		return 0, &TransportError{Op: "station_code", Err: err}
	}
	if _, err := s.port.Write([]byte("\n")); err != nil {
		return 0, &TransportError{Op: "station_code", Err: err}
	}
	if !s.port.WaitForACK() {
		return 0, &HandshakeError{Op: "station_code", Err: ErrNoACK}
	}
	b, err := s.port.ReadFull(1)
	if err != nil {
		return 0, &TransportError{Op: "station_code", Err: err}
	}
	return int8(b[0]), nil
}

// GetArchiveData downloads every archive record timestamped strictly
// after since, decodes it with the session's configured units, and
// returns the records sorted by timestamp ascending. A page that fails
// its CRC is dropped and the download continues without retransmission
// (SPEC_FULL.md open question 1); a slot that fails the validity
// predicate is silently skipped.
func (s *Station) GetArchiveData(since time.Time) ([]Record, error) {
	if _, err := s.port.Write([]byte("DMPAFT\n")); err != nil {
		return nil, &TransportError{Op: "dmpaft", Err: err}
	}
	if !s.port.WaitForACK() {
		return nil, &HandshakeError{Op: "dmpaft", Err: ErrNoACK}
	}

	sinceFrame := crc16.AppendBigEndian(packedSince(since))
	if _, err := s.port.Write(sinceFrame); err != nil {
		return nil, &TransportError{Op: "dmpaft", Err: err}
	}
	if !s.port.WaitForACK() {
		return nil, &HandshakeError{Op: "dmpaft", Err: ErrNoACK}
	}

	header, err := s.port.ReadFull(4)
	if err != nil {
		return nil, &TransportError{Op: "dmpaft header", Err: err}
	}
	headerCRCBytes, err := s.port.ReadFull(2)
	if err != nil {
		return nil, &TransportError{Op: "dmpaft header", Err: err}
	}
	headerCRC := uint16(headerCRCBytes[0])<<8 | uint16(headerCRCBytes[1])
	if !crc16.Verify(header, headerCRC) {
		return nil, &CrcMismatchError{Op: "dmpaft header"}
	}

	numPages := int(header[0]) | int(header[1])<<8
	validRecord := int(header[2]) | int(header[3])<<8
	s.logger.Infow("starting archive download", "pages", numPages, "first_valid_record", validRecord)

	if err := s.port.WriteACK(); err != nil {
		return nil, &TransportError{Op: "dmpaft", Err: err}
	}

	var records []Record
	for page := 0; page < numPages; page++ {
		pageData, err := s.port.ReadFull(267)
		if err != nil {
			return nil, &TransportError{Op: fmt.Sprintf("dmpaft page %d", page), Err: err}
		}
		body := pageData[:265]
		crcBytes := pageData[265:267]
		wireCRC := uint16(crcBytes[0])<<8 | uint16(crcBytes[1])

		if !crc16.Verify(body, wireCRC) {
			s.logger.Warnw("dropping archive page with bad CRC", "page", page)
			continue
		}
		if err := s.port.WriteACK(); err != nil {
			return nil, &TransportError{Op: fmt.Sprintf("dmpaft page %d ack", page), Err: err}
		}

		for slot := 0; slot < 5; slot++ {
			if page == 0 && slot < validRecord {
				continue
			}
			start := 1 + slot*recordSize
			raw := body[start : start+recordSize]
			if !isValidSlot(raw) {
				continue
			}
			rec, err := decodeRecord(s.cfg, raw)
			if err != nil {
				s.logger.Warnw("dropping unparsable archive slot", "page", page, "slot", slot, "error", err)
				continue
			}
			if rec.Timestamp.After(since) {
				records = append(records, rec)
			}
		}
	}

	sortRecordsByTimestamp(records)
	return records, nil
}
