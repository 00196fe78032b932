package acquire

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	serial "github.com/jacobsa/go-serial/serial"
)

// idleTimeoutMs bounds a single port read. A silent rig then surfaces as a
// stream of empty samples instead of a read that never returns, so the
// caller's deadline stays live.
const idleTimeoutMs = 100

type serialSource struct {
	port    io.ReadWriteCloser
	reader  *bufio.Reader
	partial []byte
}

// OpenSerial opens the rig's serial port as a line source. Reads are
// non-blocking: a port that stays idle past the inter-character timeout
// yields an empty sample.
func OpenSerial(portName string, baud uint) (Source, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              baud,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       0,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: idleTimeoutMs,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}

	return &serialSource{
		port:   port,
		reader: bufio.NewReader(port),
	}, nil
}

// Next accumulates bytes until a newline. A timed-out empty read returns an
// empty sample; an incomplete line is kept for the following call.
func (s *serialSource) Next() (string, error) {
	for {
		b, err := s.reader.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrNoProgress) {
				return "", nil
			}
			return "", fmt.Errorf("serial read: %w", err)
		}
		switch b {
		case '\r':
			// swallowed, lines end on '\n'
		case '\n':
			line := string(s.partial)
			s.partial = s.partial[:0]
			return line, nil
		default:
			s.partial = append(s.partial, b)
		}
	}
}

func (s *serialSource) Close() error {
	return s.port.Close()
}
