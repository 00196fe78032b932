package acquire

import "errors"

// Source is anything that can yield raw text samples over time: the serial
// rig, a replay file, or a mock for development without hardware.
type Source interface {
	// Next returns one raw sample with the line terminator stripped. Empty
	// and malformed samples are ordinary; the caller rejects and keeps
	// polling.
	Next() (string, error)

	Close() error
}

// ErrStall reports that no valid sample arrived within the configured bound.
var ErrStall = errors.New("no valid sample from the rig within the deadline")
