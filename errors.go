package atacmd

import (
	"errors"
)

// An ErrorCode is a result code produced by the translation layer.
//
// ErrorCodeNone is never returned as an error; a successful call returns nil.
// Errors produced by a Protocol are returned unchanged and are not
// ErrorCode values unless the Protocol chose to return one.
type ErrorCode uint32

const (
	ErrorCodeNone ErrorCode = iota

	// ErrorCodeFormatNotSupported is returned when a command descriptor's
	// header does not carry the format identifier a consumer expects.
	ErrorCodeFormatNotSupported

	// ErrorCodeBufferTooSmall is returned when a buffer cannot hold the
	// structure it claims to encode.
	ErrorCodeBufferTooSmall

	// ErrorCodeReadOnlyBuffer is returned when a write is attempted through a
	// reader view.
	ErrorCodeReadOnlyBuffer

	// ErrorCodeInvalidHandle is returned by a Protocol that cannot use the
	// DeviceHandle it was given.
	ErrorCodeInvalidHandle

	// ErrorCodeInvalidEssence is returned by a Protocol handed a register
	// layout buffer it cannot interpret.
	ErrorCodeInvalidEssence

	// ErrorCodeProtocolFailed is returned when a device or controller
	// reports a failed command completion.
	ErrorCodeProtocolFailed

	// ErrorCodeInvalidParameter is returned by command helpers given
	// arguments no ATA command can carry.
	ErrorCodeInvalidParameter
)

// Error returns the string representation of an ErrorCode.
func (e ErrorCode) Error() string {
	return e.String()
}

func (e ErrorCode) String() string {
	switch e {
	case ErrorCodeNone:
		return "none"
	case ErrorCodeFormatNotSupported:
		return "format not supported"
	case ErrorCodeBufferTooSmall:
		return "buffer too small"
	case ErrorCodeReadOnlyBuffer:
		return "read-only buffer"
	case ErrorCodeInvalidHandle:
		return "invalid device handle"
	case ErrorCodeInvalidEssence:
		return "invalid register layout"
	case ErrorCodeProtocolFailed:
		return "protocol failed"
	case ErrorCodeInvalidParameter:
		return "invalid parameter"
	default:
		return "unknown"
	}
}

// CodeOf reports the ErrorCode carried by err. A nil error maps to
// ErrorCodeNone and an error without a code maps to ErrorCodeProtocolFailed.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrorCodeNone
	}

	var code ErrorCode
	if errors.As(err, &code) {
		return code
	}

	return ErrorCodeProtocolFailed
}
