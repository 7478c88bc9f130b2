package atacmd

import (
	"encoding/binary"
)

// FieldFormatting selects the ATA addressing mode of a command.
type FieldFormatting uint8

const (
	Command28Bit FieldFormatting = iota
	Command48Bit
)

func (f FieldFormatting) String() string {
	switch f {
	case Command28Bit:
		return "28-bit"
	case Command48Bit:
		return "48-bit"
	default:
		return "unknown"
	}
}

// DataAccess describes the data phase of a command.
type DataAccess uint8

const (
	DataAccessNone DataAccess = iota
	DataAccessRead
	DataAccessWrite
	DataAccessReadWrite
)

func (d DataAccess) String() string {
	switch d {
	case DataAccessNone:
		return "none"
	case DataAccessRead:
		return "read"
	case DataAccessWrite:
		return "write"
	case DataAccessReadWrite:
		return "read-write"
	default:
		return "unknown"
	}
}

// TransferMode is the ATA protocol a command's data phase uses.
type TransferMode uint8

const (
	TransferModeNonData TransferMode = iota
	TransferModePIO
	TransferModeDMA
)

func (t TransferMode) String() string {
	switch t {
	case TransferModeNonData:
		return "non-data"
	case TransferModePIO:
		return "pio"
	case TransferModeDMA:
		return "dma"
	default:
		return "unknown"
	}
}

const (
	// characteristicsLen is the encoded size of CommandCharacteristics.
	//
	// 1 byte : field formatting
	// 1 byte : data access
	// 1 byte : transfer mode
	// 1 byte : reserved
	// 4 bytes: data transfer length in bytes
	characteristicsLen = 1 + 1 + 1 + 1 + 4

	// taskFileLen is the encoded size of a TaskFileRegister.
	taskFileLen = 8
)

// CommandCharacteristics determines how command fields are laid out into
// registers and how the data phase is carried out.
type CommandCharacteristics struct {
	FieldFormatting    FieldFormatting
	DataAccess         DataAccess
	TransferMode       TransferMode
	DataTransferLength uint32
}

// MarshalBinary encodes c into its 8-byte wire form.
//
// MarshalBinary never returns an error.
func (c *CommandCharacteristics) MarshalBinary() ([]byte, error) {
	b := make([]byte, characteristicsLen)
	b[0] = uint8(c.FieldFormatting)
	b[1] = uint8(c.DataAccess)
	b[2] = uint8(c.TransferMode)

	// 1 byte reserved

	binary.LittleEndian.PutUint32(b[4:8], c.DataTransferLength)

	return b, nil
}

// UnmarshalBinary decodes c from its wire form.
//
// If b is too short, ErrorCodeBufferTooSmall is returned.
func (c *CommandCharacteristics) UnmarshalBinary(b []byte) error {
	if len(b) < characteristicsLen {
		return ErrorCodeBufferTooSmall
	}

	c.FieldFormatting = FieldFormatting(b[0])
	c.DataAccess = DataAccess(b[1])
	c.TransferMode = TransferMode(b[2])
	c.DataTransferLength = binary.LittleEndian.Uint32(b[4:8])

	return nil
}

// CommandFields are the protocol-agnostic inputs of an ATA command.
//
// Only the low 28 bits of Lba and the low bytes of Feature and Count are
// meaningful for 28-bit commands; only the low 48 bits of Lba are meaningful
// for 48-bit commands. Unused bits are ignored.
type CommandFields struct {
	Feature uint16
	Count   uint16
	Lba     uint64
	Device  uint8
	Command uint8
	ChsMode bool
}

// A TaskFileRegister mirrors the ATA task file register block, one byte
// per register.
type TaskFileRegister struct {
	Feature  uint8
	Count    uint8
	LbaLow   uint8
	LbaMid   uint8
	LbaHigh  uint8
	Device   uint8
	Command  uint8
	Reserved uint8
}
