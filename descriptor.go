package atacmd

import (
	"github.com/HewlettPackard/structex"
	uuid "github.com/satori/go.uuid"
)

const (
	// ataDescriptorPayloadLen is the encoded size of an ATA command
	// descriptor payload.
	//
	// 8 bytes: command characteristics
	// 2 bytes: feature
	// 2 bytes: count
	// 4 bytes: reserved
	// 8 bytes: lba
	// 1 byte : device
	// 1 byte : command
	// 1 byte : chs mode flag
	// 5 bytes: reserved
	ataDescriptorPayloadLen = characteristicsLen + 2 + 2 + 4 + 8 + 1 + 1 + 1 + 5

	// AtaCommandDescriptorSize is the size of a buffer holding an ATA command
	// descriptor.
	AtaCommandDescriptorSize = HeaderSize + ataDescriptorPayloadLen
)

// A CommandDescriptor is a classified command descriptor buffer. The only
// variant is *AtaCommandDescriptor; callers switch on the concrete type.
type CommandDescriptor interface {
	Format() uuid.UUID

	isCommandDescriptor()
}

// ataDescriptorPayload is the wire layout of an ATA command descriptor
// payload, little-endian and without padding.
type ataDescriptorPayload struct {
	FieldFormatting    uint8
	DataAccess         uint8
	TransferMode       uint8
	Reserved0          uint8
	DataTransferLength uint32
	Feature            uint16
	Count              uint16
	Reserved1          uint32
	Lba                uint64
	Device             uint8
	Command            uint8
	ChsMode            uint8
	Reserved2          uint8
	Reserved3          uint32
}

// An AtaCommandDescriptor is the decoded form of an ATA command descriptor
// buffer.
type AtaCommandDescriptor struct {
	characteristics CommandCharacteristics
	fields          CommandFields
}

var (
	// Compile-time interface check
	_ CommandDescriptor = &AtaCommandDescriptor{}
)

func (d *AtaCommandDescriptor) isCommandDescriptor() {}

// Format returns AtaCommandDescriptorFormat.
func (d *AtaCommandDescriptor) Format() uuid.UUID {
	return AtaCommandDescriptorFormat
}

// CommandCharacteristics returns the characteristics carried by the
// descriptor.
func (d *AtaCommandDescriptor) CommandCharacteristics() CommandCharacteristics {
	return d.characteristics
}

// CommandFields returns the command fields carried by the descriptor.
func (d *AtaCommandDescriptor) CommandFields() CommandFields {
	return d.fields
}

// NewAtaCommandDescriptor allocates a descriptor buffer holding c and f.
func NewAtaCommandDescriptor(c CommandCharacteristics, f CommandFields) (*Buffer, error) {
	buf := NewBuffer(AtaCommandDescriptorSize)
	if err := WriteAtaCommandDescriptor(buf, c, f); err != nil {
		return nil, err
	}

	return buf, nil
}

// WriteAtaCommandDescriptor initializes buf as an ATA command descriptor
// holding c and f.
//
// If buf is smaller than AtaCommandDescriptorSize, ErrorCodeBufferTooSmall is
// returned.
func WriteAtaCommandDescriptor(buf *Buffer, c CommandCharacteristics, f CommandFields) error {
	if buf.Len() < AtaCommandDescriptorSize {
		return ErrorCodeBufferTooSmall
	}

	w, err := Writer(buf)
	if err != nil {
		return err
	}
	if err := w.SetFormat(AtaCommandDescriptorFormat); err != nil {
		return err
	}

	p := &ataDescriptorPayload{
		FieldFormatting:    uint8(c.FieldFormatting),
		DataAccess:         uint8(c.DataAccess),
		TransferMode:       uint8(c.TransferMode),
		DataTransferLength: c.DataTransferLength,
		Feature:            f.Feature,
		Count:              f.Count,
		Lba:                f.Lba,
		Device:             f.Device,
		Command:            f.Command,
	}
	if f.ChsMode {
		p.ChsMode = 1
	}

	b, err := structex.EncodeByteBuffer(p)
	if err != nil {
		return err
	}
	copy(w.Payload(), b)

	return nil
}

// ReadAtaCommandDescriptor decodes an ATA command descriptor from buf.
//
// If buf does not carry AtaCommandDescriptorFormat, or is too short to carry
// any header at all, ErrorCodeFormatNotSupported is returned. If the header
// matches but the payload is truncated, ErrorCodeBufferTooSmall is returned.
func ReadAtaCommandDescriptor(buf *Buffer) (*AtaCommandDescriptor, error) {
	format, err := FormatOf(buf)
	if err != nil || !uuid.Equal(format, AtaCommandDescriptorFormat) {
		return nil, ErrorCodeFormatNotSupported
	}

	r, err := Reader(buf)
	if err != nil {
		return nil, err
	}
	payload := r.Payload()
	if len(payload) < ataDescriptorPayloadLen {
		return nil, ErrorCodeBufferTooSmall
	}

	p := new(ataDescriptorPayload)
	sb := structex.NewBuffer(p)
	if sb == nil {
		return nil, ErrorCodeBufferTooSmall
	}
	copy(sb.Bytes(), payload)
	if err := structex.Decode(sb, p); err != nil {
		return nil, err
	}

	return &AtaCommandDescriptor{
		characteristics: CommandCharacteristics{
			FieldFormatting:    FieldFormatting(p.FieldFormatting),
			DataAccess:         DataAccess(p.DataAccess),
			TransferMode:       TransferMode(p.TransferMode),
			DataTransferLength: p.DataTransferLength,
		},
		fields: CommandFields{
			Feature: p.Feature,
			Count:   p.Count,
			Lba:     p.Lba,
			Device:  p.Device,
			Command: p.Command,
			ChsMode: p.ChsMode != 0,
		},
	}, nil
}

// ClassifyDescriptor inspects the format identifier of buf and decodes it
// into the matching CommandDescriptor variant.
//
// If no variant matches, ErrorCodeFormatNotSupported is returned.
func ClassifyDescriptor(buf *Buffer) (CommandDescriptor, error) {
	format, err := FormatOf(buf)
	if err != nil {
		return nil, ErrorCodeFormatNotSupported
	}

	switch {
	case uuid.Equal(format, AtaCommandDescriptorFormat):
		d, err := ReadAtaCommandDescriptor(buf)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, ErrorCodeFormatNotSupported
	}
}
