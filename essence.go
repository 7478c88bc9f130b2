package atacmd

import (
	"bytes"
	"encoding/binary"

	uuid "github.com/satori/go.uuid"
)

const (
	// EssenceAta1Size is the size of a buffer holding the ATA register
	// layout.
	//
	// 24 bytes: header
	//  8 bytes: command characteristics
	//  8 bytes: task file
	//  8 bytes: task file ext
	EssenceAta1Size = HeaderSize + characteristicsLen + taskFileLen + taskFileLen

	characteristicsOff = 0
	taskFileOff        = characteristicsOff + characteristicsLen
	taskFileExtOff     = taskFileOff + taskFileLen
)

// PackedBytes packs a TaskFileRegister in register order.
func (t *TaskFileRegister) PackedBytes() []byte {
	b := new(bytes.Buffer)
	binary.Write(b, binary.LittleEndian, t)
	return b.Bytes()
}

// EssenceAta1 is the ATA task file register layout a Protocol receives: the
// command characteristics followed by the primary and extended task file
// registers.
type EssenceAta1 struct {
	f *Formatter
}

// EssenceAta1Writer initializes buf as a register layout.
//
// If buf is smaller than EssenceAta1Size, ErrorCodeBufferTooSmall is
// returned.
func EssenceAta1Writer(buf *Buffer) (*EssenceAta1, error) {
	if buf.Len() < EssenceAta1Size {
		return nil, ErrorCodeBufferTooSmall
	}

	f, err := Writer(buf)
	if err != nil {
		return nil, err
	}
	if err := f.SetFormat(EssenceAta1Format); err != nil {
		return nil, err
	}

	return &EssenceAta1{f: f}, nil
}

// EssenceAta1Reader returns a read-only view over a register layout.
//
// If buf does not carry EssenceAta1Format or is truncated,
// ErrorCodeInvalidEssence is returned.
func EssenceAta1Reader(buf *Buffer) (*EssenceAta1, error) {
	f, err := Reader(buf)
	if err != nil {
		return nil, ErrorCodeInvalidEssence
	}
	if !uuid.Equal(f.Header().Format, EssenceAta1Format) {
		return nil, ErrorCodeInvalidEssence
	}
	if len(f.Payload()) < EssenceAta1Size-HeaderSize {
		return nil, ErrorCodeInvalidEssence
	}

	return &EssenceAta1{f: f}, nil
}

// CommandCharacteristics decodes the characteristics field.
func (e *EssenceAta1) CommandCharacteristics() CommandCharacteristics {
	var c CommandCharacteristics
	_ = c.UnmarshalBinary(e.f.Payload()[characteristicsOff:])
	return c
}

// SetCommandCharacteristics stores c in the characteristics field.
func (e *EssenceAta1) SetCommandCharacteristics(c CommandCharacteristics) error {
	if !e.f.Writable() {
		return ErrorCodeReadOnlyBuffer
	}

	b, _ := c.MarshalBinary()
	copy(e.f.Payload()[characteristicsOff:], b)
	return nil
}

// TaskFile decodes the primary task file register.
func (e *EssenceAta1) TaskFile() TaskFileRegister {
	return e.taskFileAt(taskFileOff)
}

// TaskFileExt decodes the extended task file register. It is all zero for
// 28-bit commands.
func (e *EssenceAta1) TaskFileExt() TaskFileRegister {
	return e.taskFileAt(taskFileExtOff)
}

// SetTaskFiles stores the primary and extended task file registers.
func (e *EssenceAta1) SetTaskFiles(tf, tfExt TaskFileRegister) error {
	if !e.f.Writable() {
		return ErrorCodeReadOnlyBuffer
	}

	p := e.f.Payload()
	copy(p[taskFileOff:taskFileOff+taskFileLen], tf.PackedBytes())
	copy(p[taskFileExtOff:taskFileExtOff+taskFileLen], tfExt.PackedBytes())
	return nil
}

func (e *EssenceAta1) taskFileAt(off int) TaskFileRegister {
	var t TaskFileRegister
	binary.Read(bytes.NewReader(e.f.Payload()[off:off+taskFileLen]), binary.LittleEndian, &t)
	return t
}
