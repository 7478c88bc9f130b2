package atacmd

import (
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// A CommandIssuer issues a command descriptor against a device.
type CommandIssuer interface {
	IssueCommand(h DeviceHandle, descriptor *Buffer, data *Buffer) error
}

// A CommandTranslator translates command descriptors of one format into a
// protocol-specific register layout and issues them.
type CommandTranslator interface {
	CommandIssuer
	Format() uuid.UUID
}

// CommandHandlerAta translates ATA command descriptors into EssenceAta1
// register layouts and hands them to a Protocol.
//
// A CommandHandlerAta holds no per-command state and may be used from
// multiple goroutines.
type CommandHandlerAta struct {
	protocol Protocol
}

var (
	// Compile-time interface check
	_ CommandTranslator = &CommandHandlerAta{}
)

// NewCommandHandlerAta returns a CommandHandlerAta bound to p.
func NewCommandHandlerAta(p Protocol) *CommandHandlerAta {
	return &CommandHandlerAta{protocol: p}
}

// Format returns AtaCommandDescriptorFormat.
func (c *CommandHandlerAta) Format() uuid.UUID {
	return AtaCommandDescriptorFormat
}

// IssueCommand translates descriptor and issues it through the bound
// Protocol together with data.
//
// If descriptor is not an ATA command descriptor,
// ErrorCodeFormatNotSupported is returned and the Protocol is not called.
// Otherwise the Protocol's result is returned unchanged.
func (c *CommandHandlerAta) IssueCommand(h DeviceHandle, descriptor *Buffer, data *Buffer) error {
	d, err := ReadAtaCommandDescriptor(descriptor)
	if err != nil {
		logger(ComponentHandler).WithError(err).Debug("rejecting command descriptor")
		return err
	}

	chars := d.CommandCharacteristics()
	fields := d.CommandFields()

	buf := NewBuffer(EssenceAta1Size)
	essence, err := EssenceAta1Writer(buf)
	if err != nil {
		return err
	}
	if err := essence.SetCommandCharacteristics(chars); err != nil {
		return err
	}

	tf, tfExt := PrepareTaskFileRegisters(chars, fields)
	if err := essence.SetTaskFiles(tf, tfExt); err != nil {
		return err
	}

	logger(ComponentHandler).WithFields(logrus.Fields{
		"command":    fields.Command,
		"formatting": chars.FieldFormatting,
		"access":     chars.DataAccess,
		"lba":        fields.Lba,
		"count":      fields.Count,
		"device":     tf.Device,
	}).Debug("issuing ATA command")

	return c.protocol.IssueCommand(h, buf, data)
}
