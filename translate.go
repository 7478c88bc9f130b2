package atacmd

const (
	// DeviceRegisterDefault is OR-ed into the device register of LBA data
	// access commands: obsolete bits 7 and 5 (set by legacy controllers)
	// plus the LBA bit 6.
	DeviceRegisterDefault uint8 = 0xE0

	// DeviceRegisterCHSModeDefault is OR-ed into the device register of CHS
	// data access commands: the obsolete bits only, LBA bit clear.
	DeviceRegisterCHSModeDefault uint8 = 0xA0
)

// PrepareTaskFileRegisters translates command fields into the primary and
// extended ATA task file registers.
//
// For 28-bit commands only the primary register is populated and tfExt is
// zero. Bits outside the addressing mode's range are ignored.
func PrepareTaskFileRegisters(c CommandCharacteristics, f CommandFields) (tf, tfExt TaskFileRegister) {
	tf = TaskFileRegister{
		Feature:  byteAt(f.Feature, 0),
		Count:    byteAt(f.Count, 0),
		LbaLow:   byteAt(f.Lba, 0),
		LbaMid:   byteAt(f.Lba, 1),
		LbaHigh:  byteAt(f.Lba, 2),
		Device:   f.Device,
		Command:  f.Command,
		Reserved: 0,
	}

	// Top nibble of a 28-bit LBA, carried in device register bits 3:0
	lbaNibble := uint8(BitField(f.Lba, 24, 4))

	if c.FieldFormatting == Command28Bit {
		if c.DataAccess != DataAccessNone {
			if !f.ChsMode {
				tf.Device |= DeviceRegisterDefault | lbaNibble
			} else {
				tf.Device |= DeviceRegisterCHSModeDefault | lbaNibble
			}
		}

		return tf, TaskFileRegister{}
	}

	tfExt = TaskFileRegister{
		Feature:  byteAt(f.Feature, 1),
		Count:    byteAt(f.Count, 1),
		LbaLow:   byteAt(f.Lba, 3),
		LbaMid:   byteAt(f.Lba, 4),
		LbaHigh:  byteAt(f.Lba, 5),
		Device:   f.Device,
		Command:  f.Command,
		Reserved: 0,
	}

	if c.DataAccess != DataAccessNone {
		if !f.ChsMode {
			tf.Device = f.Device | DeviceRegisterDefault
			tfExt.Device = f.Device | DeviceRegisterDefault
		} else {
			// Extended device register keeps the plain device value
			tf.Device |= DeviceRegisterCHSModeDefault | lbaNibble
		}
	}

	return tf, tfExt
}
