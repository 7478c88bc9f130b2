package atacmd

import (
	"github.com/dswarbrick/smart/scsi"
)

// ATA protocol field values of the ATA PASS-THROUGH command (SAT-3, table 140)
const (
	ataProtocolNonData    = 3
	ataProtocolPIODataIn  = 4
	ataProtocolPIODataOut = 5
	ataProtocolDMA        = 6
)

// BuildPassThrough16 encodes a register layout as a SCSI ATA PASS-THROUGH (16)
// CDB, so the command can travel over a SCSI transport to a SATA device.
//
// If essence is not an EssenceAta1 buffer, ErrorCodeInvalidEssence is
// returned.
func BuildPassThrough16(essence *Buffer) (scsi.CDB16, error) {
	e, err := EssenceAta1Reader(essence)
	if err != nil {
		return scsi.CDB16{}, err
	}

	chars := e.CommandCharacteristics()
	tf := e.TaskFile()
	tfExt := e.TaskFileExt()

	var flags uint8
	proto := ataProtocolOf(chars)
	if proto != ataProtocolNonData {
		// BYT_BLOK = 1, T_LENGTH = 2 (sector count field)
		flags = 0x06
		if chars.DataAccess != DataAccessWrite {
			// T_DIR = 1
			flags |= 0x08
		}
	}

	cdb := scsi.CDB16{scsi.SCSI_ATA_PASSTHRU_16}
	cdb[1] = proto << 1
	if chars.FieldFormatting == Command48Bit {
		cdb[1] |= 0x01 // EXTEND
	}
	cdb[2] = flags
	cdb[3] = tfExt.Feature
	cdb[4] = tf.Feature
	cdb[5] = tfExt.Count
	cdb[6] = tf.Count
	cdb[7] = tfExt.LbaLow
	cdb[8] = tf.LbaLow
	cdb[9] = tfExt.LbaMid
	cdb[10] = tf.LbaMid
	cdb[11] = tfExt.LbaHigh
	cdb[12] = tf.LbaHigh
	cdb[13] = tf.Device
	cdb[14] = tf.Command

	return cdb, nil
}

// ataProtocolOf selects the ATA PASS-THROUGH protocol field for c.
func ataProtocolOf(c CommandCharacteristics) uint8 {
	switch {
	case c.DataAccess == DataAccessNone || c.TransferMode == TransferModeNonData:
		return ataProtocolNonData
	case c.TransferMode == TransferModeDMA:
		return ataProtocolDMA
	case c.DataAccess == DataAccessWrite:
		return ataProtocolPIODataOut
	default:
		return ataProtocolPIODataIn
	}
}

// dataPhase returns the data access a transport carries out for c. It is
// DataAccessNone whenever the CDB encodes a non-data command or there is no
// data buffer, so the transfer direction always agrees with the CDB.
func dataPhase(c CommandCharacteristics, data *Buffer) DataAccess {
	if data.Len() == 0 || ataProtocolOf(c) == ataProtocolNonData {
		return DataAccessNone
	}

	return c.DataAccess
}

// sgDirection maps the data phase of c to an SG_IO transfer direction.
func sgDirection(c CommandCharacteristics, data *Buffer) int32 {
	switch dataPhase(c, data) {
	case DataAccessRead:
		return scsi.SG_DXFER_FROM_DEV
	case DataAccessWrite:
		return scsi.SG_DXFER_TO_DEV
	case DataAccessReadWrite:
		return scsi.SG_DXFER_TO_FROM_DEV
	default:
		return scsi.SG_DXFER_NONE
	}
}
