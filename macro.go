package atacmd

import (
	"fmt"
)

/*
 * =====================================
 * MegaRAID SAS MFI firmware definitions
 * =====================================
 */

/*
 * MFI frame direction flags
 */
const (
	MFI_FRAME_DIR_NONE  = 0x0000 // no data transfer
	MFI_FRAME_DIR_WRITE = 0x0008 // host to device
	MFI_FRAME_DIR_READ  = 0x0010 // device to host
	MFI_FRAME_DIR_BOTH  = 0x0018
)

// SCSI I/O addressed to a physical drive; carries the ATA PASS-THROUGH CDB
// for SATA drives behind the controller.
const MFI_CMD_PD_SCSI_IO uint8 = 0x04

/*
 * MFI command completion codes used by the pass-through path
 */
const (
	MFI_STAT_OK                        uint8 = 0x00
	MFI_STAT_INVALID_CMD               uint8 = 0x01
	MFI_STAT_INVALID_PARAMETER         uint8 = 0x03
	MFI_STAT_DEVICE_NOT_FOUND          uint8 = 0x0c
	MFI_STAT_SCSI_DONE_WITH_ERROR      uint8 = 0x2d
	MFI_STAT_SCSI_IO_FAILED            uint8 = 0x2e
	MFI_STAT_SCSI_RESERVATION_CONFLICT uint8 = 0x2f
	MFI_STAT_INVALID_STATUS            uint8 = 0xff
)

var mfiStatusNames = map[uint8]string{
	MFI_STAT_OK:                        "ok",
	MFI_STAT_INVALID_CMD:               "invalid command",
	MFI_STAT_INVALID_PARAMETER:         "invalid parameter",
	MFI_STAT_DEVICE_NOT_FOUND:          "device not found",
	MFI_STAT_SCSI_DONE_WITH_ERROR:      "SCSI done with error",
	MFI_STAT_SCSI_IO_FAILED:            "SCSI I/O failed",
	MFI_STAT_SCSI_RESERVATION_CONFLICT: "SCSI reservation conflict",
	MFI_STAT_INVALID_STATUS:            "invalid status",
}

const (
	// maximum number of scatter gather elements per ioctl
	MAX_IOCTL_SGE = 16

	// offset of the MFI frame inside a packed megasas_iocpacket
	iocFrameOff = 2 + 2 + 4 + 4 + 4 + 4
)

type megasas_sge64 struct {
	phys_addr uint32
	length    uint32
	_         uint32
} // __packed

type Iovec struct {
	IovBase uint64
	IovLen  uint64
}

// megasas_pthru_frame - MFI pass-through frame
type megasas_pthru_frame struct {
	cmd                    uint8
	sense_len              uint8
	cmd_status             uint8
	scsi_status            uint8
	target_id              uint8
	lun                    uint8
	cdb_len                uint8
	sge_count              uint8
	context                uint32
	pad_0                  uint32
	flags                  uint16
	timeout                uint16
	data_xfer_len          uint32
	sense_buf_phys_addr_lo uint32
	sense_buf_phys_addr_hi uint32
	cdb                    [16]uint8
	sgl                    megasas_sge64 //	union of megasas_sge64 / megasas_sge32
}

// megasas_iocpacket struct - caution: megasas driver expects packet struct
type megasas_iocpacket struct {
	host_no   uint16
	__pad1    uint16
	sgl_off   uint32
	sge_count uint32
	sense_off uint32
	sense_len uint32
	frame     [128]byte // union of megasas_frame
	sgl       [MAX_IOCTL_SGE]Iovec
} // __packed

// An MfiError reports a pass-through command the controller completed with
// a non-zero MFI status.
type MfiError struct {
	Status     uint8
	ScsiStatus uint8
}

func (e MfiError) Error() string {
	name, ok := mfiStatusNames[e.Status]
	if !ok {
		name = "unknown"
	}
	return fmt.Sprintf("MFI status: %#02x (%s), SCSI status: %#02x", e.Status, name, e.ScsiStatus)
}

// Unwrap lets CodeOf classify an MfiError as ErrorCodeProtocolFailed.
func (e MfiError) Unwrap() error {
	return ErrorCodeProtocolFailed
}

// mfiDirection maps the data phase of c to MFI frame direction flags.
func mfiDirection(c CommandCharacteristics, data *Buffer) uint16 {
	switch dataPhase(c, data) {
	case DataAccessRead:
		return MFI_FRAME_DIR_READ
	case DataAccessWrite:
		return MFI_FRAME_DIR_WRITE
	case DataAccessReadWrite:
		return MFI_FRAME_DIR_BOTH
	default:
		return MFI_FRAME_DIR_NONE
	}
}
