//go:build linux

package atacmd

import (
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"github.com/dswarbrick/smart/ioctl"
	"github.com/dswarbrick/smart/scsi"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// SCSI generic ioctl header, defined as sg_io_hdr_t in <scsi/sg.h>
type sgIoHdr struct {
	interface_id    int32   // 'S' for SCSI generic (required)
	dxfer_direction int32   // data transfer direction
	cmd_len         uint8   // SCSI command length (<= 16 bytes)
	mx_sb_len       uint8   // max length to write to sbp
	iovec_count     uint16  // 0 implies no scatter gather
	dxfer_len       uint32  // byte count of data transfer
	dxferp          uintptr // points to data transfer memory or scatter gather list
	cmdp            uintptr // points to command to perform
	sbp             uintptr // points to sense_buffer memory
	timeout         uint32  // MAX_UINT -> no timeout (unit: millisec)
	flags           uint32  // 0 -> default, see SG_FLAG...
	pack_id         int32   // unused internally (normally)
	usr_ptr         uintptr // unused internally
	status          uint8   // SCSI status
	masked_status   uint8   // shifted, masked scsi status
	msg_status      uint8   // messaging level data (optional)
	sb_len_wr       uint8   // byte count actually written to sbp
	host_status     uint16  // errors from host adapter
	driver_status   uint16  // errors from software driver
	resid           int32   // dxfer_len - actual_transferred
	duration        uint32  // time taken by cmd (unit: millisec)
	info            uint32  // auxiliary information
}

// An SgioError reports an SG_IO command the device or host adapter
// completed with an error status.
type SgioError struct {
	ScsiStatus   uint8
	HostStatus   uint16
	DriverStatus uint16
}

func (e SgioError) Error() string {
	return fmt.Sprintf("SCSI status: %#02x, host status: %#02x, driver status: %#02x",
		e.ScsiStatus, e.HostStatus, e.DriverStatus)
}

// Unwrap lets CodeOf classify an SgioError as ErrorCodeProtocolFailed.
func (e SgioError) Unwrap() error {
	return ErrorCodeProtocolFailed
}

// sgioStatus converts the completion fields of hdr into an error.
func sgioStatus(hdr *sgIoHdr) error {
	// See http://www.t10.org/lists/2status.htm for SCSI status codes
	if hdr.info&scsi.SG_INFO_OK_MASK != scsi.SG_INFO_OK {
		return SgioError{
			ScsiStatus:   hdr.status,
			HostStatus:   hdr.host_status,
			DriverStatus: hdr.driver_status,
		}
	}

	return nil
}

// A Device is a block or SCSI generic device node opened for SG_IO.
type Device struct {
	Name string
	fd   int
}

// OpenDevice opens the device node at name for issuing SG_IO commands.
func OpenDevice(name string) (*Device, error) {
	fd, err := unix.Open(name, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0600)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	return &Device{Name: name, fd: fd}, nil
}

// Fd returns the file descriptor of the device node.
func (d *Device) Fd() uintptr {
	return uintptr(d.fd)
}

// Close closes the device node.
func (d *Device) Close() error {
	return unix.Close(d.fd)
}

// SATProtocol issues register layouts as SCSI ATA PASS-THROUGH (16)
// commands through the Linux SG_IO ioctl. It works for SATA disks behind
// libata and most USB/SAS bridges.
type SATProtocol struct {
	// Timeout bounds a single command. Zero selects scsi.DEFAULT_TIMEOUT.
	Timeout time.Duration
}

var (
	// Compile-time interface check
	_ Protocol = &SATProtocol{}
)

// IssueCommand issues essence against h with data as the transfer buffer.
//
// If the SG_IO ioctl fails the syscall error is wrapped and returned; if the
// device completes the command with an error an SgioError is returned.
func (p *SATProtocol) IssueCommand(h DeviceHandle, essence *Buffer, data *Buffer) error {
	if h == nil {
		return ErrorCodeInvalidHandle
	}

	e, err := EssenceAta1Reader(essence)
	if err != nil {
		return err
	}
	cdb, err := BuildPassThrough16(essence)
	if err != nil {
		return err
	}

	timeout := uint32(scsi.DEFAULT_TIMEOUT)
	if p.Timeout > 0 {
		timeout = uint32(p.Timeout.Milliseconds())
	}

	senseBuf := make([]byte, 32)
	hdr := sgIoHdr{
		interface_id:    'S',
		dxfer_direction: sgDirection(e.CommandCharacteristics(), data),
		timeout:         timeout,
		cmd_len:         uint8(len(cdb)),
		mx_sb_len:       uint8(len(senseBuf)),
		cmdp:            uintptr(unsafe.Pointer(&cdb[0])),
		sbp:             uintptr(unsafe.Pointer(&senseBuf[0])),
	}
	if b := data.Bytes(); hdr.dxfer_direction != scsi.SG_DXFER_NONE {
		hdr.dxfer_len = uint32(len(b))
		hdr.dxferp = uintptr(unsafe.Pointer(&b[0]))
	}

	logger(ComponentSAT).WithFields(logrus.Fields{
		"cdb":       fmt.Sprintf("% x", cdb[:]),
		"direction": hdr.dxfer_direction,
		"length":    hdr.dxfer_len,
	}).Debug("SG_IO")

	err = ioctl.Ioctl(h.Fd(), scsi.SG_IO, uintptr(unsafe.Pointer(&hdr)))
	runtime.KeepAlive(cdb)
	runtime.KeepAlive(senseBuf)
	runtime.KeepAlive(data)
	if err != nil {
		return fmt.Errorf("SG_IO: %w", err)
	}

	return sgioStatus(&hdr)
}
