//go:build linux

package atacmd

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"
	"unsafe"

	"github.com/dswarbrick/smart/ioctl"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

const megasasIoctlNode = "/dev/megaraid_sas_ioctl_node"

var (
	// Beware: cannot use unsafe.Sizeof(megasas_iocpacket{}) due to Go struct padding!
	MEGASAS_IOC_FIRMWARE = ioctl.Iowr('M', 1, uintptr(binary.Size(megasas_iocpacket{})))
)

// MegasasIoctl is an open handle on the megaraid_sas ioctl device node.
type MegasasIoctl struct {
	DeviceMajor uint32
	fd          int
}

// PackedBytes is a convenience method that will pack a megasas_iocpacket struct in little-endian
// format and return it as a byte slice
func (ioc *megasas_iocpacket) PackedBytes() []byte {
	b := new(bytes.Buffer)
	binary.Write(b, binary.LittleEndian, ioc)
	return b.Bytes()
}

// CreateMegasasIoctl determines the device ID for the MegaRAID SAS ioctl device, creates it
// if necessary, and returns a MegasasIoctl struct to interact with the megaraid_sas driver.
func CreateMegasasIoctl() (*MegasasIoctl, error) {
	var (
		m   MegasasIoctl
		err error
	)

	// megaraid_sas driver does not automatically create ioctl device node, so find out the device
	// major number and create it.
	file, err := os.Open("/proc/devices")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if strings.HasSuffix(scanner.Text(), "megaraid_sas_ioctl") {
			fmt.Sscanf(scanner.Text(), "%d", &m.DeviceMajor)
			break
		}
	}

	if m.DeviceMajor == 0 {
		return nil, fmt.Errorf("could not determine megaraid major number")
	}

	if _, err := os.Stat(megasasIoctlNode); err != nil {
		if err := unix.Mknod(megasasIoctlNode, unix.S_IFCHR, int(unix.Mkdev(m.DeviceMajor, 0))); err != nil {
			return nil, fmt.Errorf("mknod %s: %w", megasasIoctlNode, err)
		}
	}

	if m.fd, err = unix.Open(megasasIoctlNode, unix.O_RDWR, 0600); err != nil {
		return nil, err
	}
	return &m, nil
}

// Close closes the file descriptor of the MegasasIoctl instance
func (m *MegasasIoctl) Close() {
	unix.Close(m.fd)
}

// Device returns a handle addressing the physical drive deviceId on the
// controller hostNo.
func (m *MegasasIoctl) Device(hostNo uint16, deviceId uint8) *MegaraidDevice {
	return &MegaraidDevice{ioctl: m, HostNo: hostNo, DeviceId: deviceId}
}

// A MegaraidDevice is a physical drive behind a MegaRAID controller.
type MegaraidDevice struct {
	ioctl    *MegasasIoctl
	HostNo   uint16
	DeviceId uint8
}

// Fd returns the file descriptor of the controller's ioctl node.
func (d *MegaraidDevice) Fd() uintptr {
	return uintptr(d.ioctl.fd)
}

// MegaraidProtocol issues register layouts to SATA drives behind a
// megaraid_sas controller. The ATA PASS-THROUGH (16) CDB is carried in an
// MFI_CMD_PD_SCSI_IO frame through the MEGASAS_IOC_FIRMWARE ioctl.
type MegaraidProtocol struct {
	// Timeout bounds a single command, rounded to seconds. Zero leaves the
	// firmware default in place.
	Timeout time.Duration
}

var (
	// Compile-time interface check
	_ Protocol = &MegaraidProtocol{}
)

// IssueCommand issues essence against h, which must be a *MegaraidDevice.
//
// A non-zero MFI completion status is returned as an MfiError.
func (p *MegaraidProtocol) IssueCommand(h DeviceHandle, essence *Buffer, data *Buffer) error {
	dev, ok := h.(*MegaraidDevice)
	if !ok || dev == nil || dev.ioctl == nil {
		return ErrorCodeInvalidHandle
	}

	ioc, err := p.buildPacket(dev, essence, data)
	if err != nil {
		return err
	}

	iocBuf := ioc.PackedBytes()
	logger(ComponentMegaraid).WithFields(logrus.Fields{
		"host":   dev.HostNo,
		"device": dev.DeviceId,
		"frame":  fmt.Sprintf("% x", iocBuf[iocFrameOff:iocFrameOff+0x30]),
	}).Debug("MEGASAS_IOC_FIRMWARE")

	// Note pointer to first item in iocBuf buffer
	err = ioctl.Ioctl(dev.Fd(), MEGASAS_IOC_FIRMWARE, uintptr(unsafe.Pointer(&iocBuf[0])))
	runtime.KeepAlive(data)
	if err != nil {
		return fmt.Errorf("MEGASAS_IOC_FIRMWARE: %w", err)
	}

	return pthruStatus(iocBuf)
}

// buildPacket fills an ioctl packet whose frame is a PD_SCSI_IO pass-through
// of the ATA PASS-THROUGH (16) encoding of essence.
func (p *MegaraidProtocol) buildPacket(dev *MegaraidDevice, essence *Buffer, data *Buffer) (*megasas_iocpacket, error) {
	e, err := EssenceAta1Reader(essence)
	if err != nil {
		return nil, err
	}
	cdb, err := BuildPassThrough16(essence)
	if err != nil {
		return nil, err
	}

	ioc := &megasas_iocpacket{host_no: dev.HostNo}

	// Approximation of C union behaviour
	pthru := (*megasas_pthru_frame)(unsafe.Pointer(&ioc.frame))

	pthru.cmd = MFI_CMD_PD_SCSI_IO
	pthru.cmd_status = MFI_STAT_INVALID_STATUS
	pthru.scsi_status = 0
	pthru.target_id = dev.DeviceId
	pthru.lun = 0
	pthru.cdb_len = uint8(len(cdb))
	pthru.flags = mfiDirection(e.CommandCharacteristics(), data)
	pthru.timeout = uint16(p.Timeout / time.Second)
	copy(pthru.cdb[:], cdb[:])

	if b := data.Bytes(); pthru.flags != MFI_FRAME_DIR_NONE {
		pthru.sge_count = 1
		pthru.data_xfer_len = uint32(len(b))

		// ioc set dma
		ioc.sge_count = 1
		ioc.sgl_off = uint32(unsafe.Offsetof(pthru.sgl))
		ioc.sgl[0] = Iovec{uint64(uintptr(unsafe.Pointer(&b[0]))), uint64(len(b))}
	}

	return ioc, nil
}

// pthruStatus reads the completion status the driver copied back into the
// packed frame.
func pthruStatus(iocBuf []byte) error {
	status := iocBuf[iocFrameOff+unsafe.Offsetof(megasas_pthru_frame{}.cmd_status)]
	scsiStatus := iocBuf[iocFrameOff+unsafe.Offsetof(megasas_pthru_frame{}.scsi_status)]
	if status != MFI_STAT_OK {
		return MfiError{Status: status, ScsiStatus: scsiStatus}
	}

	return nil
}
