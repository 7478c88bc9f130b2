package atacmd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/dswarbrick/smart/ata"
	"github.com/dswarbrick/smart/utils"
)

// IDENTIFY DEVICE word offsets used for capacity reporting
const (
	identWordCapabilities   = 83
	identWordLba28Sectors   = 60
	identWordLba48Sectors   = 100
	identLba48SupportedMask = 1 << 10
)

// Identity summarises an IDENTIFY DEVICE response.
type Identity struct {
	Model    string
	Serial   string
	Firmware string
	WWN      string
	Sectors  uint64
	Lba48    bool
}

func (id Identity) String() string {
	return fmt.Sprintf("%s (%s) fw %s, %s", id.Model, id.Serial, id.Firmware, SizeString(id.Sectors))
}

// ParseIdentify decodes a 512-byte IDENTIFY DEVICE response.
func ParseIdentify(buf *Buffer) (*Identity, error) {
	b := buf.Bytes()
	if len(b) < SectorSize {
		return nil, ErrorCodeBufferTooSmall
	}

	var ident ata.IdentifyDeviceData
	if err := binary.Read(bytes.NewBuffer(b[:SectorSize]), utils.NativeEndian, &ident); err != nil {
		return nil, err
	}

	id := &Identity{
		Model:    strings.TrimSpace(string(ident.ModelNumber())),
		Serial:   strings.TrimSpace(string(ident.SerialNumber())),
		Firmware: strings.TrimSpace(string(ident.FirmwareRevision())),
		WWN:      ident.WWN(),
		Lba48:    identWord(b, identWordCapabilities)&identLba48SupportedMask != 0,
	}

	if id.Lba48 {
		id.Sectors = binary.LittleEndian.Uint64(b[identWordLba48Sectors*2:])
	} else {
		id.Sectors = uint64(binary.LittleEndian.Uint32(b[identWordLba28Sectors*2:]))
	}

	return id, nil
}

func identWord(b []byte, n int) uint16 {
	return binary.LittleEndian.Uint16(b[n*2:])
}
