package atacmd

const SectorSize = 512

// ATA command opcodes issued by the helpers in this file.
const (
	ATA_READ_SECTORS      uint8 = 0x20
	ATA_READ_SECTORS_EXT  uint8 = 0x24
	ATA_READ_DMA_EXT      uint8 = 0x25
	ATA_WRITE_SECTORS     uint8 = 0x30
	ATA_WRITE_SECTORS_EXT uint8 = 0x34
	ATA_WRITE_DMA_EXT     uint8 = 0x35
	ATA_SMART             uint8 = 0xb0
	ATA_READ_DMA          uint8 = 0xc8
	ATA_WRITE_DMA         uint8 = 0xca
	ATA_READ_BUFFER       uint8 = 0xe4
	ATA_FLUSH_CACHE       uint8 = 0xe7
	ATA_WRITE_BUFFER      uint8 = 0xe8
	ATA_FLUSH_CACHE_EXT   uint8 = 0xea
	ATA_IDENTIFY_DEVICE   uint8 = 0xec

	// ATA feature register values for SMART
	SMART_READ_DATA     uint8 = 0xd0
	SMART_RETURN_STATUS uint8 = 0xda
)

const (
	smartSignatureLba = 0xc24f00 // lba_high 0xc2, lba_mid 0x4f

	maxSectors28 = 1 << 8
	maxSectors48 = 1 << 16
	maxLba28     = 1 << 28
	maxLba48     = 1 << 48
)

// IdentifyDevice issues IDENTIFY DEVICE and returns the 512-byte response.
func IdentifyDevice(c CommandIssuer, h DeviceHandle) (*Buffer, error) {
	return pioIn(c, h, ATA_IDENTIFY_DEVICE, 0, 0)
}

// SmartReadData issues SMART READ DATA and returns the 512-byte response.
func SmartReadData(c CommandIssuer, h DeviceHandle) (*Buffer, error) {
	return pioIn(c, h, ATA_SMART, SMART_READ_DATA, smartSignatureLba)
}

// ReadBuffer issues READ BUFFER and returns the device's 512-byte buffer.
func ReadBuffer(c CommandIssuer, h DeviceHandle) (*Buffer, error) {
	return pioIn(c, h, ATA_READ_BUFFER, 0, 0)
}

// WriteBuffer issues WRITE BUFFER with data, which must be exactly one
// sector long.
func WriteBuffer(c CommandIssuer, h DeviceHandle, data *Buffer) error {
	if data.Len() != SectorSize {
		return ErrorCodeInvalidParameter
	}

	desc, err := NewAtaCommandDescriptor(CommandCharacteristics{
		FieldFormatting:    Command28Bit,
		DataAccess:         DataAccessWrite,
		TransferMode:       TransferModePIO,
		DataTransferLength: SectorSize,
	}, CommandFields{
		Count:   1,
		Command: ATA_WRITE_BUFFER,
	})
	if err != nil {
		return err
	}

	return c.IssueCommand(h, desc, data)
}

// FlushCache issues FLUSH CACHE, or FLUSH CACHE EXT when ext is set.
func FlushCache(c CommandIssuer, h DeviceHandle, ext bool) error {
	chars := CommandCharacteristics{
		FieldFormatting: Command28Bit,
		DataAccess:      DataAccessNone,
		TransferMode:    TransferModeNonData,
	}
	cmd := ATA_FLUSH_CACHE
	if ext {
		chars.FieldFormatting = Command48Bit
		cmd = ATA_FLUSH_CACHE_EXT
	}

	desc, err := NewAtaCommandDescriptor(chars, CommandFields{Command: cmd})
	if err != nil {
		return err
	}

	return c.IssueCommand(h, desc, nil)
}

// ReadDMA reads sectors starting at lba using READ DMA, switching to READ
// DMA EXT when the range needs 48-bit addressing.
func ReadDMA(c CommandIssuer, h DeviceHandle, lba uint64, sectors int) (*Buffer, error) {
	return readSectors(c, h, TransferModeDMA, ATA_READ_DMA, ATA_READ_DMA_EXT, lba, sectors)
}

// ReadSectors reads sectors starting at lba using PIO READ SECTORS (EXT).
func ReadSectors(c CommandIssuer, h DeviceHandle, lba uint64, sectors int) (*Buffer, error) {
	return readSectors(c, h, TransferModePIO, ATA_READ_SECTORS, ATA_READ_SECTORS_EXT, lba, sectors)
}

// WriteDMA writes data, a whole number of sectors, starting at lba using
// WRITE DMA (EXT).
func WriteDMA(c CommandIssuer, h DeviceHandle, lba uint64, data *Buffer) error {
	return writeSectors(c, h, TransferModeDMA, ATA_WRITE_DMA, ATA_WRITE_DMA_EXT, lba, data)
}

// WriteSectors writes data, a whole number of sectors, starting at lba
// using PIO WRITE SECTORS (EXT).
func WriteSectors(c CommandIssuer, h DeviceHandle, lba uint64, data *Buffer) error {
	return writeSectors(c, h, TransferModePIO, ATA_WRITE_SECTORS, ATA_WRITE_SECTORS_EXT, lba, data)
}

func pioIn(c CommandIssuer, h DeviceHandle, cmd, feature uint8, lba uint64) (*Buffer, error) {
	desc, err := NewAtaCommandDescriptor(CommandCharacteristics{
		FieldFormatting:    Command28Bit,
		DataAccess:         DataAccessRead,
		TransferMode:       TransferModePIO,
		DataTransferLength: SectorSize,
	}, CommandFields{
		Feature: uint16(feature),
		Count:   1,
		Lba:     lba,
		Command: cmd,
	})
	if err != nil {
		return nil, err
	}

	data := NewBuffer(SectorSize)
	if err := c.IssueCommand(h, desc, data); err != nil {
		return nil, err
	}

	return data, nil
}

// rwDescriptor builds a read or write descriptor, picking 48-bit addressing
// when lba and sectors do not fit a 28-bit command.
func rwDescriptor(mode TransferMode, access DataAccess, cmd28, cmd48 uint8, lba uint64, sectors int) (*Buffer, error) {
	if sectors <= 0 || sectors > maxSectors48 || !fitsLba(lba, sectors, maxLba48) {
		return nil, ErrorCodeInvalidParameter
	}

	chars := CommandCharacteristics{
		FieldFormatting:    Command28Bit,
		DataAccess:         access,
		TransferMode:       mode,
		DataTransferLength: uint32(sectors * SectorSize),
	}
	cmd := cmd28
	if sectors > maxSectors28 || !fitsLba(lba, sectors, maxLba28) {
		chars.FieldFormatting = Command48Bit
		cmd = cmd48
	}

	// A count of 0 requests the maximum for the addressing mode
	return NewAtaCommandDescriptor(chars, CommandFields{
		Count:   uint16(sectors),
		Lba:     lba,
		Command: cmd,
	})
}

// fitsLba reports whether sectors blocks starting at lba end at or below
// limit, without overflowing.
func fitsLba(lba uint64, sectors int, limit uint64) bool {
	return lba < limit && uint64(sectors) <= limit-lba
}

func readSectors(c CommandIssuer, h DeviceHandle, mode TransferMode, cmd28, cmd48 uint8, lba uint64, sectors int) (*Buffer, error) {
	desc, err := rwDescriptor(mode, DataAccessRead, cmd28, cmd48, lba, sectors)
	if err != nil {
		return nil, err
	}

	data := NewBuffer(sectors * SectorSize)
	if err := c.IssueCommand(h, desc, data); err != nil {
		return nil, err
	}

	return data, nil
}

func writeSectors(c CommandIssuer, h DeviceHandle, mode TransferMode, cmd28, cmd48 uint8, lba uint64, data *Buffer) error {
	if data.Len() == 0 || data.Len()%SectorSize != 0 {
		return ErrorCodeInvalidParameter
	}

	desc, err := rwDescriptor(mode, DataAccessWrite, cmd28, cmd48, lba, data.Len()/SectorSize)
	if err != nil {
		return err
	}

	return c.IssueCommand(h, desc, data)
}
