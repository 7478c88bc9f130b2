package atacmd

import (
	"testing"
)

func TestPrepareTaskFileRegisters(t *testing.T) {
	read28 := CommandCharacteristics{FieldFormatting: Command28Bit, DataAccess: DataAccessRead, TransferMode: TransferModePIO}
	none28 := CommandCharacteristics{FieldFormatting: Command28Bit, DataAccess: DataAccessNone, TransferMode: TransferModeNonData}
	read48 := CommandCharacteristics{FieldFormatting: Command48Bit, DataAccess: DataAccessRead, TransferMode: TransferModeDMA}
	none48 := CommandCharacteristics{FieldFormatting: Command48Bit, DataAccess: DataAccessNone, TransferMode: TransferModeNonData}

	var tests = []struct {
		desc      string
		c         CommandCharacteristics
		f         CommandFields
		tf, tfExt TaskFileRegister
	}{
		{
			desc: "28-bit LBA data access",
			c:    read28,
			f:    CommandFields{Feature: 0x1234, Count: 0x5678, Lba: 0x0fabcdef, Device: 0x01, Command: ATA_READ_SECTORS},
			tf:   TaskFileRegister{Feature: 0x34, Count: 0x78, LbaLow: 0xef, LbaMid: 0xcd, LbaHigh: 0xab, Device: 0xef, Command: ATA_READ_SECTORS},
		},
		{
			desc: "28-bit non-data keeps device",
			c:    none28,
			f:    CommandFields{Lba: 0x0fabcdef, Device: 0x01, Command: ATA_FLUSH_CACHE},
			tf:   TaskFileRegister{LbaLow: 0xef, LbaMid: 0xcd, LbaHigh: 0xab, Device: 0x01, Command: ATA_FLUSH_CACHE},
		},
		{
			desc: "28-bit CHS data access",
			c:    read28,
			f:    CommandFields{Lba: 0x0a000000, ChsMode: true, Command: ATA_READ_SECTORS},
			tf:   TaskFileRegister{Device: 0xaa, Command: ATA_READ_SECTORS},
		},
		{
			desc: "28-bit ignores LBA bits above 27",
			c:    read28,
			f:    CommandFields{Lba: 0xfff0000001, Command: ATA_READ_SECTORS},
			tf:   TaskFileRegister{LbaLow: 0x01, Device: 0xe0, Command: ATA_READ_SECTORS},
		},
		{
			desc:  "48-bit LBA data access",
			c:     read48,
			f:     CommandFields{Feature: 0x1234, Count: 0x5678, Lba: 0x123456789abc, Device: 0x40, Command: ATA_READ_DMA_EXT},
			tf:    TaskFileRegister{Feature: 0x34, Count: 0x78, LbaLow: 0xbc, LbaMid: 0x9a, LbaHigh: 0x78, Device: 0xe0, Command: ATA_READ_DMA_EXT},
			tfExt: TaskFileRegister{Feature: 0x12, Count: 0x56, LbaLow: 0x56, LbaMid: 0x34, LbaHigh: 0x12, Device: 0xe0, Command: ATA_READ_DMA_EXT},
		},
		{
			desc:  "48-bit non-data keeps device",
			c:     none48,
			f:     CommandFields{Device: 0x05, Command: ATA_FLUSH_CACHE_EXT},
			tf:    TaskFileRegister{Device: 0x05, Command: ATA_FLUSH_CACHE_EXT},
			tfExt: TaskFileRegister{Device: 0x05, Command: ATA_FLUSH_CACHE_EXT},
		},
		{
			desc:  "48-bit CHS leaves extended device untouched",
			c:     read48,
			f:     CommandFields{Lba: 0x0b000000, ChsMode: true, Command: ATA_READ_DMA_EXT},
			tf:    TaskFileRegister{Device: 0xab, Command: ATA_READ_DMA_EXT},
			tfExt: TaskFileRegister{LbaLow: 0x0b, Command: ATA_READ_DMA_EXT},
		},
		{
			desc:  "48-bit ignores LBA bits above 47",
			c:     read48,
			f:     CommandFields{Lba: 0xffff000000000001, Command: ATA_READ_DMA_EXT},
			tf:    TaskFileRegister{LbaLow: 0x01, Device: 0xe0, Command: ATA_READ_DMA_EXT},
			tfExt: TaskFileRegister{Device: 0xe0, Command: ATA_READ_DMA_EXT},
		},
	}

	for i, tt := range tests {
		tf, tfExt := PrepareTaskFileRegisters(tt.c, tt.f)
		if want, got := tt.tf, tf; want != got {
			t.Fatalf("[%02d] test %q, unexpected task file:\n- want: %+v\n-  got: %+v",
				i, tt.desc, want, got)
		}
		if want, got := tt.tfExt, tfExt; want != got {
			t.Fatalf("[%02d] test %q, unexpected task file ext:\n- want: %+v\n-  got: %+v",
				i, tt.desc, want, got)
		}
	}
}

func TestPrepareTaskFileRegistersDeterministic(t *testing.T) {
	c := CommandCharacteristics{FieldFormatting: Command48Bit, DataAccess: DataAccessWrite, TransferMode: TransferModePIO}
	f := CommandFields{Feature: 0xbeef, Count: 0x0100, Lba: 0xcafebabe, Device: 0x10, Command: ATA_WRITE_SECTORS_EXT}

	tf1, ext1 := PrepareTaskFileRegisters(c, f)
	tf2, ext2 := PrepareTaskFileRegisters(c, f)
	if tf1 != tf2 || ext1 != ext2 {
		t.Fatal("translation differs between calls")
	}
}

func TestBitField(t *testing.T) {
	var tests = []struct {
		data         uint64
		offset, size uint
		want         uint64
	}{
		{data: 0x0fabcdef, offset: 24, size: 4, want: 0x0f},
		{data: 0x123456789abc, offset: 40, size: 8, want: 0x12},
		{data: 0xff, offset: 0, size: 0, want: 0},
		{data: 0xffffffffffffffff, offset: 0, size: 64, want: 0xffffffffffffffff},
	}

	for i, tt := range tests {
		if want, got := tt.want, BitField(tt.data, tt.offset, tt.size); want != got {
			t.Fatalf("[%02d] unexpected bits: %#x != %#x", i, want, got)
		}
	}
}
