package atacmd

func mask(size uint) uint64 {
	if size == 0 {
		return 0
	}
	if size >= 64 {
		return ^uint64(0)
	}

	return (1 << size) - 1
}

type uintInterface interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// BitField returns size bits of data starting at bit offset.
func BitField[T uintInterface](data T, offset uint, size uint) T {
	return T((uint64(data) >> offset) & mask(size))
}

// byteAt returns byte n (0 = least significant) of data.
func byteAt[T uintInterface](data T, n uint) uint8 {
	return uint8(BitField(data, n*8, 8))
}
