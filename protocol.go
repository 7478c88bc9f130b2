package atacmd

// A DeviceHandle identifies the device a command is issued against. Protocols
// assert the concrete handle type they need.
type DeviceHandle interface {
	Fd() uintptr
}

// A Protocol issues a prepared register layout, plus an optional data
// buffer, against a device.
//
// The essence buffer is borrowed for the duration of the call only. Any
// serialization the device requires is the Protocol's responsibility.
type Protocol interface {
	IssueCommand(h DeviceHandle, essence *Buffer, data *Buffer) error
}

// ProtocolFunc adapts a function to the Protocol interface.
type ProtocolFunc func(h DeviceHandle, essence *Buffer, data *Buffer) error

// IssueCommand calls f(h, essence, data).
func (f ProtocolFunc) IssueCommand(h DeviceHandle, essence *Buffer, data *Buffer) error {
	return f(h, essence, data)
}
