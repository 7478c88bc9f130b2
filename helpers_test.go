package atacmd

import (
	"sync"
)

// fakeHandle is a DeviceHandle that refers to no open file.
type fakeHandle uintptr

func (h fakeHandle) Fd() uintptr {
	return uintptr(h)
}

type spyCall struct {
	handle  DeviceHandle
	essence *Buffer
	raw     []byte
	data    *Buffer
}

// spyProtocol records every register layout it is handed.
type spyProtocol struct {
	mu    sync.Mutex
	calls []spyCall

	// err is returned from every call
	err error

	// scribble overwrites the essence buffer after recording it
	scribble bool
}

func (p *spyProtocol) IssueCommand(h DeviceHandle, essence *Buffer, data *Buffer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, spyCall{
		handle:  h,
		essence: essence,
		raw:     append([]byte(nil), essence.Bytes()...),
		data:    data,
	})

	if p.scribble {
		b := essence.Bytes()
		for i := range b {
			b[i] = 0xff
		}
	}

	return p.err
}

func (p *spyProtocol) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func (p *spyProtocol) last() spyCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[len(p.calls)-1]
}

// spyIssuer records the descriptors handed to a CommandIssuer.
type spyIssuer struct {
	descriptors []*Buffer
	data        []*Buffer
	err         error
}

func (s *spyIssuer) IssueCommand(h DeviceHandle, descriptor *Buffer, data *Buffer) error {
	s.descriptors = append(s.descriptors, descriptor)
	s.data = append(s.data, data)
	return s.err
}

func mustDescriptor(c CommandCharacteristics, f CommandFields) *Buffer {
	buf, err := NewAtaCommandDescriptor(c, f)
	if err != nil {
		panic(err)
	}
	return buf
}
