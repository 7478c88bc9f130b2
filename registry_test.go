package atacmd

import (
	"testing"

	uuid "github.com/satori/go.uuid"
)

// stubTranslator claims an arbitrary format and counts calls.
type stubTranslator struct {
	format uuid.UUID
	calls  int
}

func (s *stubTranslator) Format() uuid.UUID { return s.format }

func (s *stubTranslator) IssueCommand(h DeviceHandle, descriptor *Buffer, data *Buffer) error {
	s.calls++
	return nil
}

func TestRegistryIssueCommand(t *testing.T) {
	p := &spyProtocol{}
	r := NewRegistry(NewCommandHandlerAta(p))

	desc := mustDescriptor(CommandCharacteristics{}, CommandFields{Command: ATA_FLUSH_CACHE})
	if err := r.IssueCommand(fakeHandle(0), desc, nil); err != nil {
		t.Fatalf("IssueCommand: %v", err)
	}
	if p.count() != 1 {
		t.Fatalf("protocol called %d times", p.count())
	}

	essence := NewBuffer(EssenceAta1Size)
	EssenceAta1Writer(essence)

	var tests = []struct {
		desc string
		buf  *Buffer
	}{
		{desc: "nil", buf: nil},
		{desc: "short", buf: NewBuffer(HeaderSize - 1)},
		{desc: "unregistered format", buf: essence},
	}

	for i, tt := range tests {
		if want, got := ErrorCodeFormatNotSupported, r.IssueCommand(fakeHandle(0), tt.buf, nil); want != got {
			t.Fatalf("[%02d] test %q, unexpected error: %v != %v",
				i, tt.desc, want, got)
		}
	}
	if p.count() != 1 {
		t.Fatalf("protocol called %d times", p.count())
	}

	truncated := NewBuffer(HeaderSize + characteristicsLen)
	w, _ := Writer(truncated)
	w.SetFormat(AtaCommandDescriptorFormat)
	if want, got := ErrorCodeBufferTooSmall, r.IssueCommand(fakeHandle(0), truncated, nil); want != got {
		t.Fatalf("truncated payload, unexpected error: %v != %v", want, got)
	}
	if p.count() != 1 {
		t.Fatalf("protocol called %d times", p.count())
	}
}

func TestRegistryMissingTranslator(t *testing.T) {
	r := NewRegistry()

	desc := mustDescriptor(CommandCharacteristics{}, CommandFields{Command: ATA_FLUSH_CACHE})
	if want, got := ErrorCodeFormatNotSupported, r.IssueCommand(fakeHandle(0), desc, nil); want != got {
		t.Fatalf("unexpected error: %v != %v", want, got)
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	first := &stubTranslator{format: AtaCommandDescriptorFormat}
	second := &stubTranslator{format: AtaCommandDescriptorFormat}

	r := NewRegistry(first)
	r.Register(second)

	got, ok := r.Lookup(AtaCommandDescriptorFormat)
	if !ok || got != second {
		t.Fatalf("unexpected translator: %v, %v", got, ok)
	}

	desc := mustDescriptor(CommandCharacteristics{}, CommandFields{})
	if err := r.IssueCommand(fakeHandle(0), desc, nil); err != nil {
		t.Fatalf("IssueCommand: %v", err)
	}
	if first.calls != 0 || second.calls != 1 {
		t.Fatalf("unexpected calls: first %d, second %d", first.calls, second.calls)
	}

	if _, ok := r.Lookup(EssenceAta1Format); ok {
		t.Fatal("lookup of unregistered format succeeded")
	}
}
