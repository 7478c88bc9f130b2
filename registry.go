package atacmd

import (
	"sync"

	uuid "github.com/satori/go.uuid"
)

// A Registry routes command descriptors to the CommandTranslator registered
// for their format identifier.
type Registry struct {
	mu          sync.RWMutex
	translators map[uuid.UUID]CommandTranslator
}

// NewRegistry returns a Registry holding translators.
func NewRegistry(translators ...CommandTranslator) *Registry {
	r := &Registry{
		translators: make(map[uuid.UUID]CommandTranslator),
	}
	for _, t := range translators {
		r.Register(t)
	}

	return r
}

// Register installs t for its format, replacing any previous translator of
// the same format.
func (r *Registry) Register(t CommandTranslator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.translators[t.Format()] = t
}

// Lookup returns the translator registered for format.
func (r *Registry) Lookup(format uuid.UUID) (CommandTranslator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.translators[format]
	return t, ok
}

// IssueCommand classifies descriptor by its format identifier and issues it
// through the matching translator.
//
// If descriptor is not a known CommandDescriptor variant, or no translator is
// registered for its format, ErrorCodeFormatNotSupported is returned. A known
// variant with a truncated payload yields ErrorCodeBufferTooSmall.
func (r *Registry) IssueCommand(h DeviceHandle, descriptor *Buffer, data *Buffer) error {
	d, err := ClassifyDescriptor(descriptor)
	if err != nil {
		logger(ComponentRegistry).WithError(err).Debug("unrecognized descriptor")
		return err
	}

	t, ok := r.Lookup(d.Format())
	if !ok {
		logger(ComponentRegistry).WithField("format", d.Format().String()).Debug("no translator for format")
		return ErrorCodeFormatNotSupported
	}

	return t.IssueCommand(h, descriptor, data)
}
