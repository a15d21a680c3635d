package clipboard

import "sync"

// Memory is an in-process clipboard that keeps only the most recent write.
// It backs dry runs and tests.
type Memory struct {
	mu     sync.Mutex
	text   string
	image  []byte
	isText bool
	writes int
	// Err, if set, is returned by every write.
	Err error
}

// NewMemory returns an empty Memory sink.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Name() string { return "memory" }

// WriteText implements Sink.
func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.text, m.image, m.isText = text, nil, true
	m.writes++
	return nil
}

// WriteImage implements Sink.
func (m *Memory) WriteImage(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if !isPNG(data) {
		return ErrMalformedImage
	}
	m.text, m.image, m.isText = "", append([]byte(nil), data...), false
	m.writes++
	return nil
}

// Text returns the last text written and whether the last write was text.
func (m *Memory) Text() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, m.isText && m.writes > 0
}

// Image returns the last image written, or nil if the last write was text.
func (m *Memory) Image() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.image
}

// Writes returns the number of successful writes.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *Memory) Close() {}
