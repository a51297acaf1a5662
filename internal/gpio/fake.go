package gpio

import "errors"

// FakeReader is a test double that returns scripted button values.
type FakeReader struct {
	// Samples contains scripted (aPressed, bPressed) values to return.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// Sample represents a single button reading (already in logical form).
type Sample struct {
	A bool // true = pressed
	B bool // true = pressed
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (bool, bool, error) {
	if f.ReadError != nil {
		return false, false, f.ReadError
	}

	if len(f.Samples) == 0 {
		return false, false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample.A, sample.B, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// Change is one recorded output transition.
type Change struct {
	Output Output
	On     bool
}

// FakeWriter records output transitions for test assertions.
type FakeWriter struct {
	// Changes contains every Set call in order.
	Changes []Change

	// State holds the current level of each output.
	State map[Output]bool

	// SetError, if set, will be returned by Set (the change is not recorded).
	SetError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeWriter creates a FakeWriter with every output off.
func NewFakeWriter() *FakeWriter {
	return &FakeWriter{State: make(map[Output]bool)}
}

// Set records the transition.
func (f *FakeWriter) Set(o Output, on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Changes = append(f.Changes, Change{Output: o, On: on})
	f.State[o] = on
	return nil
}

// Active returns the outputs currently on.
func (f *FakeWriter) Active() []Output {
	var out []Output
	for _, o := range []Output{OutputRed, OutputGreen, OutputBlue, OutputBuzzer} {
		if f.State[o] {
			out = append(out, o)
		}
	}
	return out
}

// Close turns everything off and marks the writer as closed.
func (f *FakeWriter) Close() error {
	for o := range f.State {
		f.State[o] = false
	}
	f.Closed = true
	return nil
}
