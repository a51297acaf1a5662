package eventlog

// Storage is the medium the log lives on.
type Storage interface {
	// Mount makes the medium available.
	Mount() error

	// OpenAppend opens (creating if needed) the named log for appending.
	OpenAppend(name string) (File, error)
}

// File is an append-only log handle.
type File interface {
	// Size returns the current length of the file in bytes.
	Size() (int64, error)

	// LastByte returns the final byte of a non-empty file.
	LastByte() (byte, error)

	// WriteLine appends s followed by the line terminator.
	WriteLine(s string) error

	// Sync flushes buffered data to the medium.
	Sync() error

	Close() error
}

// LineTerminator ends every row in the log.
const LineTerminator = "\n"
