package archive

import (
	"io"
	"os"
)

// Kind is the detected layout of a mountable path.
type Kind string

const (
	KindDir     Kind = "DIR"     // extracted directory tree
	KindZip     Kind = "ZIP"     // zip archive
	KindHashFS  Kind = "HASHFS"  // SCS hashed archive
	KindUnknown Kind = "UNKNOWN" // anything else
)

// Detect reads the header of path and reports its archive kind.
func Detect(path string) (kind Kind, err error) {
	st, err := os.Stat(path)
	if err != nil {
		return KindUnknown, err
	}
	if st.IsDir() {
		return KindDir, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	var hdr [4]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return KindUnknown, nil
		}
		return KindUnknown, err
	}

	switch string(hdr[:]) {
	case "PK\x03\x04", "PK\x05\x06":
		return KindZip, nil
	case "SCS#":
		return KindHashFS, nil
	default:
		return KindUnknown, nil
	}
}

// Open detects the kind of path and opens a matching source.
func Open(path string) (Source, error) {
	kind, err := Detect(path)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindDir:
		return OpenDir(path)
	case KindZip:
		return OpenZip(path)
	default:
		return nil, &UnsupportedError{Path: path, Kind: kind}
	}
}

// UnsupportedError reports a path that cannot be mounted.
type UnsupportedError struct {
	Path string
	Kind Kind
}

// Error implements error.
func (e *UnsupportedError) Error() string {
	return "archive: cannot mount " + e.Path + " (" + string(e.Kind) + ")"
}

// Unwrap lets errors.Is match ErrUnsupported.
func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }
