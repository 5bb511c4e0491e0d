package attestation

import (
	"errors"
	"fmt"
)

// Key and certificate errors.
var (
	ErrFileAccess     = errors.New("file access failed")
	ErrKeyDecode      = errors.New("private key decode failed")
	ErrInvalidPEM     = errors.New("invalid PEM data")
	ErrUnsupportedKey = errors.New("unsupported private key type")
	ErrKeyMismatch    = errors.New("private key does not match certificate")
)

// FileAccessError reports a missing or unreadable input file.
type FileAccessError struct {
	// What names the input, e.g. "DAC certificate".
	What string
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("%s: reading %s %s: %v", ErrFileAccess, e.What, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() []error {
	return []error{ErrFileAccess, e.Err}
}

// KeyDecodeError reports DER that could not be turned into a private scalar:
// malformed input, a wrong password or an unsupported key type.
type KeyDecodeError struct {
	Reason string
	Err    error
}

func (e *KeyDecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrKeyDecode, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrKeyDecode, e.Reason)
}

func (e *KeyDecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrKeyDecode}
	}
	return []error{ErrKeyDecode, e.Err}
}
