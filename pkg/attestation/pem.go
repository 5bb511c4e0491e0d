package attestation

import (
	"bytes"
	"encoding/pem"
	"fmt"
	"slices"
)

// PEM block types accepted for each input.
var (
	certBlockTypes = []string{"CERTIFICATE"}
	keyBlockTypes  = []string{"EC PRIVATE KEY", "PRIVATE KEY", "ENCRYPTED PRIVATE KEY"}
)

var pemPrefix = []byte("-----BEGIN ")

// IsPEM reports whether data looks like PEM text rather than DER.
func IsPEM(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(data), pemPrefix)
}

// toDER returns data unchanged when it is DER, or the bytes of its first PEM
// block when it is PEM. The block type must be one of types.
func toDER(data []byte, types []string) ([]byte, error) {
	if !IsPEM(data) {
		return data, nil
	}

	block, _ := pem.Decode(bytes.TrimSpace(data))
	if block == nil {
		return nil, ErrInvalidPEM
	}
	if !slices.Contains(types, block.Type) {
		return nil, fmt.Errorf("%w: unexpected block %q", ErrInvalidPEM, block.Type)
	}
	if _, ok := block.Headers["Proc-Type"]; ok {
		return nil, fmt.Errorf("%w: legacy PEM encryption is not supported, use encrypted PKCS#8", ErrInvalidPEM)
	}
	return block.Bytes, nil
}

// CertificateDER unwraps a certificate to DER.
func CertificateDER(data []byte) ([]byte, error) {
	return toDER(data, certBlockTypes)
}
