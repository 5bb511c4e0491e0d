package attestation

import (
	"crypto/ecdsa"
	"crypto/x509"
	"fmt"
	"os"
)

// Credentials is the attestation material written to factory data.
type Credentials struct {
	// DacKey is the raw private scalar of the DAC key.
	DacKey []byte

	// DacCert and PaiCert are DER certificates.
	DacCert []byte
	PaiCert []byte

	// PrivateKey is the decoded DAC key, kept for consistency checks.
	PrivateKey *ecdsa.PrivateKey
}

// readFile reads an input file in one shot.
func readFile(what, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileAccessError{What: what, Path: path, Err: err}
	}
	return data, nil
}

// ReadCertificate reads a DER (or PEM) certificate file and returns DER.
func ReadCertificate(what, path string) ([]byte, error) {
	data, err := readFile(what, path)
	if err != nil {
		return nil, err
	}
	der, err := CertificateDER(data)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", what, path, err)
	}
	return der, nil
}

// ReadPrivateKey reads a key file and decodes it with password.
func ReadPrivateKey(path string, password []byte) (*ecdsa.PrivateKey, error) {
	data, err := readFile("DAC key", path)
	if err != nil {
		return nil, err
	}
	return ParsePrivateKey(data, password)
}

// Load reads the DAC key, DAC certificate and PAI certificate.
func Load(dacKeyPath string, password []byte, dacCertPath, paiCertPath string) (*Credentials, error) {
	key, err := ReadPrivateKey(dacKeyPath, password)
	if err != nil {
		return nil, fmt.Errorf("reading DAC key: %w", err)
	}
	scalar, err := Scalar(key)
	if err != nil {
		return nil, fmt.Errorf("reading DAC key: %w", err)
	}

	dacCert, err := ReadCertificate("DAC certificate", dacCertPath)
	if err != nil {
		return nil, err
	}
	paiCert, err := ReadCertificate("PAI certificate", paiCertPath)
	if err != nil {
		return nil, err
	}

	return &Credentials{
		DacKey:     scalar,
		DacCert:    dacCert,
		PaiCert:    paiCert,
		PrivateKey: key,
	}, nil
}

// CheckKeyPair verifies that certDER carries the public half of key. The
// firmware signs attestation challenges with the stored scalar and the
// public key from the DAC, so a mismatch yields unverifiable signatures.
func CheckKeyPair(certDER []byte, key *ecdsa.PrivateKey) error {
	cert, err := x509.ParseCertificate(certDER)
	if err != nil {
		return fmt.Errorf("parsing DAC certificate: %w", err)
	}
	pub, ok := cert.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: certificate key is %T", ErrKeyMismatch, cert.PublicKey)
	}
	if !pub.Equal(key.Public()) {
		return ErrKeyMismatch
	}
	return nil
}
