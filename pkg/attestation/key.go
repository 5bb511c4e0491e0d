package attestation

import (
	"crypto/ecdsa"
	"crypto/x509"
	"fmt"

	"github.com/youmark/pkcs8"
)

// ScalarSize is the byte length of a stored DAC private key.
const ScalarSize = 32

// ParsePrivateKey decodes an EC private key. With an empty password the
// input must be unencrypted PKCS#8 or SEC1; otherwise it must be encrypted
// PKCS#8. PEM input is unwrapped first.
func ParsePrivateKey(data []byte, password []byte) (*ecdsa.PrivateKey, error) {
	der, err := toDER(data, keyBlockTypes)
	if err != nil {
		return nil, &KeyDecodeError{Reason: "unwrapping PEM", Err: err}
	}

	var key any
	if len(password) > 0 {
		key, err = pkcs8.ParsePKCS8PrivateKey(der, password)
		if err != nil {
			return nil, &KeyDecodeError{Reason: "decrypting PKCS#8 key (wrong password or key not encrypted?)", Err: err}
		}
	} else {
		key, err = parseUnencrypted(der)
		if err != nil {
			return nil, err
		}
	}

	ecKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, &KeyDecodeError{Reason: fmt.Sprintf("%T", key), Err: ErrUnsupportedKey}
	}
	return ecKey, nil
}

func parseUnencrypted(der []byte) (any, error) {
	key, pkcs8Err := x509.ParsePKCS8PrivateKey(der)
	if pkcs8Err == nil {
		return key, nil
	}
	ecKey, sec1Err := x509.ParseECPrivateKey(der)
	if sec1Err == nil {
		return ecKey, nil
	}
	return nil, &KeyDecodeError{Reason: "not an unencrypted PKCS#8 or SEC1 key (encrypted keys need a password)", Err: pkcs8Err}
}

// Scalar returns the private value of key as a fixed-size big-endian
// buffer, left-padded with zeros.
func Scalar(key *ecdsa.PrivateKey) ([]byte, error) {
	if key.D.BitLen() > ScalarSize*8 {
		return nil, &KeyDecodeError{
			Reason: fmt.Sprintf("%s scalar does not fit in %d bytes", key.Curve.Params().Name, ScalarSize),
			Err:    ErrUnsupportedKey,
		}
	}
	return key.D.FillBytes(make([]byte, ScalarSize)), nil
}

// PrivateKeyScalar decodes data and returns the raw 32-byte private scalar.
func PrivateKeyScalar(data []byte, password []byte) ([]byte, error) {
	key, err := ParsePrivateKey(data, password)
	if err != nil {
		return nil, err
	}
	return Scalar(key)
}
