package klv

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
)

// Layout constants.
const (
	// RecordCount is the number of records in every factory data binary.
	RecordCount = 7

	// HeaderSize is the per-record overhead: 1 tag byte + 2 length bytes.
	HeaderSize = 3

	// MaxValueLen is the largest value the 16-bit length field can describe.
	MaxValueLen = math.MaxUint16

	// DacPrivateKeySize is the expected size of the DAC private scalar.
	DacPrivateKeySize = 32
)

// ErrFieldTooLarge is matched by FieldTooLargeError.
var ErrFieldTooLarge = errors.New("field too large")

// FieldTooLargeError reports a value whose length does not fit the 16-bit
// length field.
type FieldTooLargeError struct {
	Tag Tag
	Len int
}

func (e *FieldTooLargeError) Error() string {
	return fmt.Sprintf("%s value is %d bytes, maximum is %d", e.Tag, e.Len, MaxValueLen)
}

// Unwrap lets errors.Is match ErrFieldTooLarge.
func (e *FieldTooLargeError) Unwrap() error {
	return ErrFieldTooLarge
}

// Record is a single tag/value entry. The length is always len(Value).
type Record struct {
	Tag   Tag
	Value []byte
}

// Len returns the value length written to the length field.
func (r Record) Len() int {
	return len(r.Value)
}

// Size returns the encoded size of the record including its header.
func (r Record) Size() int {
	return HeaderSize + len(r.Value)
}

// Fields are the inputs of a factory data binary.
type Fields struct {
	// Verifier is the base64 text of the SPAKE2+ verifier.
	Verifier []byte

	// Salt is the base64 text of the SPAKE2+ salt.
	Salt []byte

	IterationCount uint32

	// DacPrivateKey is the raw private scalar.
	DacPrivateKey []byte

	DacCert []byte
	PaiCert []byte

	// Discriminator is written as 4 bytes even though only 12 bits are used.
	Discriminator uint32
}

// RecordSet is the ordered, immutable list of the seven factory records.
type RecordSet struct {
	records [RecordCount]Record
}

// NewRecordSet builds the record set from fields, in firmware order.
// Values longer than MaxValueLen are rejected with *FieldTooLargeError.
func NewRecordSet(f Fields) (*RecordSet, error) {
	rs := &RecordSet{
		records: [RecordCount]Record{
			{Tag: TagVerifier, Value: clone(f.Verifier)},
			{Tag: TagSalt, Value: clone(f.Salt)},
			{Tag: TagIterationCount, Value: uint32LE(f.IterationCount)},
			{Tag: TagDacPrivateKey, Value: clone(f.DacPrivateKey)},
			{Tag: TagDacCert, Value: clone(f.DacCert)},
			{Tag: TagPaiCert, Value: clone(f.PaiCert)},
			{Tag: TagDiscriminator, Value: uint32LE(f.Discriminator)},
		},
	}

	for _, r := range rs.records {
		if err := checkLen(r); err != nil {
			return nil, err
		}
	}
	return rs, nil
}

// Records returns a deep copy of the records in wire order.
func (rs *RecordSet) Records() []Record {
	out := make([]Record, RecordCount)
	for i, r := range rs.records {
		out[i] = Record{Tag: r.Tag, Value: clone(r.Value)}
	}
	return out
}

// Get returns a copy of the record with the given tag.
func (rs *RecordSet) Get(tag Tag) (Record, bool) {
	for _, r := range rs.records {
		if r.Tag == tag {
			return Record{Tag: r.Tag, Value: clone(r.Value)}, true
		}
	}
	return Record{}, false
}

// Size returns the encoded size of the whole set.
func (rs *RecordSet) Size() int {
	n := 0
	for _, r := range rs.records {
		n += r.Size()
	}
	return n
}

// WriteTo writes the encoded records to w.
func (rs *RecordSet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	var hdr [HeaderSize]byte
	for _, r := range rs.records {
		hdr[0] = byte(r.Tag)
		binary.LittleEndian.PutUint16(hdr[1:], uint16(r.Len()))

		n, err := w.Write(hdr[:])
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("writing %s header: %w", r.Tag, err)
		}
		n, err = w.Write(r.Value)
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("writing %s value: %w", r.Tag, err)
		}
	}
	return total, nil
}

// MarshalBinary returns the encoded records as one contiguous buffer.
func (rs *RecordSet) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(rs.Size())
	if _, err := rs.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Digest returns the hex SHA-256 of an encoded buffer. The digest is an
// operator check only and is not stored in the binary.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func checkLen(r Record) error {
	if r.Len() > MaxValueLen {
		return &FieldTooLargeError{Tag: r.Tag, Len: r.Len()}
	}
	return nil
}

func uint32LE(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
