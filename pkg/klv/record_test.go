package klv

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeRecords walks an encoded buffer the way the firmware does.
func decodeRecords(t *testing.T, data []byte) []Record {
	t.Helper()

	var out []Record
	for off := 0; off < len(data); {
		require.GreaterOrEqual(t, len(data)-off, HeaderSize, "truncated header at %d", off)
		tag := Tag(data[off])
		n := int(binary.LittleEndian.Uint16(data[off+1:]))
		off += HeaderSize
		require.GreaterOrEqual(t, len(data)-off, n, "truncated %s value", tag)
		out = append(out, Record{Tag: tag, Value: data[off : off+n]})
		off += n
	}
	return out
}

func testFields() Fields {
	return Fields{
		Verifier:       []byte("dmVyaWZpZXI="),
		Salt:           []byte("AAAAAAAAAAAAAAAAAAAAAA=="),
		IterationCount: 1000,
		DacPrivateKey:  bytes.Repeat([]byte{0xAB}, DacPrivateKeySize),
		DacCert:        []byte{0x30, 0x82, 0x01, 0x02},
		PaiCert:        []byte{0x30, 0x81, 0x7f},
		Discriminator:  3840,
	}
}

func TestRecordSetOrder(t *testing.T) {
	rs, err := NewRecordSet(testFields())
	require.NoError(t, err)

	records := rs.Records()
	require.Len(t, records, RecordCount)
	for i, r := range records {
		assert.Equal(t, Tag(i+1), r.Tag, "record %d", i)
		assert.Equal(t, Order[i], r.Tag)
	}
}

func TestRecordSetSize(t *testing.T) {
	f := testFields()
	rs, err := NewRecordSet(f)
	require.NoError(t, err)

	want := HeaderSize + len(f.Verifier) +
		HeaderSize + len(f.Salt) +
		HeaderSize + 4 +
		HeaderSize + len(f.DacPrivateKey) +
		HeaderSize + len(f.DacCert) +
		HeaderSize + len(f.PaiCert) +
		HeaderSize + 4
	assert.Equal(t, want, rs.Size())

	data, err := rs.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, want)
}

func TestRecordSetRoundTrip(t *testing.T) {
	f := testFields()
	rs, err := NewRecordSet(f)
	require.NoError(t, err)

	data, err := rs.MarshalBinary()
	require.NoError(t, err)

	got := decodeRecords(t, data)
	require.Len(t, got, RecordCount)
	assert.Equal(t, rs.Records(), got)

	assert.Equal(t, f.Verifier, got[0].Value)
	assert.Equal(t, f.Salt, got[1].Value)
	assert.Equal(t, []byte{0xE8, 0x03, 0x00, 0x00}, got[2].Value)
	assert.Equal(t, f.DacPrivateKey, got[3].Value)
	assert.Equal(t, f.DacCert, got[4].Value)
	assert.Equal(t, f.PaiCert, got[5].Value)
	assert.Equal(t, []byte{0x00, 0x0F, 0x00, 0x00}, got[6].Value)
}

func TestRecordHeaderLayout(t *testing.T) {
	rs, err := NewRecordSet(testFields())
	require.NoError(t, err)

	data, err := rs.MarshalBinary()
	require.NoError(t, err)

	// Verifier is 12 bytes: tag 1, length 0x000c little-endian.
	assert.Equal(t, []byte{0x01, 0x0c, 0x00}, data[:3])
	assert.Equal(t, "dmVyaWZpZXI=", string(data[3:15]))
	assert.Equal(t, byte(TagSalt), data[15])
}

func TestRecordSetDeterministic(t *testing.T) {
	a, err := NewRecordSet(testFields())
	require.NoError(t, err)
	b, err := NewRecordSet(testFields())
	require.NoError(t, err)

	da, err := a.MarshalBinary()
	require.NoError(t, err)
	db, err := b.MarshalBinary()
	require.NoError(t, err)

	assert.Equal(t, da, db)
	assert.Equal(t, Digest(da), Digest(db))
}

func TestRecordSetCopiesInputs(t *testing.T) {
	f := testFields()
	rs, err := NewRecordSet(f)
	require.NoError(t, err)

	f.DacCert[0] = 0xFF
	r, ok := rs.Get(TagDacCert)
	require.True(t, ok)
	assert.Equal(t, byte(0x30), r.Value[0])
}

func TestRecordSetFieldLengthBoundary(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Fields, []byte)
		size    int
		wantTag Tag
		wantErr bool
	}{
		{"verifier max", func(f *Fields, b []byte) { f.Verifier = b }, MaxValueLen, TagVerifier, false},
		{"verifier over", func(f *Fields, b []byte) { f.Verifier = b }, MaxValueLen + 1, TagVerifier, true},
		{"key max", func(f *Fields, b []byte) { f.DacPrivateKey = b }, MaxValueLen, TagDacPrivateKey, false},
		{"key over", func(f *Fields, b []byte) { f.DacPrivateKey = b }, MaxValueLen + 1, TagDacPrivateKey, true},
		{"pai cert over", func(f *Fields, b []byte) { f.PaiCert = b }, MaxValueLen + 1, TagPaiCert, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testFields()
			tt.mutate(&f, make([]byte, tt.size))

			rs, err := NewRecordSet(f)
			if !tt.wantErr {
				require.NoError(t, err)
				r, _ := rs.Get(tt.wantTag)
				assert.Equal(t, tt.size, r.Len())

				data, err := rs.MarshalBinary()
				require.NoError(t, err)
				got := decodeRecords(t, data)
				assert.Equal(t, tt.size, got[int(tt.wantTag)-1].Len())
				return
			}

			require.Error(t, err)
			assert.Nil(t, rs)
			assert.True(t, errors.Is(err, ErrFieldTooLarge))

			var tooLarge *FieldTooLargeError
			require.True(t, errors.As(err, &tooLarge))
			assert.Equal(t, tt.wantTag, tooLarge.Tag)
			assert.Equal(t, tt.size, tooLarge.Len)
		})
	}
}

func TestRecordSetAccessorsReturnCopies(t *testing.T) {
	rs, err := NewRecordSet(testFields())
	require.NoError(t, err)
	want, err := rs.MarshalBinary()
	require.NoError(t, err)

	records := rs.Records()
	records[4].Value[0] = 0xFF
	cert, ok := rs.Get(TagDacCert)
	require.True(t, ok)
	assert.NotEqual(t, byte(0xFF), cert.Value[0])

	cert.Value[0] = 0xFF
	got, err := rs.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, fmt.Errorf("disk full")
	}
	w.after--
	return len(p), nil
}

func TestWriteToPropagatesErrors(t *testing.T) {
	rs, err := NewRecordSet(testFields())
	require.NoError(t, err)

	_, err = rs.WriteTo(&failingWriter{after: 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IC header")
}

func TestDigest(t *testing.T) {
	// SHA-256 of the empty string.
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Digest(nil))
}

func TestTagString(t *testing.T) {
	tests := []struct {
		tag  Tag
		want string
	}{
		{TagVerifier, "Verifier"},
		{TagSalt, "Salt"},
		{TagIterationCount, "IC"},
		{TagDacPrivateKey, "DacPKey"},
		{TagDacCert, "DacCert"},
		{TagPaiCert, "PaiCert"},
		{TagDiscriminator, "Disc"},
		{Tag(0), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.tag.String(); got != tt.want {
			t.Errorf("Tag(%d).String() = %q, want %q", tt.tag, got, tt.want)
		}
	}
}
