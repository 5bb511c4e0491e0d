package klv

// Tag identifies a factory data record. Values are fixed by the firmware
// reader and must not change.
type Tag uint8

const (
	// TagVerifier holds the base64 SPAKE2+ verifier (w0 || L).
	TagVerifier Tag = 1

	// TagSalt holds the base64 SPAKE2+ salt.
	TagSalt Tag = 2

	// TagIterationCount holds the PBKDF2 iteration count (uint32 LE).
	TagIterationCount Tag = 3

	// TagDacPrivateKey holds the raw DAC private scalar.
	TagDacPrivateKey Tag = 4

	// TagDacCert holds the DER Device Attestation Certificate.
	TagDacCert Tag = 5

	// TagPaiCert holds the DER Product Attestation Intermediate certificate.
	TagPaiCert Tag = 6

	// TagDiscriminator holds the setup discriminator (uint32 LE).
	TagDiscriminator Tag = 7
)

// Order is the on-disk record order expected by the firmware.
var Order = [RecordCount]Tag{
	TagVerifier,
	TagSalt,
	TagIterationCount,
	TagDacPrivateKey,
	TagDacCert,
	TagPaiCert,
	TagDiscriminator,
}

// String returns the tag name used in logs and reports.
func (t Tag) String() string {
	switch t {
	case TagVerifier:
		return "Verifier"
	case TagSalt:
		return "Salt"
	case TagIterationCount:
		return "IC"
	case TagDacPrivateKey:
		return "DacPKey"
	case TagDacCert:
		return "DacCert"
	case TagPaiCert:
		return "PaiCert"
	case TagDiscriminator:
		return "Disc"
	default:
		return "UNKNOWN"
	}
}
