// Package attestation loads the Device Attestation Certificate (DAC), its
// private key and the Product Attestation Intermediate (PAI) certificate
// that are written into factory data.
//
// Inputs are DER files. PEM-wrapped files are accepted and unwrapped to DER,
// since the firmware only understands DER. The DAC private key is stored on
// the device as its raw 32-byte big-endian scalar; PrivateKeyScalar extracts
// it from SEC1, PKCS#8 or password-encrypted PKCS#8 input.
package attestation
