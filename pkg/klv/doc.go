// Package klv encodes factory data records in the key-length-value layout
// read by device firmware at boot.
//
// # Wire Format
//
// The binary is a plain sequence of records with no header or trailer:
//
//	repeat 7 times:
//	  byte    tag     (1..7)
//	  uint16  length  (little-endian)
//	  bytes   value   (length bytes)
//
// Records always appear in tag order: Verifier, Salt, IterationCount,
// DacPrivateKey, DacCert, PaiCert, Discriminator. The firmware walks the
// buffer until it finds the requested tag, so the order and the exact length
// field are both part of the format.
//
// # Field Encoding
//
//   - Verifier and Salt are base64 ASCII text, not raw bytes
//   - IterationCount and Discriminator are 4-byte little-endian integers
//   - DacPrivateKey is the raw 32-byte big-endian P-256 scalar
//   - DacCert and PaiCert are DER certificates
package klv
