// Package commissioning validates the pairing values a device is
// provisioned with.
//
// # Passcode
//
// The setup passcode is the SPAKE2+ password: an integer in the range
// 00000001-99999998 (27 bits). A fixed list of trivially guessable values
// (all digits equal, 12345678, 87654321) is rejected.
//
// # Discriminator
//
// The discriminator is a 12-bit value (0-4095) used to pick the right device
// during discovery. Factory data stores it in a 4-byte little-endian field
// whose upper bits must stay zero.
//
// # SPAKE2+ Parameters
//
//   - Iteration count: PBKDF2 rounds, 1000-100000 recommended
//   - Salt: 16-32 random bytes recommended
package commissioning
