package commissioning

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pairing value limits.
const (
	// PasscodeLength is the number of decimal digits in a passcode.
	PasscodeLength = 8

	// PasscodeMax is the largest valid passcode.
	PasscodeMax = 99999998

	// DiscriminatorMax is the maximum discriminator value (12 bits).
	DiscriminatorMax = 0xFFF

	// MinIterationCount and MaxIterationCount bound the recommended PBKDF2
	// iteration count.
	MinIterationCount = 1000
	MaxIterationCount = 100000

	// MinSaltLength and MaxSaltLength bound the recommended salt size.
	MinSaltLength = 16
	MaxSaltLength = 32
)

// Pairing value errors.
var (
	ErrInvalidPasscode      = errors.New("invalid passcode")
	ErrInvalidDiscriminator = errors.New("invalid discriminator")
)

// Passcode is the setup passcode used as the SPAKE2+ password.
type Passcode uint32

// trivialPasscodes are rejected because they are easy to guess.
var trivialPasscodes = map[Passcode]bool{
	0:        true,
	11111111: true,
	22222222: true,
	33333333: true,
	44444444: true,
	55555555: true,
	66666666: true,
	77777777: true,
	88888888: true,
	99999999: true,
	12345678: true,
	87654321: true,
}

// ParsePasscode parses a decimal or 0x-prefixed hex passcode. Any 32-bit
// value is accepted; call Validate to apply the pairing rules.
func ParsePasscode(s string) (Passcode, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPasscode, err)
	}
	return Passcode(n), nil
}

// UnmarshalYAML accepts the same forms as ParsePasscode.
func (p *Passcode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected a number", ErrInvalidPasscode, value.Line)
	}
	pc, err := ParsePasscode(value.Value)
	if err != nil {
		return err
	}
	*p = pc
	return nil
}

// String returns the passcode as an 8-digit string with leading zeros.
func (p Passcode) String() string {
	return fmt.Sprintf("%0*d", PasscodeLength, uint32(p))
}

// Validate checks the passcode range and rejects trivial values.
func (p Passcode) Validate() error {
	if p > PasscodeMax {
		return fmt.Errorf("%w: %d exceeds maximum value %d", ErrInvalidPasscode, p, PasscodeMax)
	}
	if trivialPasscodes[p] {
		return fmt.Errorf("%w: %s is not allowed", ErrInvalidPasscode, p)
	}
	return nil
}

// ValidateDiscriminator checks that d fits in 12 bits.
func ValidateDiscriminator(d uint32) error {
	if d > DiscriminatorMax {
		return fmt.Errorf("%w: %d exceeds 12 bits", ErrInvalidDiscriminator, d)
	}
	return nil
}

// IterationCountInRange reports whether ic is within the recommended bounds.
func IterationCountInRange(ic uint32) bool {
	return ic >= MinIterationCount && ic <= MaxIterationCount
}

// SaltLengthInRange reports whether n is within the recommended salt size.
func SaltLengthInRange(n int) bool {
	return n >= MinSaltLength && n <= MaxSaltLength
}
