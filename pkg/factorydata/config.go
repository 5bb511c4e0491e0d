package factorydata

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/mash-protocol/mash-factorygen/pkg/commissioning"
)

// AES128KeySize is the size of the optional dataset encryption key.
const AES128KeySize = 16

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the inputs of one generation run.
type Config struct {
	// IterationCount is the SPAKE2+ PBKDF2 iteration count.
	IterationCount uint32 `yaml:"iteration_count"`

	// Salt is the base64 SPAKE2+ salt.
	Salt string `yaml:"salt"`

	// Passcode is the setup passcode. Decimal or 0x-prefixed hex in YAML.
	Passcode commissioning.Passcode `yaml:"passcode"`

	// Discriminator is the 12-bit setup discriminator. It is a pointer
	// because zero is a valid value.
	Discriminator *uint32 `yaml:"discriminator"`

	DacCert string `yaml:"dac_cert"`
	DacKey  string `yaml:"dac_key"`
	PaiCert string `yaml:"pai_cert"`

	// DacKeyPassword decrypts an encrypted PKCS#8 DAC key.
	DacKeyPassword string `yaml:"dac_key_password"`

	// Spake2pPath is the spake2p tool. Not needed with Spake2pVerifier.
	Spake2pPath string `yaml:"spake2p_path"`

	// Spake2pVerifier is a precomputed base64 verifier.
	Spake2pVerifier string `yaml:"spake2p_verifier"`

	// Spake2pTimeout bounds the spake2p run. Zero means no limit.
	Spake2pTimeout time.Duration `yaml:"spake2p_timeout"`

	// AES128Key is accepted for compatibility but not used; the binary is
	// always written unencrypted.
	AES128Key string `yaml:"aes128_key"`

	// Out is the output binary path.
	Out string `yaml:"out"`

	// Report, when set, receives one CBOR run record per run.
	Report string `yaml:"report"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs error

	if c.IterationCount == 0 {
		errs = multierror.Append(errs, errors.New("iteration count is required and must be positive"))
	}

	if c.Salt == "" {
		errs = multierror.Append(errs, errors.New("salt is required"))
	} else if salt, err := base64.StdEncoding.DecodeString(c.Salt); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("salt is not valid base64: %w", err))
	} else if len(salt) == 0 {
		errs = multierror.Append(errs, errors.New("salt decodes to zero bytes"))
	}

	// The passcode only feeds the spake2p tool. With a precomputed
	// verifier it is never used and its problems are only warnings.
	if !c.precomputed() {
		if c.Passcode == 0 {
			errs = multierror.Append(errs, errors.New("passcode is required"))
		} else if err := c.Passcode.Validate(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	if c.Discriminator == nil {
		errs = multierror.Append(errs, errors.New("discriminator is required"))
	} else if err := commissioning.ValidateDiscriminator(*c.Discriminator); err != nil {
		errs = multierror.Append(errs, err)
	}

	for _, f := range []struct{ name, value string }{
		{"DAC certificate path", c.DacCert},
		{"DAC key path", c.DacKey},
		{"PAI certificate path", c.PaiCert},
		{"output path", c.Out},
	} {
		if f.value == "" {
			errs = multierror.Append(errs, fmt.Errorf("%s is required", f.name))
		}
	}

	if c.precomputed() {
		if v, err := base64.StdEncoding.DecodeString(c.Spake2pVerifier); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("spake2p verifier is not valid base64: %w", err))
		} else if len(v) == 0 {
			errs = multierror.Append(errs, errors.New("spake2p verifier decodes to zero bytes"))
		}
	} else if c.Spake2pPath == "" {
		errs = multierror.Append(errs, errors.New("spake2p path is required when no verifier is given"))
	}

	if c.Spake2pTimeout < 0 {
		errs = multierror.Append(errs, errors.New("spake2p timeout must not be negative"))
	}

	if c.AES128Key != "" {
		if key, err := hex.DecodeString(c.AES128Key); err != nil || len(key) != AES128KeySize {
			errs = multierror.Append(errs, fmt.Errorf("AES-128 key must be %d hex characters", AES128KeySize*2))
		}
	}

	if errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errs)
	}
	return nil
}

// Warnings returns non-fatal observations about a valid configuration.
func (c *Config) Warnings() []string {
	var warnings []string

	if c.DacKeyPassword == "" {
		warnings = append(warnings, "DAC key password not provided, the DAC key is not protected")
	}
	if c.precomputed() && c.Passcode != 0 {
		if err := c.Passcode.Validate(); err != nil {
			warnings = append(warnings, fmt.Sprintf("%v (unused with a precomputed verifier)", err))
		}
	}
	if !commissioning.IterationCountInRange(c.IterationCount) {
		warnings = append(warnings, fmt.Sprintf("iteration count %d is outside the recommended range %d-%d",
			c.IterationCount, commissioning.MinIterationCount, commissioning.MaxIterationCount))
	}
	if salt := c.salt(); !commissioning.SaltLengthInRange(len(salt)) {
		warnings = append(warnings, fmt.Sprintf("salt is %d bytes, recommended %d-%d",
			len(salt), commissioning.MinSaltLength, commissioning.MaxSaltLength))
	}
	if c.AES128Key != "" {
		warnings = append(warnings, "AES-128 key is ignored, factory data is written unencrypted")
	}
	return warnings
}

func (c *Config) precomputed() bool {
	return c.Spake2pVerifier != ""
}

// salt returns the decoded salt. Call only after Validate.
func (c *Config) salt() []byte {
	b, _ := base64.StdEncoding.DecodeString(c.Salt)
	return b
}

// verifier returns the decoded precomputed verifier, or nil.
func (c *Config) verifier() []byte {
	if c.Spake2pVerifier == "" {
		return nil
	}
	b, _ := base64.StdEncoding.DecodeString(c.Spake2pVerifier)
	return b
}

func (c *Config) discriminator() uint32 {
	if c.Discriminator == nil {
		return 0
	}
	return *c.Discriminator
}
