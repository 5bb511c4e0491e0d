package factorydata

import (
	"log/slog"

	pkglog "github.com/mash-protocol/mash-factorygen/pkg/log"
	"github.com/mash-protocol/mash-factorygen/pkg/spake2p"
)

// NewVerifierSource picks the verifier source for cfg: the precomputed
// verifier when one is configured, the spake2p tool otherwise.
func NewVerifierSource(cfg *Config, logger *slog.Logger) spake2p.VerifierSource {
	if v := cfg.verifier(); v != nil {
		return spake2p.NewPrecomputedSource(v)
	}
	return spake2p.NewExternalSource(cfg.Spake2pPath,
		spake2p.WithTimeout(cfg.Spake2pTimeout),
		spake2p.WithLogger(logger),
	)
}

// ModeOf reports the verifier mode recorded for src.
func ModeOf(src spake2p.VerifierSource) pkglog.VerifierMode {
	switch src.(type) {
	case *spake2p.ExternalSource:
		return pkglog.VerifierModeExternal
	case *spake2p.PrecomputedSource:
		return pkglog.VerifierModePrecomputed
	default:
		return pkglog.VerifierModeUnknown
	}
}
