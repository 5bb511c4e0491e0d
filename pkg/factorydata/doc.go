// Package factorydata generates the factory data binary for one device.
//
// A run loads the DAC key and the DAC/PAI certificates, obtains the SPAKE2+
// verifier from a spake2p.VerifierSource, encodes the seven KLV records and
// replaces the output file atomically. Each run ends with a log.Event that
// carries the binary size and SHA-256 for the operator to check, or the step
// that failed.
//
// Configuration comes from a YAML file, command-line flags or both; see
// Config.
package factorydata
