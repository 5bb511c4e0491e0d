// Package spake2p produces the SPAKE2+ parameters stored in factory data.
//
// The verifier math is not done here. A VerifierSource either runs the
// external spake2p tool:
//
//	spake2p gen-verifier --iteration-count <ic> --salt <base64> --pin-code <passcode> --out -
//
// and reads its two-line CSV output, or wraps a verifier that was computed
// ahead of time. Both return the verifier and salt as base64 text, which is
// the representation written to the device.
package spake2p
