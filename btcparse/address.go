package btcparse

import (
	"bytes"

	"github.com/btcsuite/btcd/chaincfg"
)

// AddressPayload is the binary form of an address before text encoding.
//
// For P2PKH and P2SH, Version is the network version byte and Payload is that
// byte followed by the 20-byte hash, ready for Base58Check. For witness types,
// Version is the witness version (0 or 1) and Payload is the bare witness
// program, ready for Bech32 (v0) or Bech32m (v1).
type AddressPayload struct {
	Type    ScriptType
	Version byte
	Payload []byte
}

// NetParams maps the main/test selector to btcd network parameters.
func NetParams(isMainnet bool) *chaincfg.Params {
	if isMainnet {
		return &chaincfg.MainNetParams
	}
	return &chaincfg.TestNet3Params
}

func versioned(version byte, hash []byte) []byte {
	out := make([]byte, 0, 1+len(hash))
	out = append(out, version)
	return append(out, hash...)
}

// ParsePayToPubKeyHash returns the network's pubkey-hash version byte
// followed by the 20-byte hash.
func ParsePayToPubKeyHash(script []byte, params *chaincfg.Params) ([]byte, error) {
	if !IsP2PKHOutput(script) {
		return nil, errStructure(P2PKH, script)
	}
	return versioned(params.PubKeyHashAddrID, script[3:23]), nil
}

// ParsePayToScriptHash returns the network's script-hash version byte
// followed by the 20-byte hash.
func ParsePayToScriptHash(script []byte, params *chaincfg.Params) ([]byte, error) {
	if !IsP2SHOutput(script) {
		return nil, errStructure(P2SH, script)
	}
	return versioned(params.ScriptHashAddrID, script[2:22]), nil
}

// OutputScriptToAddress derives the address payload of script, trying P2PKH,
// P2SH, P2WPKH, P2WSH and P2TR in that order. Scripts without an address form
// (P2PK, null data, anything non-standard) fail with ERR_UNSUPPORTED_SCRIPT.
func OutputScriptToAddress(script []byte, params *chaincfg.Params) (AddressPayload, error) {
	switch {
	case IsP2PKHOutput(script):
		p, err := ParsePayToPubKeyHash(script, params)
		return AddressPayload{Type: P2PKH, Version: params.PubKeyHashAddrID, Payload: p}, err
	case IsP2SHOutput(script):
		p, err := ParsePayToScriptHash(script, params)
		return AddressPayload{Type: P2SH, Version: params.ScriptHashAddrID, Payload: p}, err
	case IsP2WPKHOutput(script):
		p, err := ParsePayToWitnessPubKeyHash(script)
		return AddressPayload{Type: P2WPKH, Version: 0, Payload: p}, err
	case IsP2WSHOutput(script):
		p, err := ParsePayToWitnessScriptHash(script)
		return AddressPayload{Type: P2WSH, Version: 0, Payload: p}, err
	case IsP2TROutput(script):
		p, err := ParsePayToTaproot(script)
		return AddressPayload{Type: P2TR, Version: 1, Payload: p}, err
	}
	log.Tracef("No address form for %s script of %d bytes",
		ClassifyScript(script), len(script))
	return AddressPayload{}, parseErr(ERR_UNSUPPORTED_SCRIPT, "unsupported script type")
}

// GetP2SHAddressFromScript returns the P2SH payload committing to script:
// the network's script-hash version byte followed by hash160(script).
func GetP2SHAddressFromScript(script []byte, params *chaincfg.Params) []byte {
	h := Hash160(script)
	return versioned(params.ScriptHashAddrID, h[:])
}

// ValidateP2SHAddress reports whether candidate is the P2SH payload of
// script. A mismatch is not an error.
func ValidateP2SHAddress(candidate, script []byte, params *chaincfg.Params) bool {
	return bytes.Equal(candidate, GetP2SHAddressFromScript(script, params))
}
