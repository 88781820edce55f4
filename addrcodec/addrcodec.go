// Package addrcodec converts address payloads derived by btcparse to and from
// their text form: Base58Check for P2PKH and P2SH, Bech32 for witness version
// 0 and Bech32m for witness version 1.
package addrcodec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/2tbmz9y2xt-lang/btcdecode/btcparse"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/chaincfg"
)

var (
	// ErrUnknownFormat is returned when text is neither valid Base58Check
	// nor valid Bech32/Bech32m.
	ErrUnknownFormat = errors.New("unrecognized address format")

	// ErrWrongNetwork is returned when an address decodes but its version
	// byte or HRP belongs to another network.
	ErrWrongNetwork = errors.New("address is for a different network")

	// ErrInvalidPayload is returned for payloads whose length, version or
	// checksum variant does not fit their type.
	ErrInvalidPayload = errors.New("invalid address payload")
)

const hashLen = 20

// Encode returns the text form of p on the given network.
func Encode(p btcparse.AddressPayload, params *chaincfg.Params) (string, error) {
	switch p.Type {
	case btcparse.P2PKH, btcparse.P2SH:
		want := params.PubKeyHashAddrID
		if p.Type == btcparse.P2SH {
			want = params.ScriptHashAddrID
		}
		if len(p.Payload) != 1+hashLen {
			return "", fmt.Errorf("%w: %s payload of %d bytes",
				ErrInvalidPayload, p.Type, len(p.Payload))
		}
		if p.Payload[0] != want {
			return "", fmt.Errorf("%w: version 0x%02x, want 0x%02x",
				ErrWrongNetwork, p.Payload[0], want)
		}
		return base58.CheckEncode(p.Payload[1:], p.Payload[0]), nil

	case btcparse.P2WPKH, btcparse.P2WSH, btcparse.P2TR:
		if err := checkProgram(p.Type, p.Version, len(p.Payload)); err != nil {
			return "", err
		}
		conv, err := bech32.ConvertBits(p.Payload, 8, 5, true)
		if err != nil {
			return "", err
		}
		data := append([]byte{p.Version}, conv...)
		if p.Version == 0 {
			return bech32.Encode(params.Bech32HRPSegwit, data)
		}
		return bech32.EncodeM(params.Bech32HRPSegwit, data)
	}

	return "", fmt.Errorf("%w: no text form for %s", ErrInvalidPayload, p.Type)
}

// Decode parses addr for the given network and returns the payload in the
// same shape btcparse.OutputScriptToAddress produces.
func Decode(addr string, params *chaincfg.Params) (btcparse.AddressPayload, error) {
	if hrp, data, bv, err := bech32.DecodeGeneric(addr); err == nil {
		return decodeSegwit(hrp, data, bv, params)
	}

	hash, version, err := base58.CheckDecode(addr)
	if err != nil {
		return btcparse.AddressPayload{}, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	if len(hash) != hashLen {
		return btcparse.AddressPayload{}, fmt.Errorf("%w: hash of %d bytes",
			ErrInvalidPayload, len(hash))
	}

	var typ btcparse.ScriptType
	switch version {
	case params.PubKeyHashAddrID:
		typ = btcparse.P2PKH
	case params.ScriptHashAddrID:
		typ = btcparse.P2SH
	default:
		return btcparse.AddressPayload{}, fmt.Errorf("%w: version 0x%02x on %s",
			ErrWrongNetwork, version, params.Name)
	}

	return btcparse.AddressPayload{
		Type:    typ,
		Version: version,
		Payload: append([]byte{version}, hash...),
	}, nil
}

func decodeSegwit(hrp string, data []byte, bv bech32.Version,
	params *chaincfg.Params) (btcparse.AddressPayload, error) {

	if hrp != params.Bech32HRPSegwit {
		return btcparse.AddressPayload{}, fmt.Errorf("%w: hrp %q on %s",
			ErrWrongNetwork, hrp, params.Name)
	}
	if len(data) < 1 {
		return btcparse.AddressPayload{}, fmt.Errorf("%w: empty data part",
			ErrInvalidPayload)
	}

	version := data[0]
	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return btcparse.AddressPayload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	// BIP-350: v0 must use Bech32, everything later Bech32m.
	if (version == 0) != (bv == bech32.Version0) {
		return btcparse.AddressPayload{}, fmt.Errorf("%w: witness v%d with wrong checksum variant",
			ErrInvalidPayload, version)
	}

	var typ btcparse.ScriptType
	switch {
	case version == 0 && len(program) == 20:
		typ = btcparse.P2WPKH
	case version == 0 && len(program) == 32:
		typ = btcparse.P2WSH
	case version == 1 && len(program) == 32:
		typ = btcparse.P2TR
	default:
		return btcparse.AddressPayload{}, fmt.Errorf("%w: witness v%d program of %d bytes",
			ErrInvalidPayload, version, len(program))
	}

	return btcparse.AddressPayload{Type: typ, Version: version, Payload: program}, nil
}

func checkProgram(typ btcparse.ScriptType, version byte, n int) error {
	ok := false
	switch typ {
	case btcparse.P2WPKH:
		ok = version == 0 && n == 20
	case btcparse.P2WSH:
		ok = version == 0 && n == 32
	case btcparse.P2TR:
		ok = version == 1 && n == 32
	}
	if !ok {
		return fmt.Errorf("%w: %s with version %d and %d byte program",
			ErrInvalidPayload, typ, version, n)
	}
	return nil
}

// FromScript derives the address of an output script and encodes it.
func FromScript(pkScript []byte, params *chaincfg.Params) (string, error) {
	p, err := btcparse.OutputScriptToAddress(pkScript, params)
	if err != nil {
		return "", err
	}
	return Encode(p, params)
}

// PkScript rebuilds the output script p commits to.
func PkScript(p btcparse.AddressPayload) ([]byte, error) {
	switch p.Type {
	case btcparse.P2PKH:
		if len(p.Payload) != 1+hashLen {
			break
		}
		s := []byte{btcparse.OP_DUP, btcparse.OP_HASH160, btcparse.OP_DATA_20}
		s = append(s, p.Payload[1:]...)
		return append(s, btcparse.OP_EQUALVERIFY, btcparse.OP_CHECKSIG), nil

	case btcparse.P2SH:
		if len(p.Payload) != 1+hashLen {
			break
		}
		s := []byte{btcparse.OP_HASH160, btcparse.OP_DATA_20}
		s = append(s, p.Payload[1:]...)
		return append(s, btcparse.OP_EQUAL), nil

	case btcparse.P2WPKH, btcparse.P2WSH, btcparse.P2TR:
		if err := checkProgram(p.Type, p.Version, len(p.Payload)); err != nil {
			return nil, err
		}
		op := byte(btcparse.OP_0)
		if p.Version == 1 {
			op = btcparse.OP_1
		}
		return append([]byte{op, byte(len(p.Payload))}, p.Payload...), nil
	}

	return nil, fmt.Errorf("%w: cannot build script for %s payload of %d bytes",
		ErrInvalidPayload, p.Type, len(p.Payload))
}

// MatchesScript reports whether addr is the address of pkScript. Scripts with
// no address form yield btcparse.ErrUnsupportedScript.
func MatchesScript(addr string, pkScript []byte, params *chaincfg.Params) (bool, error) {
	want, err := Decode(addr, params)
	if err != nil {
		return false, err
	}
	got, err := btcparse.OutputScriptToAddress(pkScript, params)
	if err != nil {
		return false, err
	}
	return got.Type == want.Type && bytes.Equal(got.Payload, want.Payload), nil
}

// ValidateP2SH reports whether addr is the P2SH address committing to
// redeemScript. Non-P2SH addresses simply do not match.
func ValidateP2SH(addr string, redeemScript []byte, params *chaincfg.Params) (bool, error) {
	p, err := Decode(addr, params)
	if err != nil {
		return false, err
	}
	if p.Type != btcparse.P2SH {
		return false, nil
	}
	return btcparse.ValidateP2SHAddress(p.Payload, redeemScript, params), nil
}
