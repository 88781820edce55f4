package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/2tbmz9y2xt-lang/btcdecode/addrcodec"
	"github.com/2tbmz9y2xt-lang/btcdecode/btcparse"
)

type Request struct {
	Op         string `json:"op"`
	TxHex      string `json:"tx_hex,omitempty"`
	ScriptHex  string `json:"script_hex,omitempty"`
	HeaderHex  string `json:"header_hex,omitempty"`
	AddressHex string `json:"address_hex,omitempty"`
	Mainnet    bool   `json:"mainnet,omitempty"`
}

type OutputJSON struct {
	Value      uint64 `json:"value"`
	PkScript   string `json:"pk_script"`
	ScriptSize uint64 `json:"script_size"`
	TotalSize  uint64 `json:"total_size"`
}

type Response struct {
	Ok  bool   `json:"ok"`
	Err string `json:"err,omitempty"`

	Version    *uint32      `json:"version,omitempty"`
	HasWitness bool         `json:"has_witness,omitempty"`
	InputCount int          `json:"input_count,omitempty"`
	Outputs    []OutputJSON `json:"outputs,omitempty"`
	LockTime   *uint32      `json:"locktime,omitempty"`
	Size       int          `json:"size,omitempty"`

	ScriptType     string `json:"script_type,omitempty"`
	PayloadVersion *uint8 `json:"payload_version,omitempty"`
	PayloadHex     string `json:"payload,omitempty"`
	Address        string `json:"address,omitempty"`
	DataHex        string `json:"data,omitempty"`
	Valid          *bool  `json:"valid,omitempty"`

	Timestamp *uint32 `json:"timestamp,omitempty"`
	BlockHash string  `json:"block_hash,omitempty"`
	// TxHash is the byte-reversed transaction id; DigestHex is the raw
	// double SHA-256 output.
	TxHash    string  `json:"tx_hash,omitempty"`
	DigestHex string  `json:"digest,omitempty"`
}

func writeResp(w io.Writer, resp Response) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(resp)
}

// writeParseErr reports coded decoder errors by their code alone so the
// output can be compared across implementations.
func writeParseErr(w io.Writer, err error) {
	var pe *btcparse.Error
	if errors.As(err, &pe) {
		writeResp(w, Response{Ok: false, Err: string(pe.Code)})
		return
	}
	writeResp(w, Response{Ok: false, Err: err.Error()})
}

func decodeHexField(s string) ([]byte, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(s, "0x")
	return hex.DecodeString(s)
}

func outputsJSON(outs []btcparse.TxOutput) []OutputJSON {
	res := make([]OutputJSON, 0, len(outs))
	for _, o := range outs {
		res = append(res, OutputJSON{
			Value:      o.Value,
			PkScript:   hex.EncodeToString(o.PkScript),
			ScriptSize: o.ScriptSize,
			TotalSize:  o.TotalSize,
		})
	}
	return res
}

func runFromStdin() {
	run(os.Stdin, os.Stdout)
}

func run(r io.Reader, w io.Writer) {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		writeResp(w, Response{Ok: false, Err: fmt.Sprintf("bad request: %v", err)})
		return
	}
	params := btcparse.NetParams(req.Mainnet)

	switch req.Op {
	case "parse_tx":
		txBytes, err := decodeHexField(req.TxHex)
		if err != nil {
			writeResp(w, Response{Ok: false, Err: "bad hex"})
			return
		}
		tx, err := btcparse.ParseTx(txBytes)
		if err != nil {
			writeParseErr(w, err)
			return
		}
		hash := btcparse.HashBtcTx(txBytes)
		writeResp(w, Response{
			Ok:         true,
			Version:    &tx.Version,
			HasWitness: tx.HasWitness,
			InputCount: tx.InputCount,
			Outputs:    outputsJSON(tx.Outputs),
			LockTime:   &tx.LockTime,
			Size:       tx.Size,
			TxHash:     hash.String(),
		})
		return

	case "get_outputs":
		txBytes, err := decodeHexField(req.TxHex)
		if err != nil {
			writeResp(w, Response{Ok: false, Err: "bad hex"})
			return
		}
		outs, err := btcparse.GetOutputs(txBytes)
		if err != nil {
			writeParseErr(w, err)
			return
		}
		writeResp(w, Response{Ok: true, Outputs: outputsJSON(outs)})
		return

	case "classify_script":
		script, err := decodeHexField(req.ScriptHex)
		if err != nil {
			writeResp(w, Response{Ok: false, Err: "bad hex"})
			return
		}
		writeResp(w, Response{Ok: true, ScriptType: btcparse.ClassifyScript(script).String()})
		return

	case "output_script_to_address":
		script, err := decodeHexField(req.ScriptHex)
		if err != nil {
			writeResp(w, Response{Ok: false, Err: "bad hex"})
			return
		}
		p, err := btcparse.OutputScriptToAddress(script, params)
		if err != nil {
			writeParseErr(w, err)
			return
		}
		addr, err := addrcodec.Encode(p, params)
		if err != nil {
			writeResp(w, Response{Ok: false, Err: err.Error()})
			return
		}
		writeResp(w, Response{
			Ok:             true,
			ScriptType:     p.Type.String(),
			PayloadVersion: &p.Version,
			PayloadHex:     hex.EncodeToString(p.Payload),
			Address:        addr,
		})
		return

	case "parse_null_data":
		script, err := decodeHexField(req.ScriptHex)
		if err != nil {
			writeResp(w, Response{Ok: false, Err: "bad hex"})
			return
		}
		data, err := btcparse.ParseNullDataScript(script)
		if err != nil {
			writeParseErr(w, err)
			return
		}
		writeResp(w, Response{Ok: true, DataHex: hex.EncodeToString(data)})
		return

	case "p2sh_from_script":
		script, err := decodeHexField(req.ScriptHex)
		if err != nil {
			writeResp(w, Response{Ok: false, Err: "bad hex"})
			return
		}
		payload := btcparse.GetP2SHAddressFromScript(script, params)
		addr, err := addrcodec.Encode(btcparse.AddressPayload{
			Type:    btcparse.P2SH,
			Version: params.ScriptHashAddrID,
			Payload: payload,
		}, params)
		if err != nil {
			writeResp(w, Response{Ok: false, Err: err.Error()})
			return
		}
		writeResp(w, Response{Ok: true, PayloadHex: hex.EncodeToString(payload), Address: addr})
		return

	case "validate_p2sh":
		script, err := decodeHexField(req.ScriptHex)
		if err != nil {
			writeResp(w, Response{Ok: false, Err: "bad hex"})
			return
		}
		candidate, err := decodeHexField(req.AddressHex)
		if err != nil {
			writeResp(w, Response{Ok: false, Err: "bad address_hex"})
			return
		}
		valid := btcparse.ValidateP2SHAddress(candidate, script, params)
		writeResp(w, Response{Ok: true, Valid: &valid})
		return

	case "block_timestamp":
		header, err := decodeHexField(req.HeaderHex)
		if err != nil {
			writeResp(w, Response{Ok: false, Err: "bad hex"})
			return
		}
		ts, err := btcparse.GetBtcBlockTimestamp(header)
		if err != nil {
			writeParseErr(w, err)
			return
		}
		hash, err := btcparse.BlockHash(header)
		if err != nil {
			writeParseErr(w, err)
			return
		}
		writeResp(w, Response{Ok: true, Timestamp: &ts, BlockHash: hash.String()})
		return

	case "hash_tx":
		txBytes, err := decodeHexField(req.TxHex)
		if err != nil {
			writeResp(w, Response{Ok: false, Err: "bad hex"})
			return
		}
		hash := btcparse.HashBtcTx(txBytes)
		writeResp(w, Response{Ok: true, TxHash: hash.String(), DigestHex: hex.EncodeToString(hash[:])})
		return

	default:
		writeResp(w, Response{Ok: false, Err: "unknown op"})
		return
	}
}
