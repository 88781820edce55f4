package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/2tbmz9y2xt-lang/btcdecode/addrcodec"
	"github.com/2tbmz9y2xt-lang/btcdecode/btcparse"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/urfave/cli"
)

func hexArg(ctx *cli.Context, name string) ([]byte, error) {
	if !ctx.Args().Present() {
		return nil, fmt.Errorf("%s argument missing", name)
	}
	s := strings.TrimPrefix(strings.TrimSpace(ctx.Args().First()), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return b, nil
}

func paramsFrom(ctx *cli.Context) (*chaincfg.Params, error) {
	return configFrom(ctx).Params()
}

type outputJSON struct {
	Index      int    `json:"index"`
	Value      uint64 `json:"value"`
	PkScript   string `json:"pk_script"`
	ScriptSize uint64 `json:"script_size"`
	TotalSize  uint64 `json:"total_size"`
	ScriptType string `json:"script_type"`
	Address    string `json:"address,omitempty"`
}

func describeOutputs(outs []btcparse.TxOutput, params *chaincfg.Params) []outputJSON {
	res := make([]outputJSON, 0, len(outs))
	for i, o := range outs {
		j := outputJSON{
			Index:      i,
			Value:      o.Value,
			PkScript:   hex.EncodeToString(o.PkScript),
			ScriptSize: o.ScriptSize,
			TotalSize:  o.TotalSize,
			ScriptType: btcparse.ClassifyScript(o.PkScript).String(),
		}
		// Outputs without an address form are still listed.
		if addr, err := addrcodec.FromScript(o.PkScript, params); err == nil {
			j.Address = addr
		}
		res = append(res, j)
	}
	return res
}

var outputsCommand = cli.Command{
	Name:      "outputs",
	Category:  "Decode",
	Usage:     "List the outputs of a raw transaction.",
	ArgsUsage: "txhex",
	Action:    decodeOutputs,
}

func decodeOutputs(ctx *cli.Context) error {
	raw, err := hexArg(ctx, "txhex")
	if err != nil {
		return err
	}
	params, err := paramsFrom(ctx)
	if err != nil {
		return err
	}
	outs, err := btcparse.GetOutputs(raw)
	if err != nil {
		return err
	}
	log.Debugf("Decoded outputs: %v", spewClosure(outs))

	return printJSON(ctx.App.Writer, describeOutputs(outs, params))
}

var classifyCommand = cli.Command{
	Name:      "classify",
	Category:  "Decode",
	Usage:     "Print the output template an output script matches.",
	ArgsUsage: "scripthex",
	Action: func(ctx *cli.Context) error {
		script, err := hexArg(ctx, "scripthex")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(ctx.App.Writer, btcparse.ClassifyScript(script))
		return err
	},
}

var addressCommand = cli.Command{
	Name:      "address",
	Category:  "Decode",
	Usage:     "Derive the address payload and text address of an output script.",
	ArgsUsage: "scripthex",
	Action:    deriveAddress,
}

func deriveAddress(ctx *cli.Context) error {
	script, err := hexArg(ctx, "scripthex")
	if err != nil {
		return err
	}
	params, err := paramsFrom(ctx)
	if err != nil {
		return err
	}
	p, err := btcparse.OutputScriptToAddress(script, params)
	if err != nil {
		return err
	}
	addr, err := addrcodec.Encode(p, params)
	if err != nil {
		return err
	}

	return printJSON(ctx.App.Writer, struct {
		Type    string `json:"type"`
		Version uint8  `json:"version"`
		Payload string `json:"payload"`
		Address string `json:"address"`
	}{
		Type:    p.Type.String(),
		Version: p.Version,
		Payload: hex.EncodeToString(p.Payload),
		Address: addr,
	})
}

var nullDataCommand = cli.Command{
	Name:      "nulldata",
	Category:  "Decode",
	Usage:     "Print the data carried by an OP_RETURN output script.",
	ArgsUsage: "scripthex",
	Action: func(ctx *cli.Context) error {
		script, err := hexArg(ctx, "scripthex")
		if err != nil {
			return err
		}
		data, err := btcparse.ParseNullDataScript(script)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(ctx.App.Writer, hex.EncodeToString(data))
		return err
	},
}

var p2shCommand = cli.Command{
	Name:      "p2sh",
	Category:  "Decode",
	Usage:     "Derive the P2SH payload and address committing to a redeem script.",
	ArgsUsage: "scripthex",
	Action: func(ctx *cli.Context) error {
		script, err := hexArg(ctx, "scripthex")
		if err != nil {
			return err
		}
		params, err := paramsFrom(ctx)
		if err != nil {
			return err
		}
		payload := btcparse.GetP2SHAddressFromScript(script, params)
		addr, err := addrcodec.Encode(btcparse.AddressPayload{
			Type:    btcparse.P2SH,
			Version: params.ScriptHashAddrID,
			Payload: payload,
		}, params)
		if err != nil {
			return err
		}
		return printJSON(ctx.App.Writer, struct {
			Payload string `json:"payload"`
			Address string `json:"address"`
		}{hex.EncodeToString(payload), addr})
	},
}

var validateP2SHCommand = cli.Command{
	Name:      "validate-p2sh",
	Category:  "Decode",
	Usage:     "Check whether an address is the P2SH address of a redeem script.",
	ArgsUsage: "address scripthex",
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 2 {
			return fmt.Errorf("expected address and scripthex arguments")
		}
		script, err := hex.DecodeString(strings.TrimPrefix(ctx.Args().Get(1), "0x"))
		if err != nil {
			return fmt.Errorf("invalid scripthex: %w", err)
		}
		params, err := paramsFrom(ctx)
		if err != nil {
			return err
		}
		ok, err := addrcodec.ValidateP2SH(ctx.Args().First(), script, params)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(ctx.App.Writer, ok)
		return err
	},
}

var timestampCommand = cli.Command{
	Name:      "timestamp",
	Category:  "Decode",
	Usage:     "Print the timestamp and hash of an 80-byte block header.",
	ArgsUsage: "headerhex",
	Action: func(ctx *cli.Context) error {
		header, err := hexArg(ctx, "headerhex")
		if err != nil {
			return err
		}
		ts, err := btcparse.GetBtcBlockTimestamp(header)
		if err != nil {
			return err
		}
		hash, err := btcparse.BlockHash(header)
		if err != nil {
			return err
		}
		return printJSON(ctx.App.Writer, struct {
			Timestamp uint32 `json:"timestamp"`
			BlockHash string `json:"block_hash"`
		}{ts, hash.String()})
	},
}

var txHashCommand = cli.Command{
	Name:      "txhash",
	Category:  "Decode",
	Usage:     "Print the double SHA-256 of the exact transaction bytes.",
	ArgsUsage: "txhex",
	Action: func(ctx *cli.Context) error {
		raw, err := hexArg(ctx, "txhex")
		if err != nil {
			return err
		}
		hash := btcparse.HashBtcTx(raw)
		_, err = fmt.Fprintln(ctx.App.Writer, hash)
		return err
	},
}
