package main

import (
	"encoding/hex"
	"fmt"

	"github.com/2tbmz9y2xt-lang/btcdecode/btcparse"
	"github.com/2tbmz9y2xt-lang/btcdecode/txstore"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/urfave/cli"
)

func openStore(ctx *cli.Context) (*txstore.DB, error) {
	cfg := configFrom(ctx)
	return txstore.Open(cfg.DataDir, cfg.Network)
}

func hashArg(ctx *cli.Context) (chainhash.Hash, error) {
	if !ctx.Args().Present() {
		return chainhash.Hash{}, fmt.Errorf("hash argument missing")
	}
	h, err := chainhash.NewHashFromStr(ctx.Args().First())
	if err != nil {
		return chainhash.Hash{}, fmt.Errorf("invalid hash: %w", err)
	}
	return *h, nil
}

var importTxCommand = cli.Command{
	Name:      "import-tx",
	Category:  "Store",
	Usage:     "Store a raw transaction under its hash.",
	ArgsUsage: "txhex",
	Action: func(ctx *cli.Context) error {
		raw, err := hexArg(ctx, "txhex")
		if err != nil {
			return err
		}
		db, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		hash, err := db.PutTx(raw)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(ctx.App.Writer, hash)
		return err
	},
}

var importHeaderCommand = cli.Command{
	Name:      "import-header",
	Category:  "Store",
	Usage:     "Store an 80-byte block header under its block hash.",
	ArgsUsage: "headerhex",
	Action: func(ctx *cli.Context) error {
		header, err := hexArg(ctx, "headerhex")
		if err != nil {
			return err
		}
		db, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		hash, err := db.PutHeader(header)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(ctx.App.Writer, hash)
		return err
	},
}

var showTxCommand = cli.Command{
	Name:      "show-tx",
	Category:  "Store",
	Usage:     "Decode a stored transaction.",
	ArgsUsage: "hash",
	Action:    showTx,
}

func showTx(ctx *cli.Context) error {
	hash, err := hashArg(ctx)
	if err != nil {
		return err
	}
	params, err := paramsFrom(ctx)
	if err != nil {
		return err
	}
	db, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	raw, err := db.GetTx(hash)
	if err != nil {
		return err
	}
	tx, err := btcparse.ParseTx(raw)
	if err != nil {
		return fmt.Errorf("stored tx %v: %w", hash, err)
	}
	log.Tracef("Stored tx %v: %v", hash, spewClosure(tx))

	return printJSON(ctx.App.Writer, struct {
		Hash       string       `json:"hash"`
		Version    uint32       `json:"version"`
		HasWitness bool         `json:"has_witness"`
		InputCount int          `json:"input_count"`
		LockTime   uint32       `json:"locktime"`
		Size       int          `json:"size"`
		Outputs    []outputJSON `json:"outputs"`
		Raw        string       `json:"raw"`
	}{
		Hash:       hash.String(),
		Version:    tx.Version,
		HasWitness: tx.HasWitness,
		InputCount: tx.InputCount,
		LockTime:   tx.LockTime,
		Size:       tx.Size,
		Outputs:    describeOutputs(tx.Outputs, params),
		Raw:        hex.EncodeToString(raw),
	})
}

var showHeaderCommand = cli.Command{
	Name:      "show-header",
	Category:  "Store",
	Usage:     "Print the timestamp of a stored block header.",
	ArgsUsage: "hash",
	Action: func(ctx *cli.Context) error {
		hash, err := hashArg(ctx)
		if err != nil {
			return err
		}
		db, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		header, err := db.GetHeader(hash)
		if err != nil {
			return err
		}
		ts, err := btcparse.GetBtcBlockTimestamp(header)
		if err != nil {
			return err
		}
		return printJSON(ctx.App.Writer, struct {
			BlockHash string `json:"block_hash"`
			Timestamp uint32 `json:"timestamp"`
			Header    string `json:"header"`
		}{hash.String(), ts, hex.EncodeToString(header)})
	},
}

var listTxCommand = cli.Command{
	Name:     "list-tx",
	Category: "Store",
	Usage:    "List stored transactions.",
	Action: func(ctx *cli.Context) error {
		db, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		return db.ForEachTx(func(hash chainhash.Hash, e *txstore.TxIndexEntry) error {
			_, err := fmt.Fprintf(ctx.App.Writer, "%v version=%d witness=%v inputs=%d outputs=%d size=%d\n",
				hash, e.Version, e.HasWitness, e.InputCount, e.OutputCount, e.Size)
			return err
		})
	},
}
