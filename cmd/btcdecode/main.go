package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/2tbmz9y2xt-lang/btcdecode/config"
	"github.com/urfave/cli"
)

const metaConfig = "config"

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[btcdecode] %v\n", err)
	os.Exit(1)
}

func newApp(stdout, stderr io.Writer) *cli.App {
	defaults := config.DefaultConfig()

	app := cli.NewApp()
	app.Name = "btcdecode"
	app.Usage = "decode raw bitcoin transactions, scripts and block headers"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:      "config",
			Usage:     "Path to a JSON config file.",
			TakesFile: true,
		},
		cli.StringFlag{
			Name: "network, n",
			Usage: "The network addresses are derived for: mainnet, " +
				"testnet, regtest, signet or simnet.",
			Value: defaults.Network,
		},
		cli.StringFlag{
			Name:      "datadir",
			Usage:     "The directory holding the transaction store.",
			Value:     defaults.DataDir,
			TakesFile: true,
		},
		cli.StringFlag{
			Name:  "loglevel",
			Usage: "Logging level: trace, debug, info, warn, error, critical or off.",
			Value: defaults.LogLevel,
		},
	}
	app.Before = func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		ctx.App.Metadata = map[string]interface{}{metaConfig: cfg}
		setupLoggers(ctx.App.ErrWriter, cfg.LogLevel)
		log.Debugf("Using network %s, datadir %s", cfg.Network, cfg.DataDir)
		return nil
	}
	app.Commands = []cli.Command{
		outputsCommand,
		classifyCommand,
		addressCommand,
		nullDataCommand,
		p2shCommand,
		validateP2SHCommand,
		timestampCommand,
		txHashCommand,
		importTxCommand,
		importHeaderCommand,
		showTxCommand,
		showHeaderCommand,
		listTxCommand,
		dumpConfigCommand,
	}
	return app
}

// loadConfig reads the config file named by --config and applies any global
// flag the user set explicitly on top of it.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg, err := config.Load(ctx.GlobalString("config"))
	if err != nil {
		return config.Config{}, err
	}
	if ctx.GlobalIsSet("network") {
		cfg.Network = ctx.GlobalString("network")
	}
	if ctx.GlobalIsSet("datadir") {
		cfg.DataDir = ctx.GlobalString("datadir")
	}
	if ctx.GlobalIsSet("loglevel") {
		cfg.LogLevel = ctx.GlobalString("loglevel")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func configFrom(ctx *cli.Context) config.Config {
	cfg, ok := ctx.App.Metadata[metaConfig].(config.Config)
	if !ok {
		return config.DefaultConfig()
	}
	return cfg
}

func printJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

var dumpConfigCommand = cli.Command{
	Name:     "dump-config",
	Category: "Config",
	Usage:    "Print the effective configuration.",
	Action: func(ctx *cli.Context) error {
		return printJSON(ctx.App.Writer, configFrom(ctx))
	},
}

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}
