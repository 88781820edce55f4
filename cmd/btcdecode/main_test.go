package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2tbmz9y2xt-lang/btcdecode/config"
	"github.com/stretchr/testify/require"
)

const (
	coinbaseP2PKTx = "01000000010000000000000000000000000000000000000000000000000000000000000000" +
		"ffffffff0e04b3eb494d0103062f503253482fffffffff0100f2052a010000002321023824" +
		"dbed2574c88ee375788d9569df0ea0b24ccfd2a1ca71ea2c744367de735bac00000000"
	coinbaseP2PKHash = "d45f9da73619799e9d7bd03cc290e70875ea4cbad56b8bffa15135fbbb3df9ea"

	testnetHeader = "0080cf2a0857bdec9d66f5feb52d00d5061ff02a904112d9b0cd1ac401000000" +
		"000000003d2d2b5733c820a1f07ce6e0acd2ea47f27016b49ccb405b1e3e5786" +
		"f8ae962e3ce30c63bc292d1919856362"
	testnetHeaderHash = "000000000000000912427e3e6ceb9f6b2ccb39ec69540d310fe8fef77f0e4f36"

	multisigRedeemScript = "2096dce2f0d299c8b0de7c446cc45c0a3e24ec97e202aeb92ede94ee491bb03e" +
		"6475522102cd53fc53a07f211641a677d250f6de99caf620e8e77071e811a28b3b" +
		"cddf0be1210362634ab57dae9cb373a5d536e66a8c4f67468bbcfb063809bab643" +
		"072d78a1242103c5946b3fbae03a654237da863c9ed534e0878657175b132b8ca6" +
		"30f245df04db53ae"
)

// runApp runs btcdecode with an isolated config file and data directory and
// returns what it wrote to stdout.
func runApp(t *testing.T, datadir string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := newApp(&stdout, &stderr)
	full := append([]string{
		"btcdecode",
		"--config", filepath.Join(datadir, "absent.json"),
		"--datadir", datadir,
		"--loglevel", "off",
	}, args...)
	err := app.Run(full)
	return stdout.String(), err
}

func TestOutputsCommand(t *testing.T) {
	out, err := runApp(t, t.TempDir(), "outputs", coinbaseP2PKTx)
	require.NoError(t, err)

	var outs []outputJSON
	require.NoError(t, json.Unmarshal([]byte(out), &outs))
	require.Len(t, outs, 1)
	require.Equal(t, uint64(5_000_000_000), outs[0].Value)
	require.Equal(t, "p2pk", outs[0].ScriptType)
	require.Equal(t, uint64(44), outs[0].TotalSize)
	require.Empty(t, outs[0].Address)
}

func TestOutputsCommandErrors(t *testing.T) {
	_, err := runApp(t, t.TempDir(), "outputs")
	require.ErrorContains(t, err, "txhex argument missing")

	_, err = runApp(t, t.TempDir(), "outputs", "zz")
	require.ErrorContains(t, err, "invalid txhex")

	_, err = runApp(t, t.TempDir(), "outputs", coinbaseP2PKTx[:20])
	require.ErrorContains(t, err, "ERR_OUT_OF_BOUNDS")
}

func TestAddressCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := runApp(t, dir, "--network", "testnet", "address",
		"76a914a278e6bc0735f7090f152d0d2a2af07e44d1480a88ac")
	require.NoError(t, err)
	require.Contains(t, out, `"address": "mvL2bVzGUeC9oqVyQWJ4PxQspFzKgjzAqe"`)
	require.Contains(t, out, `"payload": "6fa278e6bc0735f7090f152d0d2a2af07e44d1480a"`)

	_, err = runApp(t, dir, "address", "0102030405")
	require.ErrorContains(t, err, "ERR_UNSUPPORTED_SCRIPT")
}

func TestClassifyAndNullData(t *testing.T) {
	dir := t.TempDir()
	out, err := runApp(t, dir, "classify", "6a0401020304")
	require.NoError(t, err)
	require.Equal(t, "nulldata\n", out)

	out, err = runApp(t, dir, "nulldata", "6a0401020304")
	require.NoError(t, err)
	require.Equal(t, "0401020304\n", out)
}

func TestP2SHCommands(t *testing.T) {
	dir := t.TempDir()
	out, err := runApp(t, dir, "-n", "testnet", "p2sh", multisigRedeemScript)
	require.NoError(t, err)
	require.Contains(t, out, "2MwTN5tpBPjpdNohzAucisM8FFUsB5kddWs")

	out, err = runApp(t, dir, "-n", "testnet", "validate-p2sh",
		"2MwTN5tpBPjpdNohzAucisM8FFUsB5kddWs", multisigRedeemScript)
	require.NoError(t, err)
	require.Equal(t, "true\n", out)

	out, err = runApp(t, dir, "-n", "testnet", "validate-p2sh",
		"n1nka7jPhBYUxBEEcYefW9zrNrwityvFvr", multisigRedeemScript)
	require.NoError(t, err)
	require.Equal(t, "false\n", out)
}

func TestTimestampAndTxHash(t *testing.T) {
	dir := t.TempDir()
	out, err := runApp(t, dir, "timestamp", testnetHeader)
	require.NoError(t, err)
	require.Contains(t, out, `"timestamp": 1661788988`)
	require.Contains(t, out, testnetHeaderHash)

	_, err = runApp(t, dir, "timestamp", testnetHeader[:158])
	require.ErrorContains(t, err, "ERR_INVALID_HEADER_LENGTH")

	out, err = runApp(t, dir, "txhash", coinbaseP2PKTx)
	require.NoError(t, err)
	require.Equal(t, coinbaseP2PKHash+"\n", out)
}

func TestStoreCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := runApp(t, dir, "import-tx", coinbaseP2PKTx)
	require.NoError(t, err)
	require.Equal(t, coinbaseP2PKHash, strings.TrimSpace(out))

	out, err = runApp(t, dir, "show-tx", coinbaseP2PKHash)
	require.NoError(t, err)
	require.Contains(t, out, `"input_count": 1`)
	require.Contains(t, out, `"raw": "`+coinbaseP2PKTx+`"`)

	out, err = runApp(t, dir, "list-tx")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, coinbaseP2PKHash+" version=1"))

	out, err = runApp(t, dir, "import-header", testnetHeader)
	require.NoError(t, err)
	require.Equal(t, testnetHeaderHash, strings.TrimSpace(out))

	out, err = runApp(t, dir, "show-header", testnetHeaderHash)
	require.NoError(t, err)
	require.Contains(t, out, `"timestamp": 1661788988`)

	_, err = runApp(t, dir, "show-tx", testnetHeaderHash)
	require.ErrorContains(t, err, "not found")

	// The store is per network.
	_, err = runApp(t, dir, "-n", "testnet", "show-tx", coinbaseP2PKHash)
	require.ErrorContains(t, err, "not found")
}

func TestConfigFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "btcdecode.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"network":"regtest","log_level":"debug"}`), 0o600))

	var stdout, stderr bytes.Buffer
	app := newApp(&stdout, &stderr)
	require.NoError(t, app.Run([]string{"btcdecode", "--config", path, "--datadir", dir, "dump-config"}))

	var cfg config.Config
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &cfg))
	require.Equal(t, "regtest", cfg.Network)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, dir, cfg.DataDir)

	stdout.Reset()
	app = newApp(&stdout, &stderr)
	require.NoError(t, app.Run([]string{"btcdecode", "--config", path, "--datadir", dir, "-n", "signet", "dump-config"}))
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &cfg))
	require.Equal(t, "signet", cfg.Network)

	_, err := runApp(t, dir, "--network", "devnet", "classify", "00")
	require.ErrorContains(t, err, "invalid config")
}
