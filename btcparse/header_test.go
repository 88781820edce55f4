package btcparse

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

const testnetHeader = "0080cf2a0857bdec9d66f5feb52d00d5061ff02a904112d9b0cd1ac401000000" +
	"000000003d2d2b5733c820a1f07ce6e0acd2ea47f27016b49ccb405b1e3e5786" +
	"f8ae962e3ce30c63bc292d1919856362"

func TestGetBtcBlockTimestamp(t *testing.T) {
	ts, err := GetBtcBlockTimestamp(mustHex(t, testnetHeader))
	require.NoError(t, err)
	require.Equal(t, uint32(1661788988), ts)
}

func TestGetBtcBlockTimestamp_Offset(t *testing.T) {
	header := make([]byte, BlockHeaderLen)
	copy(header[68:], []byte{0x12, 0x34, 0x56, 0x78})
	ts, err := GetBtcBlockTimestamp(header)
	require.NoError(t, err)
	require.Equal(t, uint32(0x78563412), ts)

	binary.LittleEndian.PutUint32(header[68:], 0xffffffff)
	ts, err = GetBtcBlockTimestamp(header)
	require.NoError(t, err)
	require.Equal(t, uint32(0xffffffff), ts)
}

func TestGetBtcBlockTimestamp_Length(t *testing.T) {
	for _, n := range []int{0, 1, 68, 72, 79, 81, 160} {
		_, err := GetBtcBlockTimestamp(make([]byte, n))
		require.ErrorIs(t, err, ErrInvalidHeaderLength, "len %d", n)
		require.Contains(t, err.Error(), "invalid header length")

		_, err = BlockHash(make([]byte, n))
		require.ErrorIs(t, err, ErrInvalidHeaderLength, "len %d", n)
	}
}

func TestBlockHash(t *testing.T) {
	header := mustHex(t, testnetHeader)
	hash, err := BlockHash(header)
	require.NoError(t, err)
	require.Equal(t, "000000000000000912427e3e6ceb9f6b2ccb39ec69540d310fe8fef77f0e4f36", hash.String())
}
