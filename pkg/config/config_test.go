package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	testPrivateKey  = "BbMQkQYZspmkytduTWvXEtc4mMURjsekJDvty2WtKeSb"
	testPublicKey   = "FVen3X669xLzsi6N2V91DoiyzHzg1uAgqiT8jZ9nS96Z"
	testAddressT    = "3NCxRndMhSMtWCdr3o5TsSqmwys4sGrMi3T"
	testAddressW    = "3PQyEjxFZZuH8ewGJsLTpuDbJsNqhSwYvoW"
	otherAddressT   = "3ND7UFHtCTEAdK3HsXw9t78Xm9E77yJZgVE"
	badChecksumAddr = "3ND7UFHtCTEAdK3HsXw9t78Xm9E77yJZgVD"
	testAssetId     = "4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw"
)

func validConfig() *TransferConfig {
	cfg := NewDefaultTransferConfig()
	cfg.SenderPublicKey = testPublicKey
	cfg.SenderPrivateKey = testPrivateKey
	cfg.SenderAddress = testAddressT
	cfg.NodeUrl = "https://nodes-testnet.example.com"
	cfg.Chain = "testnet"
	cfg.NativeAssetId = testAssetId
	return cfg
}

func TestParseChainId(t *testing.T) {
	tests := []struct {
		input    string
		expected ChainId
		wantErr  bool
	}{
		{input: "W", expected: ChainId_Mainnet},
		{input: "T", expected: ChainId_Testnet},
		{input: "S", expected: ChainId_Stagenet},
		{input: "mainnet", expected: ChainId_Mainnet},
		{input: "TestNet", expected: ChainId_Testnet},
		{input: "stagenet", expected: ChainId_Stagenet},
		{input: "X", wantErr: true},
		{input: "", wantErr: true},
		{input: "sepolia", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, err := ParseChainId(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}

	assert.Equal(t, "W", ChainId_Mainnet.String())
	assert.Equal(t, byte('T'), ChainId_Testnet.Byte())
}

func TestTransferConfig_Validate(t *testing.T) {
	t.Run("valid config populates chain id", func(t *testing.T) {
		cfg := validConfig()
		require.NoError(t, cfg.Validate())
		assert.Equal(t, ChainId_Testnet, cfg.ChainId)
	})

	t.Run("mainnet address", func(t *testing.T) {
		cfg := validConfig()
		cfg.Chain = "W"
		cfg.SenderAddress = testAddressW
		require.NoError(t, cfg.Validate())
		assert.Equal(t, ChainId_Mainnet, cfg.ChainId)
	})

	tests := []struct {
		name   string
		mutate func(*TransferConfig)
		errMsg string
	}{
		{
			name:   "missing public key",
			mutate: func(c *TransferConfig) { c.SenderPublicKey = "" },
			errMsg: "senderPublicKey is required",
		},
		{
			name:   "short public key",
			mutate: func(c *TransferConfig) { c.SenderPublicKey = "4HTgfBSd4PWTFfJysdjbVH2McdvrAij53RoFSW2zRGt" },
			errMsg: "decodes to 31 bytes",
		},
		{
			name:   "missing private key",
			mutate: func(c *TransferConfig) { c.SenderPrivateKey = "" },
			errMsg: "senderPrivateKey is required",
		},
		{
			name:   "malformed private key",
			mutate: func(c *TransferConfig) { c.SenderPrivateKey = "0OIl" },
			errMsg: "must be Base58 of 32 bytes",
		},
		{
			name:   "mismatched key pair",
			mutate: func(c *TransferConfig) { c.SenderPrivateKey = "6AoKS5iPKnvmJrknxwLPvHMcMR8jPxQVqT5wbrUnJNQz" },
			errMsg: "does not match senderPrivateKey",
		},
		{
			name:   "missing address",
			mutate: func(c *TransferConfig) { c.SenderAddress = "" },
			errMsg: "senderAddress is required",
		},
		{
			name:   "bad address checksum",
			mutate: func(c *TransferConfig) { c.SenderAddress = badChecksumAddr },
			errMsg: "address checksum mismatch",
		},
		{
			name:   "address on another chain",
			mutate: func(c *TransferConfig) { c.SenderAddress = testAddressW },
			errMsg: "address belongs to chain",
		},
		{
			name:   "address of another key",
			mutate: func(c *TransferConfig) { c.SenderAddress = otherAddressT },
			errMsg: "does not belong to senderPublicKey",
		},
		{
			name:   "missing node url",
			mutate: func(c *TransferConfig) { c.NodeUrl = "" },
			errMsg: "nodeUrl is required",
		},
		{
			name:   "relative node url",
			mutate: func(c *TransferConfig) { c.NodeUrl = "nodes.example.com" },
			errMsg: "must be an absolute http(s) URL",
		},
		{
			name:   "missing native asset",
			mutate: func(c *TransferConfig) { c.NativeAssetId = "" },
			errMsg: "nativeAssetId is required",
		},
		{
			name:   "bad fee asset",
			mutate: func(c *TransferConfig) { c.FeeAssetId = testPublicKey + "1" },
			errMsg: "feeAssetId",
		},
		{
			name:   "zero fee",
			mutate: func(c *TransferConfig) { c.Fee = 0 },
			errMsg: "fee must be greater than zero",
		},
		{
			name:   "unsupported chain",
			mutate: func(c *TransferConfig) { c.Chain = "devnet" },
			errMsg: "Unsupported value",
		},
		{
			name:   "unsupported journal",
			mutate: func(c *TransferConfig) { c.Journal.Type = "postgres" },
			errMsg: "journal.type",
		},
		{
			name:   "badger journal without path",
			mutate: func(c *TransferConfig) { c.Journal.Type = JournalType_Badger },
			errMsg: "path is required for the badger journal",
		},
		{
			name:   "redis journal without address",
			mutate: func(c *TransferConfig) { c.Journal.Type = JournalType_Redis },
			errMsg: "redisAddress is required for the redis journal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Equal(t, ChainId(0), cfg.ChainId)
		})
	}
}

func TestTransferConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := &TransferConfig{}
	err := cfg.Validate()
	require.Error(t, err)

	for _, msg := range []string{
		"senderPublicKey is required",
		"senderPrivateKey is required",
		"senderAddress is required",
		"nodeUrl is required",
		"nativeAssetId is required",
	} {
		assert.Contains(t, err.Error(), msg)
	}
}

func TestTransferConfig_ValidateNeverLeaksPrivateKey(t *testing.T) {
	cfg := validConfig()
	cfg.SenderPrivateKey = testPrivateKey + "1"
	err := cfg.Validate()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), cfg.SenderPrivateKey)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	contents := `
senderPublicKey: FVen3X669xLzsi6N2V91DoiyzHzg1uAgqiT8jZ9nS96Z
senderPrivateKey: BbMQkQYZspmkytduTWvXEtc4mMURjsekJDvty2WtKeSb
senderAddress: 3NCxRndMhSMtWCdr3o5TsSqmwys4sGrMi3T
nodeUrl: http://localhost:6869
chain: T
nativeAssetId: 4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw
journal:
  type: badger
  path: /var/lib/waves-transfer
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, testPublicKey, cfg.SenderPublicKey)
	assert.Equal(t, "http://localhost:6869", cfg.NodeUrl)
	assert.Equal(t, DefaultFee, cfg.Fee, "defaults survive when the file omits a field")
	assert.Equal(t, JournalType_Badger, cfg.Journal.Type)
	assert.Equal(t, "/var/lib/waves-transfer", cfg.Journal.Path)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, ChainId_Testnet, cfg.ChainId)

	_, err = LoadConfigFromFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("fee: [not a number"), 0o600))
	_, err = LoadConfigFromFile(path)
	require.Error(t, err)
}

func TestTransferConfig_RedactsPrivateKey(t *testing.T) {
	cfg := validConfig()
	cfg.Journal.RedisPassword = "hunter2"

	assert.NotContains(t, cfg.String(), testPrivateKey)
	assert.Contains(t, cfg.String(), testPublicKey)

	core, logs := observer.New(zapcore.InfoLevel)
	zap.New(core).Info("config", zap.Object("config", cfg))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()["config"].(map[string]interface{})
	assert.Equal(t, testPublicKey, fields["senderPublicKey"])
	for _, v := range fields {
		assert.NotEqual(t, testPrivateKey, v)
		assert.NotEqual(t, "hunter2", v)
	}
}
