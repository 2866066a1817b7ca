package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/Layr-Labs/waves-transfer-go/pkg/base58"
	"github.com/Layr-Labs/waves-transfer-go/pkg/crypto"
	"github.com/Layr-Labs/waves-transfer-go/pkg/types"
)

// Environment variable names for the transfer client configuration
const (
	EnvSenderPublicKey  = "WAVES_SENDER_PUBLIC_KEY"
	EnvSenderPrivateKey = "WAVES_SENDER_PRIVATE_KEY"
	EnvSenderAddress    = "WAVES_SENDER_ADDRESS"
	EnvNodeUrl          = "WAVES_NODE_URL"
	EnvNativeAssetId    = "WAVES_NATIVE_ASSET_ID"
	EnvAmountAssetId    = "WAVES_AMOUNT_ASSET_ID"
	EnvFeeAssetId       = "WAVES_FEE_ASSET_ID"
	EnvChainId          = "WAVES_CHAIN_ID"
	EnvFee              = "WAVES_FEE"
	EnvJournalType      = "WAVES_JOURNAL_TYPE"
	EnvJournalPath      = "WAVES_JOURNAL_PATH"
	EnvRedisAddress     = "WAVES_REDIS_ADDRESS"
	EnvVerbose          = "WAVES_VERBOSE"
)

// DefaultFee is the transfer fee in indivisible units of the native asset
const DefaultFee uint64 = 100000

type ChainId byte

const (
	ChainId_Mainnet  ChainId = 'W'
	ChainId_Testnet  ChainId = 'T'
	ChainId_Stagenet ChainId = 'S'
)

func (c ChainId) String() string {
	return string(rune(c))
}

func (c ChainId) Byte() byte {
	return byte(c)
}

type ChainName string

const (
	ChainName_Mainnet  ChainName = "mainnet"
	ChainName_Testnet  ChainName = "testnet"
	ChainName_Stagenet ChainName = "stagenet"
)

var ChainIdToName = map[ChainId]ChainName{
	ChainId_Mainnet:  ChainName_Mainnet,
	ChainId_Testnet:  ChainName_Testnet,
	ChainId_Stagenet: ChainName_Stagenet,
}
var ChainNameToId = map[ChainName]ChainId{
	ChainName_Mainnet:  ChainId_Mainnet,
	ChainName_Testnet:  ChainId_Testnet,
	ChainName_Stagenet: ChainId_Stagenet,
}

// ParseChainId accepts either the chain id character ("W", "T", "S") or the
// chain name ("mainnet", "testnet", "stagenet").
func ParseChainId(s string) (ChainId, error) {
	if len(s) == 1 {
		if _, ok := ChainIdToName[ChainId(s[0])]; ok {
			return ChainId(s[0]), nil
		}
	}
	if id, ok := ChainNameToId[ChainName(strings.ToLower(s))]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("unsupported chain %q. Supported: %s", s, GetSupportedChainIdsString())
}

// GetSupportedChainIdsString returns supported chains for CLI help
func GetSupportedChainIdsString() string {
	return fmt.Sprintf("%s (%s), %s (%s), %s (%s)",
		ChainId_Mainnet, ChainName_Mainnet,
		ChainId_Testnet, ChainName_Testnet,
		ChainId_Stagenet, ChainName_Stagenet)
}

type JournalType string

const (
	JournalType_Memory JournalType = "memory"
	JournalType_Badger JournalType = "badger"
	JournalType_Redis  JournalType = "redis"
)

var supportedJournalTypes = []string{
	string(JournalType_Memory),
	string(JournalType_Badger),
	string(JournalType_Redis),
}

// JournalConfig selects where signed transfers are recorded
type JournalConfig struct {
	Type          JournalType `json:"type" yaml:"type"`
	Path          string      `json:"path" yaml:"path"`
	RedisAddress  string      `json:"redisAddress" yaml:"redisAddress"`
	RedisPassword string      `json:"redisPassword" yaml:"redisPassword"`
	RedisDB       int         `json:"redisDb" yaml:"redisDb"`
}

// TransferConfig is the complete configuration of the transfer client
type TransferConfig struct {
	SenderPublicKey  string `json:"senderPublicKey" yaml:"senderPublicKey"`
	SenderPrivateKey string `json:"senderPrivateKey" yaml:"senderPrivateKey"`
	SenderAddress    string `json:"senderAddress" yaml:"senderAddress"`

	NodeUrl string `json:"nodeUrl" yaml:"nodeUrl"`
	Chain   string `json:"chain" yaml:"chain"`

	// NativeAssetId is the token whose share GetTokenShare reports
	NativeAssetId string `json:"nativeAssetId" yaml:"nativeAssetId"`
	AmountAssetId string `json:"amountAssetId" yaml:"amountAssetId"`
	FeeAssetId    string `json:"feeAssetId" yaml:"feeAssetId"`
	Fee           uint64 `json:"fee" yaml:"fee"`

	Journal JournalConfig `json:"journal" yaml:"journal"`

	RequestsPerSecond float64 `json:"requestsPerSecond" yaml:"requestsPerSecond"`
	Verbose           bool    `json:"verbose" yaml:"verbose"`

	// ChainId is populated by Validate from Chain
	ChainId ChainId `json:"-" yaml:"-"`
}

// NewDefaultTransferConfig returns a config with the defaults applied
func NewDefaultTransferConfig() *TransferConfig {
	return &TransferConfig{
		Chain: string(ChainName_Mainnet),
		Fee:   DefaultFee,
		Journal: JournalConfig{
			Type: JournalType_Memory,
		},
	}
}

// LoadConfigFromFile reads a YAML config on top of the defaults
func LoadConfigFromFile(path string) (*TransferConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewDefaultTransferConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field and collects all problems. On success ChainId
// is populated.
func (c *TransferConfig) Validate() error {
	var allErrors field.ErrorList

	chainId, err := ParseChainId(c.Chain)
	if err != nil {
		allErrors = append(allErrors, field.NotSupported(field.NewPath("chain"), c.Chain, []string{
			string(ChainName_Mainnet), string(ChainName_Testnet), string(ChainName_Stagenet),
		}))
	}

	var publicKey, privateKey []byte
	if c.SenderPublicKey == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("senderPublicKey"), "senderPublicKey is required"))
	} else if publicKey, err = base58.DecodeFixed(c.SenderPublicKey, types.PublicKeyLength); err != nil {
		allErrors = append(allErrors, field.Invalid(field.NewPath("senderPublicKey"), c.SenderPublicKey, err.Error()))
	}

	if c.SenderPrivateKey == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("senderPrivateKey"), "senderPrivateKey is required"))
	} else if privateKey, err = base58.DecodeFixed(c.SenderPrivateKey, types.PrivateKeyLength); err != nil {
		allErrors = append(allErrors, field.Invalid(field.NewPath("senderPrivateKey"), "<redacted>", "must be Base58 of 32 bytes"))
	}
	defer crypto.Wipe(privateKey)

	if publicKey != nil && privateKey != nil {
		derived, err := crypto.PublicKeyFromPrivate(privateKey)
		if err != nil || base58.Encode(derived) != c.SenderPublicKey {
			allErrors = append(allErrors, field.Invalid(field.NewPath("senderPublicKey"), c.SenderPublicKey, "does not match senderPrivateKey"))
		}
	}

	if c.SenderAddress == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("senderAddress"), "senderAddress is required"))
	} else if err := ValidateAddress(c.SenderAddress, chainId); err != nil {
		allErrors = append(allErrors, field.Invalid(field.NewPath("senderAddress"), c.SenderAddress, err.Error()))
	} else if publicKey != nil && chainId != 0 {
		derived, err := crypto.AddressFromPublicKey(publicKey, chainId.Byte())
		if err != nil || base58.Encode(derived) != c.SenderAddress {
			allErrors = append(allErrors, field.Invalid(field.NewPath("senderAddress"), c.SenderAddress, "does not belong to senderPublicKey"))
		}
	}

	if c.NodeUrl == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("nodeUrl"), "nodeUrl is required"))
	} else if u, err := url.Parse(c.NodeUrl); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		allErrors = append(allErrors, field.Invalid(field.NewPath("nodeUrl"), c.NodeUrl, "must be an absolute http(s) URL"))
	}

	if c.NativeAssetId == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("nativeAssetId"), "nativeAssetId is required"))
	} else if _, err := base58.DecodeFixed(c.NativeAssetId, types.AssetIdLength); err != nil {
		allErrors = append(allErrors, field.Invalid(field.NewPath("nativeAssetId"), c.NativeAssetId, err.Error()))
	}

	for name, asset := range map[string]string{"amountAssetId": c.AmountAssetId, "feeAssetId": c.FeeAssetId} {
		if asset == "" {
			continue
		}
		if _, err := base58.DecodeFixed(asset, types.AssetIdLength); err != nil {
			allErrors = append(allErrors, field.Invalid(field.NewPath(name), asset, err.Error()))
		}
	}

	if c.Fee == 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("fee"), c.Fee, "fee must be greater than zero"))
	}

	if c.RequestsPerSecond < 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("requestsPerSecond"), c.RequestsPerSecond, "must not be negative"))
	}

	allErrors = append(allErrors, c.Journal.validate(field.NewPath("journal"))...)

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	c.ChainId = chainId
	return nil
}

func (jc *JournalConfig) validate(path *field.Path) field.ErrorList {
	var allErrors field.ErrorList
	switch jc.Type {
	case JournalType_Memory:
	case JournalType_Badger:
		if jc.Path == "" {
			allErrors = append(allErrors, field.Required(path.Child("path"), "path is required for the badger journal"))
		}
	case JournalType_Redis:
		if jc.RedisAddress == "" {
			allErrors = append(allErrors, field.Required(path.Child("redisAddress"), "redisAddress is required for the redis journal"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(path.Child("type"), jc.Type, supportedJournalTypes))
	}
	return allErrors
}

// ValidateAddress decodes a Base58 address and checks its structure. When
// chainId is non-zero the address must belong to that chain.
func ValidateAddress(address string, chainId ChainId) error {
	decoded, err := base58.DecodeFixed(address, types.AddressLength)
	if err != nil {
		return err
	}
	if err := crypto.VerifyAddressChecksum(decoded); err != nil {
		return err
	}
	if chainId != 0 && decoded[1] != chainId.Byte() {
		return fmt.Errorf("address belongs to chain %q, expected %q", rune(decoded[1]), rune(chainId))
	}
	return nil
}

// String renders the config without the private key
func (c *TransferConfig) String() string {
	return fmt.Sprintf("TransferConfig{sender=%s address=%s node=%s chain=%s nativeAsset=%s fee=%d journal=%s}",
		c.SenderPublicKey, c.SenderAddress, c.NodeUrl, c.Chain, c.NativeAssetId, c.Fee, c.Journal.Type)
}

// MarshalLogObject lets the config be logged with zap.Object; the private
// key and redis password are never written.
func (c *TransferConfig) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("senderPublicKey", c.SenderPublicKey)
	enc.AddString("senderAddress", c.SenderAddress)
	enc.AddString("nodeUrl", c.NodeUrl)
	enc.AddString("chain", c.Chain)
	enc.AddString("nativeAssetId", c.NativeAssetId)
	enc.AddString("amountAssetId", c.AmountAssetId)
	enc.AddString("feeAssetId", c.FeeAssetId)
	enc.AddUint64("fee", c.Fee)
	enc.AddString("journalType", string(c.Journal.Type))
	return nil
}
