package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/waves-transfer-go/pkg/config"
	"github.com/Layr-Labs/waves-transfer-go/pkg/logger"
	"github.com/Layr-Labs/waves-transfer-go/pkg/persistence"
	"github.com/Layr-Labs/waves-transfer-go/pkg/persistence/badger"
	"github.com/Layr-Labs/waves-transfer-go/pkg/persistence/memory"
	"github.com/Layr-Labs/waves-transfer-go/pkg/persistence/redis"
	"github.com/Layr-Labs/waves-transfer-go/pkg/transfer"
	"github.com/Layr-Labs/waves-transfer-go/pkg/transport"
	"github.com/Layr-Labs/waves-transfer-go/pkg/types"
)

// loadConfig layers the config file, environment and flags, in that order
func loadConfig(c *cli.Context) (*config.TransferConfig, error) {
	cfg := config.NewDefaultTransferConfig()
	if path := c.String("config"); path != "" {
		fileCfg, err := config.LoadConfigFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	stringFlags := map[string]*string{
		"sender-public-key":  &cfg.SenderPublicKey,
		"sender-private-key": &cfg.SenderPrivateKey,
		"sender-address":     &cfg.SenderAddress,
		"node-url":           &cfg.NodeUrl,
		"native-asset-id":    &cfg.NativeAssetId,
		"amount-asset-id":    &cfg.AmountAssetId,
		"fee-asset-id":       &cfg.FeeAssetId,
		"chain":              &cfg.Chain,
		"journal-path":       &cfg.Journal.Path,
		"redis-address":      &cfg.Journal.RedisAddress,
	}
	for name, target := range stringFlags {
		if c.IsSet(name) {
			*target = c.String(name)
		}
	}
	if c.IsSet("journal-type") {
		cfg.Journal.Type = config.JournalType(c.String("journal-type"))
	}
	if c.IsSet("fee") {
		cfg.Fee = c.Uint64("fee")
	}
	if c.IsSet("requests-per-second") {
		cfg.RequestsPerSecond = c.Float64("requests-per-second")
	}
	if c.IsSet("verbose") {
		cfg.Verbose = c.Bool("verbose")
	}
	return cfg, nil
}

func createLogger(cfg *config.TransferConfig) (*zap.Logger, error) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Verbose})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return l, nil
}

// newJournal opens the journal backend named by cfg
func newJournal(cfg *config.JournalConfig, l *zap.Logger) (persistence.ITransferJournal, error) {
	switch cfg.Type {
	case config.JournalType_Memory, "":
		return memory.NewMemoryJournal(l), nil
	case config.JournalType_Badger:
		if cfg.Path == "" {
			return nil, fmt.Errorf("badger journal requires a path")
		}
		journal, err := badger.NewBadgerJournal(cfg.Path, l)
		if err != nil {
			return nil, err
		}
		return journal, nil
	case config.JournalType_Redis:
		journal, err := redis.NewRedisJournal(&redis.RedisConfig{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, l)
		if err != nil {
			return nil, err
		}
		return journal, nil
	default:
		return nil, fmt.Errorf("unsupported journal type %q", cfg.Type)
	}
}

// clientResources owns what a command must release when it finishes
type clientResources struct {
	service *transfer.Service
	journal persistence.ITransferJournal
	logger  *zap.Logger
}

func (r *clientResources) Close() {
	if r.journal != nil {
		if err := r.journal.Close(); err != nil {
			r.logger.Sugar().Warnw("Failed to close transfer journal", "error", err)
		}
	}
	_ = r.logger.Sync()
}

// createService validates the layered config and wires the transfer service
func createService(c *cli.Context, clock func() time.Time) (*clientResources, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := createLogger(cfg)
	if err != nil {
		return nil, err
	}
	l.Debug("Loaded configuration", zap.Object("config", cfg))

	journal, err := newJournal(&cfg.Journal, l)
	if err != nil {
		_ = l.Sync()
		return nil, fmt.Errorf("failed to open transfer journal: %w", err)
	}

	clientCfg := transport.DefaultClientConfig()
	if cfg.RequestsPerSecond > 0 {
		clientCfg.RequestsPerSecond = cfg.RequestsPerSecond
	}

	service, err := transfer.NewService(&transfer.Config{
		SenderPublicKey:     types.PublicKey(cfg.SenderPublicKey),
		SenderPrivateKey:    cfg.SenderPrivateKey,
		SenderWalletAddress: types.Address(cfg.SenderAddress),
		NodeBaseUrl:         cfg.NodeUrl,
		NativeAssetId:       types.AssetId(cfg.NativeAssetId),
		Fee:                 cfg.Fee,
		FeeAssetId:          types.AssetId(cfg.FeeAssetId),
		AmountAssetId:       types.AssetId(cfg.AmountAssetId),
		ChainId:             cfg.ChainId,
		Transport:           transport.NewClient(clientCfg, l),
		Journal:             journal,
		Clock:               clock,
		Logger:              l,
	})
	if err != nil {
		_ = journal.Close()
		_ = l.Sync()
		return nil, fmt.Errorf("failed to create transfer service: %w", err)
	}

	return &clientResources{service: service, journal: journal, logger: l}, nil
}
