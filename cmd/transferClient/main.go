package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/waves-transfer-go/pkg/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "transfer-client",
		Usage: "Sign and broadcast asset transfers to a Waves-style node",
		Description: `A client for building, signing and broadcasting transfer transactions.

This client can:
- Sign a transfer with an Ed25519 key and broadcast it to a node
- Print the canonical bytes, id and signature of a transfer without sending it
- Report an address's share of the configured token
- Generate key pairs and verify signatures`,
		Version: "1.0.0",
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			{
				Name:  "transfer",
				Usage: "Sign a transfer and broadcast it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "recipient",
						Usage:    "Recipient address (Base58)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "amount",
						Usage:    "Amount as a decimal quantity, e.g. 1.5",
						Required: true,
					},
					&cli.UintFlag{
						Name:  "decimals",
						Usage: "Decimals of the transferred asset (0-8)",
						Value: 8,
					},
					&cli.StringFlag{
						Name:  "attachment",
						Usage: "Attachment text (at most 65535 bytes)",
					},
				},
				Action: transferCommand,
			},
			{
				Name:  "encode",
				Usage: "Build and sign a transfer without broadcasting it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "recipient",
						Usage:    "Recipient address (Base58)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "amount",
						Usage:    "Amount as a decimal quantity, e.g. 1.5",
						Required: true,
					},
					&cli.UintFlag{
						Name:  "decimals",
						Usage: "Decimals of the transferred asset (0-8)",
						Value: 8,
					},
					&cli.StringFlag{
						Name:  "attachment",
						Usage: "Attachment text (at most 65535 bytes)",
					},
					&cli.Int64Flag{
						Name:  "timestamp",
						Usage: "Timestamp in milliseconds (default: now)",
					},
				},
				Action: encodeCommand,
			},
			{
				Name:  "balance",
				Usage: "Print an address's share of the configured token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "address",
						Usage: "Address to query (default: the sender address)",
					},
				},
				Action: balanceCommand,
			},
			{
				Name:   "history",
				Usage:  "List journaled transfers",
				Action: historyCommand,
			},
			{
				Name:  "keygen",
				Usage: "Generate a new key pair and its address",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Label for the generated key",
						Value: "transfer-key",
					},
				},
				Action: keygenCommand,
			},
			{
				Name:  "verify",
				Usage: "Verify a signature over hex encoded bytes",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "public-key",
						Usage:    "Signer public key (Base58)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "message",
						Usage:    "Signed bytes as 0x-prefixed hex",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "signature",
						Usage:    "Signature (Base58)",
						Required: true,
					},
				},
				Action: verifyCommand,
			},
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "YAML config file; flags and environment variables override it",
		},
		&cli.StringFlag{
			Name:    "sender-public-key",
			Usage:   "Sender public key (Base58)",
			EnvVars: []string{config.EnvSenderPublicKey},
		},
		&cli.StringFlag{
			Name:    "sender-private-key",
			Usage:   "Sender private key (Base58)",
			EnvVars: []string{config.EnvSenderPrivateKey},
		},
		&cli.StringFlag{
			Name:    "sender-address",
			Usage:   "Sender wallet address (Base58)",
			EnvVars: []string{config.EnvSenderAddress},
		},
		&cli.StringFlag{
			Name:    "node-url",
			Usage:   "Node REST API base URL",
			EnvVars: []string{config.EnvNodeUrl},
		},
		&cli.StringFlag{
			Name:    "native-asset-id",
			Usage:   "Token whose share the balance command reports (Base58)",
			EnvVars: []string{config.EnvNativeAssetId},
		},
		&cli.StringFlag{
			Name:    "amount-asset-id",
			Usage:   "Asset to transfer (Base58, empty for the chain's native asset)",
			EnvVars: []string{config.EnvAmountAssetId},
		},
		&cli.StringFlag{
			Name:    "fee-asset-id",
			Usage:   "Asset the fee is paid in (Base58, empty for the chain's native asset)",
			EnvVars: []string{config.EnvFeeAssetId},
		},
		&cli.StringFlag{
			Name:    "chain",
			Usage:   fmt.Sprintf("Chain: %s", config.GetSupportedChainIdsString()),
			EnvVars: []string{config.EnvChainId},
		},
		&cli.Uint64Flag{
			Name:    "fee",
			Usage:   "Fee in indivisible units",
			EnvVars: []string{config.EnvFee},
		},
		&cli.StringFlag{
			Name:    "journal-type",
			Usage:   "Transfer journal: memory, badger or redis",
			EnvVars: []string{config.EnvJournalType},
		},
		&cli.StringFlag{
			Name:    "journal-path",
			Usage:   "Directory of the badger journal",
			EnvVars: []string{config.EnvJournalPath},
		},
		&cli.StringFlag{
			Name:    "redis-address",
			Usage:   "Redis address (host:port) of the redis journal",
			EnvVars: []string{config.EnvRedisAddress},
		},
		&cli.Float64Flag{
			Name:  "requests-per-second",
			Usage: "Throttle for requests to the node (0 keeps the default of 10)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Usage:   "Enable debug logging",
			EnvVars: []string{config.EnvVerbose},
		},
	}
}
