package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/waves-transfer-go/internal/keyGenerator/localKeyGenerator"
	"github.com/Layr-Labs/waves-transfer-go/pkg/base58"
	"github.com/Layr-Labs/waves-transfer-go/pkg/config"
	"github.com/Layr-Labs/waves-transfer-go/pkg/crypto"
	"github.com/Layr-Labs/waves-transfer-go/pkg/types"
	"github.com/Layr-Labs/waves-transfer-go/pkg/util"
)

func transferCommand(c *cli.Context) error {
	amount, err := parseAmountFlag(c)
	if err != nil {
		return err
	}

	res, err := createService(c, nil)
	if err != nil {
		return err
	}
	defer res.Close()

	recipient := types.Address(c.String("recipient"))
	out := c.App.Writer
	fmt.Fprintf(out, "💸 Transferring %s (%d units) to %s\n", util.FormatAmount(amount, uint8(c.Uint("decimals"))), amount, recipient)

	body, err := res.service.TransferWithAttachment(c.Context, recipient, amount, []byte(c.String("attachment")))
	if err != nil {
		return fmt.Errorf("transfer failed: %w", err)
	}

	fmt.Fprintf(out, "✅ Node response:\n")
	fmt.Fprintf(out, "  %s\n", string(body))
	return nil
}

func encodeCommand(c *cli.Context) error {
	amount, err := parseAmountFlag(c)
	if err != nil {
		return err
	}

	var clock func() time.Time
	if c.IsSet("timestamp") {
		ts := c.Int64("timestamp")
		clock = func() time.Time { return time.UnixMilli(ts) }
	}

	res, err := createService(c, clock)
	if err != nil {
		return err
	}
	defer res.Close()

	signed, err := res.service.BuildSignedTransfer(types.Address(c.String("recipient")), amount, []byte(c.String("attachment")))
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(signed.Payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	out := c.App.Writer
	fmt.Fprintf(out, "✅ Signed transfer (not broadcast)\n")
	fmt.Fprintf(out, "Canonical bytes: %s\n", hexutil.Encode(signed.Canonical))
	fmt.Fprintf(out, "Transaction id:  %s\n", signed.ID)
	fmt.Fprintf(out, "Signature:       %s\n", base58.Encode(signed.Signature))
	fmt.Fprintf(out, "Payload:\n%s\n", string(payload))
	return nil
}

func balanceCommand(c *cli.Context) error {
	res, err := createService(c, nil)
	if err != nil {
		return err
	}
	defer res.Close()

	address := types.Address(c.String("address"))
	if address == "" {
		address = res.service.SenderAddress()
	}

	share, err := res.service.GetTokenShare(c.Context, address)
	if err != nil {
		return fmt.Errorf("failed to get token share: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "✅ Token share of %s: %g\n", address, share)
	return nil
}

func historyCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	l, err := createLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	journal, err := newJournal(&cfg.Journal, l)
	if err != nil {
		return fmt.Errorf("failed to open transfer journal: %w", err)
	}
	defer func() { _ = journal.Close() }()

	records, err := journal.ListTransfers()
	if err != nil {
		return fmt.Errorf("failed to list transfers: %w", err)
	}

	out := c.App.Writer
	if len(records) == 0 {
		fmt.Fprintf(out, "No journaled transfers\n")
		return nil
	}
	for _, r := range records {
		created := time.UnixMilli(r.CreatedAt).UTC().Format(time.RFC3339)
		fmt.Fprintf(out, "%s  %-9s  %s  amount=%d recipient=%s\n", created, r.Status, r.ID, r.Payload.Amount, r.Payload.Recipient)
		if r.Error != "" {
			fmt.Fprintf(out, "  error: %s\n", r.Error)
		}
	}
	return nil
}

func keygenCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	chainId, err := config.ParseChainId(cfg.Chain)
	if err != nil {
		return err
	}
	l, err := createLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	gen := localKeyGenerator.NewLocalKeyGenerator(l)
	key, err := gen.GenerateKey(c.Context, c.String("name"), chainId)
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	publicKey, err := key.GetPublicKey()
	if err != nil {
		return err
	}
	publicKeyHex, err := key.GetPublicKeyHex()
	if err != nil {
		return err
	}
	privateKey, err := gen.ExportPrivateKey(c.Context, key.KeyId)
	if err != nil {
		return fmt.Errorf("failed to export private key: %w", err)
	}

	out := c.App.Writer
	fmt.Fprintf(out, "🔑 Generated key %s on %s\n", key.KeyId, config.ChainIdToName[chainId])
	fmt.Fprintf(out, "Public key:     %s\n", publicKey)
	fmt.Fprintf(out, "Public key hex: %s\n", publicKeyHex)
	fmt.Fprintf(out, "Private key:    %s\n", privateKey)
	fmt.Fprintf(out, "Address:        %s\n", key.Address)
	return nil
}

func verifyCommand(c *cli.Context) error {
	publicKey, err := base58.DecodeFixed(c.String("public-key"), types.PublicKeyLength)
	if err != nil {
		return fmt.Errorf("invalid public key: %w", err)
	}
	signature, err := base58.DecodeFixed(c.String("signature"), types.SignatureLength)
	if err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}
	message, err := hexutil.Decode(c.String("message"))
	if err != nil {
		return fmt.Errorf("invalid message hex: %w", err)
	}

	if !crypto.Verify(message, signature, publicKey) {
		return fmt.Errorf("signature is not valid for the given public key")
	}
	fmt.Fprintf(c.App.Writer, "✅ Signature is valid\n")
	return nil
}

func parseAmountFlag(c *cli.Context) (uint64, error) {
	decimals := c.Uint("decimals")
	if decimals > util.WavesDecimals {
		return 0, fmt.Errorf("decimals must be at most %d", util.WavesDecimals)
	}
	amount, err := util.ParseAmount(c.String("amount"), uint8(decimals))
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %w", err)
	}
	return amount, nil
}
