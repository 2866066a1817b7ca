package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Layr-Labs/waves-transfer-go/pkg/base58"
	"github.com/Layr-Labs/waves-transfer-go/pkg/config"
	"github.com/Layr-Labs/waves-transfer-go/pkg/crypto"
	"github.com/Layr-Labs/waves-transfer-go/pkg/persistence"
	"github.com/Layr-Labs/waves-transfer-go/pkg/transaction"
	"github.com/Layr-Labs/waves-transfer-go/pkg/transactionSigner"
	"github.com/Layr-Labs/waves-transfer-go/pkg/transport"
	"github.com/Layr-Labs/waves-transfer-go/pkg/types"
	"github.com/Layr-Labs/waves-transfer-go/pkg/util"
)

const (
	broadcastTransferPath = "/assets/broadcast/transfer"
	assetBalancePath      = "/assets/balance/"

	contentTypeHeader = "content-type"
	contentTypeJSON   = "application/json;charset=UTF-8"
)

// Config holds everything a Service needs. Signer, Journal and Clock are
// optional: the signer defaults to an in-memory one over SenderPrivateKey, a
// nil journal disables journaling and the clock defaults to time.Now.
type Config struct {
	SenderPublicKey     types.PublicKey
	SenderPrivateKey    string
	SenderWalletAddress types.Address
	NodeBaseUrl         string

	// NativeAssetId is the token GetTokenShare reports on
	NativeAssetId types.AssetId

	// Fee defaults to config.DefaultFee when zero
	Fee           uint64
	FeeAssetId    types.AssetId
	AmountAssetId types.AssetId
	ChainId       config.ChainId

	Transport transport.ITransport
	Signer    transactionSigner.ITransactionSigner
	Journal   persistence.ITransferJournal
	Clock     func() time.Time
	Logger    *zap.Logger
}

// SignedTransfer is a transfer ready to broadcast
type SignedTransfer struct {
	// ID is the Base58 transaction id
	ID          string
	Canonical   []byte
	Signature   []byte
	Transaction *types.TransferTransaction
	Payload     *types.TransferPayload
}

// Service builds, signs and broadcasts transfers from a single sender. It is
// immutable after construction and safe for concurrent use.
type Service struct {
	publicKey      types.PublicKey
	publicKeyBytes []byte
	senderAddress  types.Address
	nodeBaseUrl    string
	nativeAssetId  types.AssetId
	fee            uint64
	feeAssetId     types.AssetId
	amountAssetId  types.AssetId
	chainId        config.ChainId

	transport transport.ITransport
	signer    transactionSigner.ITransactionSigner
	journal   persistence.ITransferJournal
	clock     func() time.Time
	logger    *zap.Logger
}

// NewService validates cfg and creates a Service
func NewService(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if _, ok := config.ChainIdToName[cfg.ChainId]; !ok {
		return nil, fmt.Errorf("unsupported chain id %q. Supported: %s", rune(cfg.ChainId), config.GetSupportedChainIdsString())
	}

	publicKeyBytes, err := cfg.SenderPublicKey.Bytes()
	if err != nil {
		return nil, fmt.Errorf("invalid sender public key: %w", err)
	}

	if err := config.ValidateAddress(string(cfg.SenderWalletAddress), cfg.ChainId); err != nil {
		return nil, fmt.Errorf("invalid sender wallet address: %w", err)
	}
	derivedAddress, err := crypto.AddressFromPublicKey(publicKeyBytes, cfg.ChainId.Byte())
	if err != nil {
		return nil, fmt.Errorf("failed to derive sender address: %w", err)
	}
	if base58.Encode(derivedAddress) != string(cfg.SenderWalletAddress) {
		return nil, fmt.Errorf("sender wallet address %s does not belong to sender public key", cfg.SenderWalletAddress)
	}

	baseUrl, err := url.Parse(cfg.NodeBaseUrl)
	if err != nil || (baseUrl.Scheme != "http" && baseUrl.Scheme != "https") || baseUrl.Host == "" {
		return nil, fmt.Errorf("node base url must be an absolute http(s) URL, got %q", cfg.NodeBaseUrl)
	}

	if cfg.NativeAssetId.IsNative() {
		return nil, fmt.Errorf("native asset id is required")
	}
	for name, asset := range map[string]types.AssetId{
		"native asset id": cfg.NativeAssetId,
		"fee asset id":    cfg.FeeAssetId,
		"amount asset id": cfg.AmountAssetId,
	} {
		if asset.IsNative() {
			continue
		}
		if _, err := base58.DecodeFixed(string(asset), types.AssetIdLength); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	signer := cfg.Signer
	if signer == nil {
		if cfg.SenderPrivateKey == "" {
			return nil, fmt.Errorf("sender private key or signer is required")
		}
		signer, err = transactionSigner.NewTransactionSigner(&transactionSigner.SignerConfig{
			PrivateKey: cfg.SenderPrivateKey,
			PublicKey:  string(cfg.SenderPublicKey),
		}, cfg.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create transaction signer: %w", err)
		}
	} else if signer.PublicKey() != cfg.SenderPublicKey {
		return nil, fmt.Errorf("signer public key %s does not match sender public key %s", signer.PublicKey(), cfg.SenderPublicKey)
	}

	fee := cfg.Fee
	if fee == 0 {
		fee = config.DefaultFee
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Service{
		publicKey:      cfg.SenderPublicKey,
		publicKeyBytes: publicKeyBytes,
		senderAddress:  cfg.SenderWalletAddress,
		nodeBaseUrl:    strings.TrimRight(cfg.NodeBaseUrl, "/"),
		nativeAssetId:  cfg.NativeAssetId,
		fee:            fee,
		feeAssetId:     cfg.FeeAssetId,
		amountAssetId:  cfg.AmountAssetId,
		chainId:        cfg.ChainId,
		transport:      cfg.Transport,
		signer:         signer,
		journal:        cfg.Journal,
		clock:          clock,
		logger:         cfg.Logger,
	}, nil
}

// SenderAddress returns the configured sender wallet address
func (s *Service) SenderAddress() types.Address {
	return s.senderAddress
}

// BuildSignedTransfer stamps the current time, encodes and signs a transfer
// of amount to recipient without any I/O.
func (s *Service) BuildSignedTransfer(recipient types.Address, amount uint64, attachment []byte) (*SignedTransfer, error) {
	return s.buildSignedTransfer(context.Background(), recipient, amount, attachment)
}

func (s *Service) buildSignedTransfer(ctx context.Context, recipient types.Address, amount uint64, attachment []byte) (*SignedTransfer, error) {
	tx := types.NewTransferTransaction(
		s.publicKey,
		recipient,
		amount,
		s.amountAssetId,
		s.fee,
		s.feeAssetId,
		attachment,
		uint64(s.clock().UnixMilli()),
	)

	canonical, err := transaction.Encode(tx)
	if err != nil {
		return nil, newTransferError(StageEncoding, err, "failed to encode transfer")
	}
	if err := s.checkRecipientChain(recipient); err != nil {
		return nil, newTransferError(StageEncoding, err, "failed to encode transfer")
	}

	signature, err := s.signer.SignTransaction(ctx, canonical)
	if err != nil {
		return nil, newTransferError(StageSigning, err, "failed to sign transfer")
	}
	if !crypto.Verify(canonical, signature, s.publicKeyBytes) {
		return nil, newTransferError(StageSigning, fmt.Errorf("signature does not verify against %s", s.publicKey), "failed to sign transfer")
	}

	return &SignedTransfer{
		ID:          transaction.ID(canonical),
		Canonical:   canonical,
		Signature:   signature,
		Transaction: tx,
		Payload:     types.NewTransferPayload(tx, signature),
	}, nil
}

// checkRecipientChain rejects recipients from another network. Encode has
// already checked the recipient's length and checksum.
func (s *Service) checkRecipientChain(recipient types.Address) error {
	decoded, err := recipient.Bytes()
	if err != nil {
		return &transaction.MalformedFieldError{Field: transaction.FieldRecipient, Err: err}
	}
	if decoded[1] != s.chainId.Byte() {
		return &transaction.MalformedFieldError{
			Field: transaction.FieldRecipient,
			Err:   fmt.Errorf("address belongs to chain %q, expected %q", rune(decoded[1]), rune(s.chainId)),
		}
	}
	return nil
}

// Transfer signs a transfer of amount to recipient and broadcasts it. On
// success it returns the node's response body.
func (s *Service) Transfer(ctx context.Context, recipient types.Address, amount uint64) ([]byte, error) {
	return s.TransferWithAttachment(ctx, recipient, amount, nil)
}

// TransferWithAttachment is Transfer with an attachment of at most 65535 bytes
func (s *Service) TransferWithAttachment(ctx context.Context, recipient types.Address, amount uint64, attachment []byte) ([]byte, error) {
	requestId := uuid.NewString()

	signed, err := s.buildSignedTransfer(ctx, recipient, amount, attachment)
	if err != nil {
		s.logger.Sugar().Warnw("Failed to build transfer",
			"request_id", requestId,
			"recipient", recipient,
			"amount", amount,
			"error", err,
		)
		return nil, err
	}

	body, err := json.Marshal(signed.Payload)
	if err != nil {
		return nil, newTransferError(StageEncoding, err, "failed to marshal transfer payload")
	}

	now := s.clock().UnixMilli()
	record := &persistence.TransferRecord{
		ID:        signed.ID,
		Payload:   signed.Payload,
		Status:    persistence.TransferStatus_Signed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.journalSave(record)

	broadcastUrl := s.nodeBaseUrl + broadcastTransferPath
	s.logger.Sugar().Infow("Broadcasting transfer",
		"request_id", requestId,
		"tx_id", signed.ID,
		"sender", s.publicKey,
		"recipient", recipient,
		"amount", amount,
		"fee", s.fee,
		"url", broadcastUrl,
	)

	resp, err := s.transport.Post(ctx, broadcastUrl, body, map[string]string{
		contentTypeHeader: contentTypeJSON,
	})
	if err != nil {
		s.journalUpdate(record, persistence.TransferStatus_Failed, "", err)
		return nil, newTransferError(StageTransport, err, "failed to broadcast transfer")
	}

	if !resp.StatusOk {
		statusErr := &NodeStatusError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
		s.journalUpdate(record, persistence.TransferStatus_Rejected, string(resp.Body), statusErr)
		s.logger.Sugar().Warnw("Node rejected transfer",
			"request_id", requestId,
			"tx_id", signed.ID,
			"status_code", resp.StatusCode,
		)
		return nil, newTransferError(StageTransport, statusErr, "failed to broadcast transfer")
	}

	var broadcast types.BroadcastResponse
	if err := json.Unmarshal(resp.Body, &broadcast); err != nil {
		s.journalUpdate(record, persistence.TransferStatus_Broadcast, string(resp.Body), err)
		return nil, newTransferError(StageResponse, err, "failed to parse broadcast response")
	}
	if broadcast.ID != "" && broadcast.ID != signed.ID {
		mismatch := fmt.Errorf("node reported transaction id %s, expected %s", broadcast.ID, signed.ID)
		s.journalUpdate(record, persistence.TransferStatus_Broadcast, string(resp.Body), mismatch)
		return nil, newTransferError(StageResponse, mismatch, "unexpected broadcast response")
	}

	s.journalUpdate(record, persistence.TransferStatus_Broadcast, string(resp.Body), nil)
	s.logger.Sugar().Infow("Transfer broadcast",
		"request_id", requestId,
		"tx_id", signed.ID,
		"status_code", resp.StatusCode,
	)

	return resp.Body, nil
}

// GetTokenShare returns balance / quantity of the native asset record for
// address, or 0 when the address holds no such record.
func (s *Service) GetTokenShare(ctx context.Context, address types.Address) (float64, error) {
	if err := config.ValidateAddress(string(address), 0); err != nil {
		return 0, newTransferError(StageEncoding, &transaction.MalformedFieldError{Field: "address", Err: err}, "invalid balance address")
	}

	balanceUrl := s.nodeBaseUrl + assetBalancePath + url.PathEscape(string(address))
	s.logger.Sugar().Debugw("Fetching asset balances", "address", address, "url", balanceUrl)

	resp, err := s.transport.Get(ctx, balanceUrl)
	if err != nil {
		return 0, newTransferError(StageTransport, err, "failed to fetch balances")
	}
	if !resp.StatusOk {
		return 0, newTransferError(StageTransport, &NodeStatusError{StatusCode: resp.StatusCode, Body: string(resp.Body)}, "failed to fetch balances")
	}

	var balances types.BalancesResponse
	if err := json.Unmarshal(resp.Body, &balances); err != nil {
		return 0, newTransferError(StageResponse, err, "failed to parse balance response")
	}

	matching := util.Filter(balances.Balances, func(b types.AssetBalance) bool {
		return b.AssetId == string(s.nativeAssetId)
	})
	if len(matching) == 0 {
		s.logger.Sugar().Debugw("Address holds no native asset balance", "address", address, "asset_id", s.nativeAssetId)
		return 0, nil
	}

	balance := matching[0]
	if balance.Quantity == 0 {
		return 0, newTransferError(StageResponse, fmt.Errorf("asset %s reports zero quantity", balance.AssetId), "invalid balance response")
	}
	return float64(balance.Balance) / float64(balance.Quantity), nil
}

func (s *Service) journalSave(record *persistence.TransferRecord) {
	if s.journal == nil {
		return
	}
	if err := s.journal.SaveTransfer(record); err != nil {
		s.logger.Sugar().Warnw("Failed to journal transfer", "tx_id", record.ID, "status", record.Status, "error", err)
	}
}

func (s *Service) journalUpdate(record *persistence.TransferRecord, status persistence.TransferStatus, nodeResponse string, cause error) {
	record.Status = status
	record.NodeResponse = nodeResponse
	record.Error = ""
	if cause != nil {
		record.Error = cause.Error()
	}
	record.UpdatedAt = s.clock().UnixMilli()
	s.journalSave(record)
}
