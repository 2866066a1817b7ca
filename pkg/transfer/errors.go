package transfer

import (
	"fmt"

	"github.com/pkg/errors"
)

// Stage names the step of a transfer that failed
type Stage string

const (
	StageEncoding  Stage = "encoding"
	StageSigning   Stage = "signing"
	StageTransport Stage = "transport"
	StageResponse  Stage = "response"
)

// TransferError is returned by every Service operation. The underlying
// *base58.DecodeError, *transaction.MalformedFieldError,
// *crypto.InvalidKeyError or *transport.TransportError stays reachable with
// errors.As.
type TransferError struct {
	Stage Stage
	Err   error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed at %s stage: %v", e.Stage, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

func newTransferError(stage Stage, err error, message string) *TransferError {
	return &TransferError{Stage: stage, Err: errors.WithMessage(err, message)}
}

// NodeStatusError is a node answer with a non-2xx status
type NodeStatusError struct {
	StatusCode int
	Body       string
}

func (e *NodeStatusError) Error() string {
	return fmt.Sprintf("node returned status %d: %s", e.StatusCode, e.Body)
}

// StageOf returns the stage of a *TransferError in err's chain, or "" if
// there is none.
func StageOf(err error) Stage {
	var transferErr *TransferError
	if errors.As(err, &transferErr) {
		return transferErr.Stage
	}
	return ""
}
