// internal/infra/solana/ledger.go
package solana

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"

	med "github.com/matthewrx/create-master-edition/internal/domain/masteredition"
)

// Commitment levels, weakest first.
const (
	CommitmentProcessed = "processed"
	CommitmentConfirmed = "confirmed"
	CommitmentFinalized = "finalized"
)

// AccountState is what the run needs to know about an on-chain account.
type AccountState struct {
	Exists     bool
	Lamports   uint64
	Executable bool
}

// SignatureState is the observed status of a submitted transaction.
type SignatureState struct {
	Found      bool
	Commitment string
	Err        any
}

// Ledger は 1 回の実行で使う RPC 呼び出しだけに絞ったポートです。
type Ledger interface {
	GetBalance(ctx context.Context, addr common.PublicKey) (uint64, error)
	GetAccount(ctx context.Context, addr common.PublicKey) (AccountState, error)
	LatestBlockhash(ctx context.Context) (string, error)
	SendTransaction(ctx context.Context, tx types.Transaction) (string, error)
	SignatureStatus(ctx context.Context, signature string) (SignatureState, error)
}

// RPCLedger implements Ledger on top of the blocto JSON-RPC client.
type RPCLedger struct {
	Endpoint string
	RPC      *client.Client
}

var _ Ledger = (*RPCLedger)(nil)

// NewRPCLedger creates a ledger client for endpoint (devnet when empty).
func NewRPCLedger(endpoint string) *RPCLedger {
	ep := strings.TrimSpace(endpoint)
	if ep == "" {
		ep = rpc.DevnetRPCEndpoint
	}
	return &RPCLedger{
		Endpoint: ep,
		RPC:      client.NewClient(ep),
	}
}

func (l *RPCLedger) GetBalance(ctx context.Context, addr common.PublicKey) (uint64, error) {
	bal, err := l.RPC.GetBalance(ctx, addr.ToBase58())
	if err != nil {
		return 0, queryError("GetBalance", err)
	}
	return bal, nil
}

// GetAccount reports a missing account as Exists=false with a nil error; the
// RPC returns a null value for it rather than an error.
func (l *RPCLedger) GetAccount(ctx context.Context, addr common.PublicKey) (AccountState, error) {
	info, err := l.RPC.GetAccountInfo(ctx, addr.ToBase58())
	if err != nil {
		if isAccountNotFound(err) {
			return AccountState{}, nil
		}
		return AccountState{}, queryError("GetAccountInfo", err)
	}
	if info.Lamports == 0 && len(info.Data) == 0 && !info.Executable {
		return AccountState{}, nil
	}
	return AccountState{
		Exists:     true,
		Lamports:   info.Lamports,
		Executable: info.Executable,
	}, nil
}

func (l *RPCLedger) LatestBlockhash(ctx context.Context) (string, error) {
	recent, err := l.RPC.GetLatestBlockhash(ctx)
	if err != nil {
		return "", queryError("GetLatestBlockhash", err)
	}
	return recent.Blockhash, nil
}

func (l *RPCLedger) SendTransaction(ctx context.Context, tx types.Transaction) (string, error) {
	sig, err := l.RPC.SendTransaction(ctx, tx)
	if err != nil {
		return "", sendError(err)
	}
	return sig, nil
}

func (l *RPCLedger) SignatureStatus(ctx context.Context, signature string) (SignatureState, error) {
	st, err := l.RPC.GetSignatureStatus(ctx, signature)
	if err != nil {
		return SignatureState{}, queryError("GetSignatureStatus", err)
	}
	if st == nil {
		return SignatureState{}, nil
	}
	out := SignatureState{Found: true, Err: st.Err}
	if st.ConfirmationStatus != nil {
		out.Commitment = string(*st.ConfirmationStatus)
	}
	return out, nil
}

// queryError は読み取り系 RPC の失敗を NetworkUnavailable として扱う。
func queryError(method string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", med.ErrTimeout, method, err)
	}
	return fmt.Errorf("%w: %s: %v", med.ErrNetworkUnavailable, method, err)
}

// sendError classifies a SendTransaction failure. A JSON-RPC error body means
// the node answered and refused the transaction (preflight / program error);
// anything that never reached the node is a transport failure.
func sendError(err error) error {
	var rpcErr *rpc.JsonRpcError
	switch {
	case errors.As(err, &rpcErr):
		return fmt.Errorf("%w: %v", med.ErrSubmissionRejected, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: SendTransaction: %v", med.ErrTimeout, err)
	case isTransportError(err):
		return fmt.Errorf("%w: SendTransaction: %v", med.ErrNetworkUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", med.ErrSubmissionRejected, err)
	}
}

func isTransportError(err error) bool {
	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "failed to do request") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "eof")
}

func isAccountNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "could not find account") ||
		strings.Contains(msg, "account does not exist")
}
