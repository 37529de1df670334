// Package solanatest provides an in-memory Ledger for tests.
package solanatest

import (
	"context"
	"sync"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"github.com/matthewrx/create-master-edition/internal/infra/solana"
)

// Ledger is a scripted solana.Ledger. Zero value is usable: every account is
// missing, sends succeed and signatures confirm on the first poll.
type Ledger struct {
	mu sync.Mutex

	Accounts  map[common.PublicKey]solana.AccountState
	Balances  map[common.PublicKey]uint64
	Blockhash string

	SendErr      error
	Signature    string
	Statuses     []solana.SignatureState // 1 poll ごとに先頭から消費、空なら confirmed
	StatusErr    error
	BalanceErr   error
	AccountErr   error
	BlockhashErr error

	Sent         []types.Transaction
	AccountCalls []common.PublicKey
	StatusPolls  int
}

var _ solana.Ledger = (*Ledger)(nil)

// New returns a Ledger with a valid recent blockhash.
func New() *Ledger {
	return &Ledger{
		Accounts:  map[common.PublicKey]solana.AccountState{},
		Balances:  map[common.PublicKey]uint64{},
		Blockhash: types.NewAccount().PublicKey.ToBase58(),
		Signature: "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW",
	}
}

// SetAccount registers an existing on-chain account.
func (l *Ledger) SetAccount(addr common.PublicKey, st solana.AccountState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Accounts == nil {
		l.Accounts = map[common.PublicKey]solana.AccountState{}
	}
	st.Exists = true
	l.Accounts[addr] = st
}

func (l *Ledger) GetBalance(_ context.Context, addr common.PublicKey) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.BalanceErr != nil {
		return 0, l.BalanceErr
	}
	return l.Balances[addr], nil
}

func (l *Ledger) GetAccount(_ context.Context, addr common.PublicKey) (solana.AccountState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.AccountCalls = append(l.AccountCalls, addr)
	if l.AccountErr != nil {
		return solana.AccountState{}, l.AccountErr
	}
	return l.Accounts[addr], nil
}

func (l *Ledger) LatestBlockhash(_ context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.BlockhashErr != nil {
		return "", l.BlockhashErr
	}
	return l.Blockhash, nil
}

func (l *Ledger) SendTransaction(_ context.Context, tx types.Transaction) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.SendErr != nil {
		return "", l.SendErr
	}
	l.Sent = append(l.Sent, tx)
	return l.Signature, nil
}

func (l *Ledger) SignatureStatus(_ context.Context, _ string) (solana.SignatureState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.StatusPolls++
	if l.StatusErr != nil {
		return solana.SignatureState{}, l.StatusErr
	}
	if len(l.Statuses) == 0 {
		return solana.SignatureState{Found: true, Commitment: solana.CommitmentConfirmed}, nil
	}
	st := l.Statuses[0]
	if len(l.Statuses) > 1 {
		l.Statuses = l.Statuses[1:]
	}
	return st, nil
}

// SentCount returns the number of transactions accepted so far.
func (l *Ledger) SentCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Sent)
}
