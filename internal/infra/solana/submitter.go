// internal/infra/solana/submitter.go
package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/rs/zerolog"

	med "github.com/matthewrx/create-master-edition/internal/domain/masteredition"
)

const (
	DefaultConfirmTimeout = 60 * time.Second
	DefaultPollInterval   = 500 * time.Millisecond
)

// Submitter signs an Envelope, sends it and waits for the configured
// commitment. It never retries.
type Submitter struct {
	Ledger Ledger

	Commitment     string        // processed / confirmed / finalized
	ConfirmTimeout time.Duration // 確認待ちの上限
	PollInterval   time.Duration

	logger zerolog.Logger
}

// NewSubmitter creates a Submitter with defaults for zero values.
func NewSubmitter(ledger Ledger, commitment string, confirmTimeout, pollInterval time.Duration, logger zerolog.Logger) *Submitter {
	if commitment == "" {
		commitment = CommitmentConfirmed
	}
	if confirmTimeout <= 0 {
		confirmTimeout = DefaultConfirmTimeout
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Submitter{
		Ledger:         ledger,
		Commitment:     commitment,
		ConfirmTimeout: confirmTimeout,
		PollInterval:   pollInterval,
		logger:         logger.With().Str("component", "submitter").Logger(),
	}
}

// Submit signs env with its signers, sends it and blocks until the
// transaction reaches s.Commitment. It returns the transaction signature.
func (s *Submitter) Submit(ctx context.Context, env Envelope) (string, error) {
	if s == nil || s.Ledger == nil {
		return "", fmt.Errorf("solana: submitter not configured")
	}

	blockhash, err := s.Ledger.LatestBlockhash(ctx)
	if err != nil {
		return "", err
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: env.Signers,
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        env.FeePayer,
			RecentBlockhash: blockhash,
			Instructions:    env.Instructions,
		}),
	})
	if err != nil {
		return "", fmt.Errorf("solana: NewTransaction: %w", err)
	}

	sig, err := s.Ledger.SendTransaction(ctx, tx)
	if err != nil {
		return "", err
	}

	s.logger.Info().
		Str("signature", sig).
		Str("commitment", s.Commitment).
		Msg("transaction submitted")

	if err := s.awaitConfirmation(ctx, sig); err != nil {
		return sig, err
	}

	s.logger.Info().Str("signature", sig).Msg("transaction confirmed")
	return sig, nil
}

func (s *Submitter) awaitConfirmation(ctx context.Context, sig string) error {
	waitCtx, cancel := context.WithTimeout(ctx, s.ConfirmTimeout)
	defer cancel()

	ticker := time.NewTicker(s.PollInterval)
	defer ticker.Stop()

	for {
		st, err := s.Ledger.SignatureStatus(waitCtx, sig)
		if err != nil {
			if waitCtx.Err() != nil {
				return s.waitError(ctx, sig)
			}
			return err
		}
		if st.Found {
			if st.Err != nil {
				return fmt.Errorf("%w: tx=%s err=%v", med.ErrSubmissionRejected, sig, st.Err)
			}
			if commitmentReached(st.Commitment, s.Commitment) {
				return nil
			}
		}

		select {
		case <-waitCtx.Done():
			return s.waitError(ctx, sig)
		case <-ticker.C:
		}
	}
}

// waitError distinguishes our own confirmation window running out from the
// caller cancelling the run.
func (s *Submitter) waitError(parent context.Context, sig string) error {
	if parent.Err() != nil && !errors.Is(parent.Err(), context.DeadlineExceeded) {
		return parent.Err()
	}
	return fmt.Errorf("%w: tx=%s not %s within %s", med.ErrTimeout, sig, s.Commitment, s.ConfirmTimeout)
}

func commitmentRank(c string) int {
	switch c {
	case CommitmentProcessed:
		return 1
	case CommitmentConfirmed:
		return 2
	case CommitmentFinalized:
		return 3
	default:
		return 0
	}
}

func commitmentReached(observed, target string) bool {
	o := commitmentRank(observed)
	return o > 0 && o >= commitmentRank(target)
}
