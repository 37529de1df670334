// internal/application/masteredition/usecase.go
package masteredition

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/rs/zerolog"

	med "github.com/matthewrx/create-master-edition/internal/domain/masteredition"
	"github.com/matthewrx/create-master-edition/internal/infra/solana"
)

// ============================================================
// Ports
// ============================================================

// ConfigLoader は master edition 設定の読み込み（必要なら ID 生成）を行うポートです。
type ConfigLoader interface {
	Load(name string) (med.MintConfig, error)
}

// EnvelopeSubmitter は組み立て済みトランザクションを署名・送信・確認待ちするポートです。
type EnvelopeSubmitter interface {
	Submit(ctx context.Context, env solana.Envelope) (string, error)
}

// ============================================================
// Runtime / Result
// ============================================================

// Runtime は 1 回の実行で共有する接続・署名者・プログラム情報です。
// グローバル変数にはせず、構築後に Usecase へ渡す。
type Runtime struct {
	Ledger    solana.Ledger
	Payer     types.Account
	Artifacts solana.ProgramArtifacts

	ComputeUnitLimit uint32
	ComputeUnitPrice uint64
}

// Result is what a run reports back to the CLI.
type Result struct {
	ConfigName    string
	Mint          string
	Signature     string // 既存 mint の場合は空
	AlreadyExists bool
}

// TxURL returns the explorer link for the submitted transaction.
func (r Result) TxURL() string {
	if r.Signature == "" {
		return ""
	}
	return "https://solscan.io/tx/" + r.Signature
}

// TokenURL returns the explorer link for the mint.
func (r Result) TokenURL() string {
	if r.Mint == "" {
		return ""
	}
	return "https://solscan.io/token/" + r.Mint
}

// ============================================================
// Usecase
// ============================================================

type Usecase struct {
	rt        Runtime
	configs   ConfigLoader
	submitter EnvelopeSubmitter
	logger    zerolog.Logger
}

func NewUsecase(rt Runtime, configs ConfigLoader, submitter EnvelopeSubmitter, logger zerolog.Logger) *Usecase {
	return &Usecase{
		rt:        rt,
		configs:   configs,
		submitter: submitter,
		logger:    logger.With().Str("component", "master_edition_usecase").Logger(),
	}
}

// Run creates the master edition described by the config named name.
//
// Steps, in order:
//  1. report the payer balance
//  2. verify the program is deployed and executable
//  3. load the config (generating the mint identity on first use)
//  4. skip everything when the mint account already exists
//  5. derive, encode, assemble, sign, submit and wait for confirmation
func (u *Usecase) Run(ctx context.Context, name string) (Result, error) {
	if u == nil || u.rt.Ledger == nil || u.configs == nil || u.submitter == nil {
		return Result{}, fmt.Errorf("masteredition: usecase not configured")
	}
	payer := u.rt.Payer

	lamports, err := u.rt.Ledger.GetBalance(ctx, payer.PublicKey)
	if err != nil {
		return Result{}, err
	}
	u.logger.Info().
		Str("payer", payer.PublicKey.ToBase58()).
		Float64("balance_sol", float64(lamports)/solana.LamportsPerSOL).
		Msg("using account")

	programID, err := solana.CheckProgram(ctx, u.rt.Ledger, u.rt.Artifacts)
	if err != nil {
		return Result{}, err
	}
	u.logger.Info().Str("program", programID.ToBase58()).Msg("using program")

	cfg, err := u.configs.Load(name)
	if err != nil {
		return Result{}, err
	}

	mint, err := types.AccountFromBytes(cfg.MintPrivate)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: mint_private: %v", med.ErrConfigMalformed, cfg.Name, err)
	}
	res := Result{ConfigName: cfg.Name, Mint: mint.PublicKey.ToBase58()}

	// 既存 mint アカウントがあれば何もしない（中身の整合性は見ない）
	st, err := u.rt.Ledger.GetAccount(ctx, mint.PublicKey)
	if err != nil {
		return Result{}, err
	}
	if st.Exists {
		u.logger.Info().
			Str("config", cfg.Name).
			Str("mint", res.Mint).
			Msg("mint account already exists; nothing to do")
		res.AlreadyExists = true
		return res, nil
	}

	addrs, err := solana.DeriveAddresses(payer.PublicKey, mint.PublicKey)
	if err != nil {
		return Result{}, err
	}

	env, err := solana.Assemble(solana.AssembleInput{
		ProgramID:        programID,
		Payer:            payer,
		Mint:             mint,
		Addresses:        addrs,
		Payload:          cfg.Payload,
		ComputeUnitLimit: u.rt.ComputeUnitLimit,
		ComputeUnitPrice: u.rt.ComputeUnitPrice,
	})
	if err != nil {
		return Result{}, err
	}

	u.logger.Debug().
		Str("mint", res.Mint).
		Str("token_wallet", addrs.TokenWallet.ToBase58()).
		Str("metadata", addrs.Metadata.ToBase58()).
		Str("master_edition", addrs.MasterEdition.ToBase58()).
		Int("instructions", len(env.Instructions)).
		Msg("envelope assembled")

	sig, err := u.submitter.Submit(ctx, env)
	if err != nil {
		return Result{}, err
	}
	res.Signature = sig
	return res, nil
}
