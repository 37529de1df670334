// internal/platform/di/container.go
package di

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/rs/zerolog"

	meuc "github.com/matthewrx/create-master-edition/internal/application/masteredition"
	appcfg "github.com/matthewrx/create-master-edition/internal/infra/config"
	"github.com/matthewrx/create-master-edition/internal/infra/mintconfig"
	"github.com/matthewrx/create-master-edition/internal/infra/solana"
)

// Container は 1 回の実行に必要な依存をまとめて保持します。
type Container struct {
	Config    *appcfg.Config
	CLIConfig solana.CLIConfig

	Ledger    solana.Ledger
	Payer     types.Account
	Store     *mintconfig.Store
	Submitter *solana.Submitter

	MasterEditionUC *meuc.Usecase
}

// PayerLoader resolves the fee payer. Swapped out in tests.
type PayerLoader func(ctx context.Context, cfg *appcfg.Config, cli solana.CLIConfig) (types.Account, error)

// LedgerFactory builds the RPC-backed ledger for an endpoint.
type LedgerFactory func(endpoint string) solana.Ledger

// Option customizes NewContainer.
type Option func(*options)

type options struct {
	loadPayer PayerLoader
	newLedger LedgerFactory
}

// WithPayerLoader overrides how the fee payer is resolved.
func WithPayerLoader(f PayerLoader) Option {
	return func(o *options) { o.loadPayer = f }
}

// WithLedgerFactory overrides how the ledger client is built.
func WithLedgerFactory(f LedgerFactory) Option {
	return func(o *options) { o.newLedger = f }
}

// NewContainer は Config から全依存を組み立てます。
// RPC URL と commitment は環境変数 > Solana CLI config.yml > 既定値 の順で決まる。
func NewContainer(ctx context.Context, cfg *appcfg.Config, logger zerolog.Logger, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("di: config is nil")
	}
	o := options{
		loadPayer: defaultPayerLoader,
		newLedger: func(endpoint string) solana.Ledger { return solana.NewRPCLedger(endpoint) },
	}
	for _, opt := range opts {
		opt(&o)
	}

	cliPath := cfg.SolanaCLIConfig
	if cliPath == "" {
		p, err := solana.DefaultCLIConfigPath()
		if err != nil {
			return nil, err
		}
		cliPath = p
	}
	cli, err := solana.LoadCLIConfig(cliPath)
	if err != nil {
		return nil, err
	}

	endpoint := firstNonEmpty(cfg.RPCURL, cli.JSONRPCURL)
	commitment := firstNonEmpty(cfg.Commitment, cli.Commitment, solana.CommitmentConfirmed)

	payer, err := o.loadPayer(ctx, cfg, cli)
	if err != nil {
		return nil, err
	}

	ledger := o.newLedger(endpoint)
	logger.Info().
		Str("rpc", endpoint).
		Str("commitment", commitment).
		Msg("connection to cluster configured")

	store := mintconfig.NewStore(cfg.MintConfigDir, logger)
	submitter := solana.NewSubmitter(ledger, commitment, cfg.ConfirmTimeout, cfg.ConfirmPollInterval, logger)

	rt := meuc.Runtime{
		Ledger:           ledger,
		Payer:            payer,
		Artifacts:        solana.ProgramArtifacts{Dir: cfg.ProgramDir, Name: cfg.ProgramName},
		ComputeUnitLimit: cfg.ComputeUnitLimit,
		ComputeUnitPrice: cfg.ComputeUnitPrice,
	}

	return &Container{
		Config:          cfg,
		CLIConfig:       cli,
		Ledger:          ledger,
		Payer:           payer,
		Store:           store,
		Submitter:       submitter,
		MasterEditionUC: meuc.NewUsecase(rt, store, submitter, logger),
	}, nil
}

func defaultPayerLoader(ctx context.Context, cfg *appcfg.Config, cli solana.CLIConfig) (types.Account, error) {
	if cfg.PayerSecret != "" {
		return solana.LoadPayerFromSecret(ctx, cfg.PayerSecret)
	}
	return cli.LoadPayer()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
