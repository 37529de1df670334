package masteredition

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	med "github.com/matthewrx/create-master-edition/internal/domain/masteredition"
	"github.com/matthewrx/create-master-edition/internal/infra/mintconfig"
	"github.com/matthewrx/create-master-edition/internal/infra/solana"
	"github.com/matthewrx/create-master-edition/internal/infra/solana/solanatest"
)

const genesisConfig = `{
    "seller_fee_bp": 500,
    "name": "A",
    "symbol": "B",
    "uri": "u",
    "supply": 1
}`

type fixture struct {
	ledger  *solanatest.Ledger
	store   *mintconfig.Store
	payer   types.Account
	program types.Account
	art     solana.ProgramArtifacts
	uc      *Usecase
}

func writeKeypair(t *testing.T, path string, acc types.Account) {
	t.Helper()
	ints := make([]int, len(acc.PrivateKey))
	for i, b := range acc.PrivateKey {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

// newFixture wires a usecase against an in-memory ledger with a deployed,
// executable program and a "genesis" config on disk.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ledger:  solanatest.New(),
		store:   mintconfig.NewStore(t.TempDir(), zerolog.Nop()),
		payer:   types.NewAccount(),
		program: types.NewAccount(),
		art:     solana.ProgramArtifacts{Dir: t.TempDir(), Name: "rust_boiler"},
	}
	writeKeypair(t, f.art.KeypairPath(), f.program)
	require.NoError(t, os.WriteFile(f.art.SharedObjectPath(), []byte{1}, 0o600))
	require.NoError(t, os.WriteFile(f.store.Path("genesis"), []byte(genesisConfig), 0o600))

	f.ledger.Balances[f.payer.PublicKey] = 2 * solana.LamportsPerSOL
	f.ledger.SetAccount(f.program.PublicKey, solana.AccountState{Lamports: 1, Executable: true})

	f.rebuild()
	return f
}

func (f *fixture) rebuild() {
	rt := Runtime{Ledger: f.ledger, Payer: f.payer, Artifacts: f.art}
	sub := solana.NewSubmitter(f.ledger, solana.CommitmentConfirmed, time.Second, time.Millisecond, zerolog.Nop())
	f.uc = NewUsecase(rt, f.store, sub, zerolog.Nop())
}

func TestRunSubmitsMasterEdition(t *testing.T) {
	f := newFixture(t)

	res, err := f.uc.Run(context.Background(), "genesis")
	require.NoError(t, err)

	assert.False(t, res.AlreadyExists)
	assert.Equal(t, f.ledger.Signature, res.Signature)
	assert.Equal(t, "https://solscan.io/tx/"+res.Signature, res.TxURL())
	assert.Equal(t, "https://solscan.io/token/"+res.Mint, res.TokenURL())

	raw, err := os.ReadFile(f.store.Path("genesis"))
	require.NoError(t, err)
	assert.Equal(t, res.Mint, gjson.GetBytes(raw, "mint").String())

	require.Equal(t, 1, f.ledger.SentCount())
	tx := f.ledger.Sent[0]
	assert.Len(t, tx.Signatures, 2)
	assert.Equal(t, f.payer.PublicKey, tx.Message.Accounts[0])
	assert.Equal(t, res.Mint, tx.Message.Accounts[1].ToBase58())
}

func TestRunNoopWhenMintExists(t *testing.T) {
	f := newFixture(t)

	cfg, err := f.store.Load("genesis")
	require.NoError(t, err)
	mint, err := types.AccountFromBytes(cfg.MintPrivate)
	require.NoError(t, err)
	f.ledger.SetAccount(mint.PublicKey, solana.AccountState{Lamports: 1_461_600})

	res, err := f.uc.Run(context.Background(), "genesis")
	require.NoError(t, err)
	assert.True(t, res.AlreadyExists)
	assert.Empty(t, res.Signature)
	assert.Empty(t, res.TxURL())
	assert.Equal(t, cfg.Mint, res.Mint)
	assert.Equal(t, 0, f.ledger.SentCount())
}

func TestRunFailsBeforeSubmissionWhenProgramMissing(t *testing.T) {
	t.Run("not deployed", func(t *testing.T) {
		f := newFixture(t)
		f.ledger.Accounts = nil

		_, err := f.uc.Run(context.Background(), "genesis")
		assert.ErrorIs(t, err, med.ErrProgramNotDeployed)
		assert.Equal(t, 0, f.ledger.SentCount())

		raw, err := os.ReadFile(f.store.Path("genesis"))
		require.NoError(t, err)
		assert.False(t, gjson.GetBytes(raw, "mint").Exists())
	})

	t.Run("not built", func(t *testing.T) {
		f := newFixture(t)
		f.ledger.Accounts = nil
		require.NoError(t, os.Remove(f.art.SharedObjectPath()))

		_, err := f.uc.Run(context.Background(), "genesis")
		assert.ErrorIs(t, err, med.ErrProgramNotBuilt)
		assert.Equal(t, 0, f.ledger.SentCount())
	})

	t.Run("not executable", func(t *testing.T) {
		f := newFixture(t)
		f.ledger.SetAccount(f.program.PublicKey, solana.AccountState{Lamports: 1})

		_, err := f.uc.Run(context.Background(), "genesis")
		assert.ErrorIs(t, err, med.ErrProgramNotExecutable)
		assert.Equal(t, 0, f.ledger.SentCount())
	})
}

func TestRunConfigErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Run(context.Background(), "missing")
	assert.ErrorIs(t, err, med.ErrConfigNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(f.store.Dir, "bad.json"), []byte(`{"name":1}`), 0o600))
	_, err = f.uc.Run(context.Background(), "bad")
	assert.ErrorIs(t, err, med.ErrConfigMalformed)

	assert.Equal(t, 0, f.ledger.SentCount())
}

func TestRunRetryReusesIdentity(t *testing.T) {
	f := newFixture(t)
	f.ledger.SendErr = errors.Join(med.ErrSubmissionRejected, errors.New("custom program error: 0x0"))

	_, err := f.uc.Run(context.Background(), "genesis")
	require.ErrorIs(t, err, med.ErrSubmissionRejected)

	first, err := f.store.Load("genesis")
	require.NoError(t, err)

	f.ledger.SendErr = nil
	res, err := f.uc.Run(context.Background(), "genesis")
	require.NoError(t, err)
	assert.Equal(t, first.Mint, res.Mint)
	assert.Equal(t, 1, f.ledger.SentCount())
}

func TestRunNetworkUnavailable(t *testing.T) {
	f := newFixture(t)
	f.ledger.BalanceErr = errors.Join(med.ErrNetworkUnavailable, errors.New("connection refused"))

	_, err := f.uc.Run(context.Background(), "genesis")
	assert.ErrorIs(t, err, med.ErrNetworkUnavailable)
	assert.Empty(t, f.ledger.AccountCalls)
}

func TestRunNotConfigured(t *testing.T) {
	var uc *Usecase
	_, err := uc.Run(context.Background(), "genesis")
	assert.Error(t, err)
}
