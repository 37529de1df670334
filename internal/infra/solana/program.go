// internal/infra/solana/program.go
package solana

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blocto/solana-go-sdk/common"

	med "github.com/matthewrx/create-master-edition/internal/domain/masteredition"
)

const (
	DefaultProgramDir  = "./program/target/deploy"
	DefaultProgramName = "rust_boiler"
)

// ProgramArtifacts points at the output of `cargo build-sbf` / deploy.
type ProgramArtifacts struct {
	Dir  string
	Name string
}

// KeypairPath returns <Dir>/<Name>-keypair.json.
func (a ProgramArtifacts) KeypairPath() string {
	return filepath.Join(a.Dir, a.Name+"-keypair.json")
}

// SharedObjectPath returns <Dir>/<Name>.so.
func (a ProgramArtifacts) SharedObjectPath() string {
	return filepath.Join(a.Dir, a.Name+".so")
}

func (a ProgramArtifacts) built() bool {
	_, err := os.Stat(a.SharedObjectPath())
	return err == nil
}

// notDeployed returns ProgramNotDeployed when the binary exists locally and
// ProgramNotBuilt otherwise.
func (a ProgramArtifacts) notDeployed(detail string) error {
	if a.built() {
		return fmt.Errorf("%w: %s", med.ErrProgramNotDeployed, detail)
	}
	return fmt.Errorf("%w: %s", med.ErrProgramNotBuilt, detail)
}

// CheckProgram resolves the program id from its keypair file and verifies that
// the account exists on-chain and is executable.
func CheckProgram(ctx context.Context, ledger Ledger, art ProgramArtifacts) (common.PublicKey, error) {
	kp, err := LoadKeypairFile(art.KeypairPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return common.PublicKey{}, art.notDeployed("missing " + art.KeypairPath())
		}
		return common.PublicKey{}, fmt.Errorf("%w: %v", med.ErrProgramNotDeployed, err)
	}
	programID := kp.PublicKey

	st, err := ledger.GetAccount(ctx, programID)
	if err != nil {
		return common.PublicKey{}, err
	}
	if !st.Exists {
		return common.PublicKey{}, art.notDeployed("no account for " + programID.ToBase58())
	}
	if !st.Executable {
		return common.PublicKey{}, fmt.Errorf("%w: %s", med.ErrProgramNotExecutable, programID.ToBase58())
	}
	return programID, nil
}
