// internal/infra/solana/assembler.go
package solana

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/cmptbdgprog"
	"github.com/blocto/solana-go-sdk/types"

	med "github.com/matthewrx/create-master-edition/internal/domain/masteredition"
)

// DefaultComputeUnitLimit is the compute-unit ceiling requested ahead of the
// create-master-edition instruction.
const DefaultComputeUnitLimit uint32 = 1_000_000

// MasterEditionAccountCount は create master edition 命令のアカウント数（固定）。
const MasterEditionAccountCount = 11

// AssembleInput は Assemble の入力です。
type AssembleInput struct {
	ProgramID common.PublicKey
	Payer     types.Account
	Mint      types.Account
	Addresses DerivedAddresses
	Payload   med.Payload

	ComputeUnitLimit uint32 // 0 なら DefaultComputeUnitLimit
	ComputeUnitPrice uint64 // micro-lamports, 0 なら price 命令を付けない
}

// Envelope is an assembled, not yet signed, transaction.
type Envelope struct {
	FeePayer     common.PublicKey
	Signers      []types.Account
	Instructions []types.Instruction
}

// Main returns the create-master-edition instruction (always last).
func (e Envelope) Main() types.Instruction {
	if len(e.Instructions) == 0 {
		return types.Instruction{}
	}
	return e.Instructions[len(e.Instructions)-1]
}

// Assemble builds the compute-budget directive(s) followed by the
// create-master-edition instruction.
func Assemble(in AssembleInput) (Envelope, error) {
	data, err := med.InstructionData(in.Payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("solana: assemble: %w", err)
	}

	limit := in.ComputeUnitLimit
	if limit == 0 {
		limit = DefaultComputeUnitLimit
	}

	ins := make([]types.Instruction, 0, 3)
	ins = append(ins, cmptbdgprog.SetComputeUnitLimit(cmptbdgprog.SetComputeUnitLimitParam{
		Units: limit,
	}))
	if in.ComputeUnitPrice > 0 {
		ins = append(ins, cmptbdgprog.SetComputeUnitPrice(cmptbdgprog.SetComputeUnitPriceParam{
			MicroLamports: in.ComputeUnitPrice,
		}))
	}
	ins = append(ins, types.Instruction{
		ProgramID: in.ProgramID,
		Accounts:  MasterEditionAccounts(in.Payer.PublicKey, in.Mint.PublicKey, in.Addresses),
		Data:      data,
	})

	return Envelope{
		FeePayer:     in.Payer.PublicKey,
		Signers:      []types.Account{in.Payer, in.Mint},
		Instructions: ins,
	}, nil
}

// MasterEditionAccounts returns the account list in the order the program
// reads it. Omitting or reordering any entry makes the program reject the
// instruction.
//
//  0. [signer]           payer
//  1. [signer, writable] new mint
//  2. [writable]         token wallet (ATA of payer)
//  3. [writable]         metadata PDA
//  4. [writable]         master edition PDA
//  5. []                 token program
//  6. []                 associated token program
//  7. []                 system program
//  8. []                 rent sysvar
//  9. []                 metadata program
//  10. []                instructions sysvar
func MasterEditionAccounts(payer, mint common.PublicKey, addrs DerivedAddresses) []types.AccountMeta {
	return []types.AccountMeta{
		{PubKey: payer, IsSigner: true, IsWritable: false},
		{PubKey: mint, IsSigner: true, IsWritable: true},
		{PubKey: addrs.TokenWallet, IsSigner: false, IsWritable: true},
		{PubKey: addrs.Metadata, IsSigner: false, IsWritable: true},
		{PubKey: addrs.MasterEdition, IsSigner: false, IsWritable: true},
		{PubKey: TokenProgramID, IsSigner: false, IsWritable: false},
		{PubKey: AssociatedTokenProgramID, IsSigner: false, IsWritable: false},
		{PubKey: SystemProgramID, IsSigner: false, IsWritable: false},
		{PubKey: RentSysvarID, IsSigner: false, IsWritable: false},
		{PubKey: MetadataProgramID, IsSigner: false, IsWritable: false},
		{PubKey: InstructionsSysvarID, IsSigner: false, IsWritable: false},
	}
}
