// cmd/master_edition/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	meuc "github.com/matthewrx/create-master-edition/internal/application/masteredition"
	appcfg "github.com/matthewrx/create-master-edition/internal/infra/config"
	"github.com/matthewrx/create-master-edition/internal/platform/di"
	"github.com/matthewrx/create-master-edition/internal/platform/logger"
)

// runFunc executes one master edition run for the named config.
type runFunc func(ctx context.Context, name string) (meuc.Result, error)

func main() {
	// .env は任意（無ければ環境変数のみ）
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(run, os.Stdout)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(fn runFunc, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "master_edition <config-name>",
		Short: "Create a master edition from master_editions/<config-name>.json",
		Long: `Creates a master edition token record through the deployed program.

The config file is read from $MASTER_EDITION_MINT_CONFIG_DIR/<config-name>.json.
On first use a mint keypair is generated and written back into the file; later
runs reuse it. RPC endpoint and fee payer come from the Solana CLI config.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := fn(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printResult(out, res)
			return nil
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	return cmd
}

func run(ctx context.Context, name string) (meuc.Result, error) {
	cfg, err := appcfg.Load()
	if err != nil {
		return meuc.Result{}, err
	}

	log, err := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return meuc.Result{}, err
	}

	container, err := di.NewContainer(ctx, cfg, log)
	if err != nil {
		return meuc.Result{}, err
	}

	return container.MasterEditionUC.Run(ctx, name)
}

func printResult(out io.Writer, res meuc.Result) {
	if res.AlreadyExists {
		fmt.Fprintf(out, "mint already exists: %s\n", res.TokenURL())
	} else {
		fmt.Fprintf(out, "txn: %s\n", res.TxURL())
		fmt.Fprintf(out, "token: %s\n", res.TokenURL())
	}
	fmt.Fprintln(out, "success")
}
