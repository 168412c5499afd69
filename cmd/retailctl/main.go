// Command retailctl herramientas de operación: migraciones, verificación del libro de stock
// y emisión de tokens para pruebas.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/retail-ops/internal/application/inventory"
	"github.com/jhoicas/retail-ops/internal/infrastructure/postgres"
	"github.com/jhoicas/retail-ops/pkg/config"
	"github.com/jhoicas/retail-ops/pkg/jwt"
	"github.com/jhoicas/retail-ops/pkg/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "retailctl",
		Short:         "Operación de retail-ops",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(migrateCmd(), verifyLedgerCmd(), tokenCmd())
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes en PostgreSQL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := postgres.Migrate(ctx, pool)
			if err != nil {
				return err
			}
			for _, name := range applied {
				log.Info().Str("migration", name).Msg("migración aplicada")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migraciones aplicadas\n", len(applied))
			return nil
		},
	}
}

func verifyLedgerCmd() *cobra.Command {
	var productID string
	cmd := &cobra.Command{
		Use:   "verify-ledger",
		Short: "Reconstruye el stock desde el libro de movimientos y lo compara con el materializado",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			verifier := inventory.NewLedgerVerifier(postgres.NewTxRunner(pool, postgres.WithRetries(cfg.Tx.MaxRetries, cfg.Tx.BaseBackoff)))
			return runVerify(ctx, cmd.OutOrStdout(), verifier, productID)
		},
	}
	cmd.Flags().StringVar(&productID, "product", "", "verificar solo este producto")
	return cmd
}

// runVerify imprime el resultado y devuelve error si algún producto no cuadra.
func runVerify(ctx context.Context, out io.Writer, verifier *inventory.LedgerVerifier, productID string) error {
	if productID != "" {
		r, err := verifier.Verify(ctx, productID)
		if err != nil {
			return err
		}
		printReport(out, *r)
		if !r.Consistent {
			return fmt.Errorf("libro inconsistente para %s", productID)
		}
		return nil
	}

	checked, broken, err := verifier.VerifyAll(ctx)
	if err != nil {
		return err
	}
	for _, r := range broken {
		printReport(out, r)
	}
	fmt.Fprintf(out, "%d productos verificados, %d inconsistentes\n", checked, len(broken))
	if len(broken) > 0 {
		return fmt.Errorf("%d productos con libro inconsistente", len(broken))
	}
	return nil
}

func printReport(out io.Writer, r inventory.LedgerReport) {
	state := "OK"
	if !r.Consistent {
		state = "INCONSISTENTE"
	}
	fmt.Fprintf(out, "%-14s %s (%s) stock=%d replay=%d movimientos=%d\n",
		state, r.ProductID, r.ProductName, r.StockOnHand, r.Replayed, r.MovementCount)
}

func tokenCmd() *cobra.Command {
	var userID, name, role string
	var minutes int
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un JWT firmado con JWT_SECRET (entornos de prueba)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := load()
			if err != nil {
				return err
			}
			if minutes <= 0 {
				minutes = cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, userID, name, role, cfg.JWT.Issuer, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user_id del operador")
	cmd.Flags().StringVar(&name, "name", "", "nombre del operador")
	cmd.Flags().StringVar(&role, "role", "admin", "rol: admin, cajero o bodeguero")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "vigencia en minutos (0 = JWT_EXPIRATION_MINUTES)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func load() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "retailctl"}), nil
}
