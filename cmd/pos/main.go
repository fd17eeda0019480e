package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/jhoicas/tienda-pos/internal/application/pos"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/apiclient"
	"github.com/jhoicas/tienda-pos/internal/interfaces/terminal"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

type options struct {
	apiURL   string
	username string
	password string
	discount string
	tax      string
	timeout  time.Duration
	logLevel string
}

func main() {
	_ = godotenv.Load() // .env opcional

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "pos",
		Short: "Caja de la tienda en terminal",
		Long: `Caja interactiva contra el API de la tienda.

Cada artículo escaneado descuenta stock de inmediato; "commit" guarda la
factura sin volver a descontar y "void" devuelve lo descontado.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o)
		},
	}

	cmd.Flags().StringVar(&o.apiURL, "api", envOr("POS_API_URL", "http://localhost:8080"), "URL base del API")
	cmd.Flags().StringVarP(&o.username, "user", "u", os.Getenv("POS_USER"), "Usuario")
	cmd.Flags().StringVarP(&o.password, "password", "p", os.Getenv("POS_PASSWORD"), "Contraseña")
	cmd.Flags().StringVar(&o.discount, "discount", envOr("POS_DISCOUNT_RATE", "0"), "Descuento % por defecto")
	cmd.Flags().StringVar(&o.tax, "tax", envOr("POS_TAX_RATE", "0"), "Impuesto % por defecto")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 15*time.Second, "Timeout de cada petición")
	cmd.Flags().StringVar(&o.logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "Nivel de log (debug, info, warn, error)")

	return cmd
}

func run(ctx context.Context, o options) error {
	if o.username == "" || o.password == "" {
		return fmt.Errorf("usuario y contraseña son obligatorios (--user/--password o POS_USER/POS_PASSWORD)")
	}
	rates := pos.Rates{}
	var err error
	if rates.Discount, err = decimal.NewFromString(o.discount); err != nil {
		return fmt.Errorf("--discount: %w", err)
	}
	if rates.Tax, err = decimal.NewFromString(o.tax); err != nil {
		return fmt.Errorf("--tax: %w", err)
	}

	log := logger.New(logger.Config{Env: "development", Level: o.logLevel, Output: os.Stderr})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := apiclient.New(apiclient.Config{BaseURL: o.apiURL, Timeout: o.timeout})
	login, err := client.Login(ctx, o.username, o.password)
	if err != nil {
		return err
	}
	log.Info().Str("username", login.Username).Str("role", login.Role).Str("api", o.apiURL).Msg("sesión iniciada")

	coord := pos.NewCoordinator(client, client, client, log)
	fmt.Fprintf(os.Stdout, "Caja lista (%s). Escriba help para ver los comandos.\n", login.Username)
	return terminal.NewSession(coord, client, client, login.Username, rates, os.Stdin, os.Stdout).Run(ctx)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
