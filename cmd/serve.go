package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"xraychat/internal/server"
)

func registerServeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	// Model flags
	flags.Int("quant", 0, "quantization bits (4/8), 0 disables quantization")
	flags.String("from_pretrained", "checkpoints", "pretrained model checkpoint or endpoint")
	flags.String("provider", "openai", "model backend (openai/azure/ark/arkruntime)")

	// Server flags
	flags.Bool("share", false, "listen on all interfaces instead of loopback")
	flags.StringP("host", "H", "127.0.0.1", "server host")
	flags.IntP("port", "p", 7860, "server port")
	flags.String("mode", "release", "server mode (debug/release/test)")

	// Log flags
	flags.String("log-level", "info", "log level (trace/debug/info/warn/error/fatal)")
	flags.String("log-format", "console", "log format (json/console)")

	// Bind flags to viper
	_ = viper.BindPFlag("model.quant", flags.Lookup("quant"))
	_ = viper.BindPFlag("model.from_pretrained", flags.Lookup("from_pretrained"))
	_ = viper.BindPFlag("model.provider", flags.Lookup("provider"))
	_ = viper.BindPFlag("server.share", flags.Lookup("share"))
	_ = viper.BindPFlag("server.host", flags.Lookup("host"))
	_ = viper.BindPFlag("server.port", flags.Lookup("port"))
	_ = viper.BindPFlag("server.mode", flags.Lookup("mode"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Info().
		Str("model", cfg.Model.FromPretrained).
		Str("provider", cfg.Model.Provider).
		Int("quant", cfg.Model.Quant).
		Msg("starting xraychat")

	return srv.Run(ctx)
}
