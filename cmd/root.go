package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"xraychat/internal/config"
	"xraychat/internal/pkg/logger"
)

var (
	cfgFile   string
	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "xraychat",
	Short: "XrayChat - chest X-ray multimodal chat demo",
	Long: `XrayChat serves a browser chat page where a user uploads a chest X-ray
and asks questions about it. Answers come from a pretrained multimodal model
reached through the configured backend (openai/azure/ark/arkruntime).`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command
func Execute() error {
	defer func() {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./configs/config.yaml)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	registerServeFlags(rootCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.xraychat")
	}

	// 环境变量设置
	viper.SetEnvPrefix("XRAYCHAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Fprintln(os.Stderr, "No config file found, using defaults and environment variables")
		} else {
			fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
			os.Exit(1)
		}
	}

	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	closer, err := logger.Init(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	logCloser = closer

	log.Debug().Str("config_file", viper.ConfigFileUsed()).Msg("configuration loaded")
}

func setDefaults() {
	// Server
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 7860)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.share", false)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "10m")
	viper.SetDefault("server.max_concurrency", 10)
	viper.SetDefault("server.max_upload_size", 10<<20)

	// Model
	viper.SetDefault("model.from_pretrained", "checkpoints")
	viper.SetDefault("model.provider", "openai")
	viper.SetDefault("model.precision", "fp16")
	viper.SetDefault("model.quant", 0)
	viper.SetDefault("model.request_timeout", "0s")
	viper.SetDefault("model.sampling.max_length", 2048)
	viper.SetDefault("model.sampling.min_length", 50)
	viper.SetDefault("model.sampling.temperature", 0.8)
	viper.SetDefault("model.sampling.top_p", 0.4)
	viper.SetDefault("model.sampling.top_k", 100)
	viper.SetDefault("model.sampling.repetition_penalty", 1.2)

	// Chat
	viper.SetDefault("chat.default_prompt", "请描述这张胸片")
	viper.SetDefault("chat.error_mode", "collapse")
	viper.SetDefault("chat.examples_dir", "./xray_images")

	// Session
	viper.SetDefault("session.store", "memory")
	viper.SetDefault("session.cookie_name", "xraychat_session")
	viper.SetDefault("session.ttl", "24h")

	// Storage
	viper.SetDefault("storage.type", "local")
	viper.SetDefault("storage.local.base_path", "./data/uploads")
	viper.SetDefault("storage.local.base_url", "/files")

	// Log
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.time_format", "RFC3339")

	// MongoDB (uri 为空时不记录推理审计)
	viper.SetDefault("mongo.database", "xraychat")
	viper.SetDefault("mongo.max_pool_size", 20)
	viper.SetDefault("mongo.min_pool_size", 0)

	// Redis (session.store=redis 时使用)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return cfg
}
