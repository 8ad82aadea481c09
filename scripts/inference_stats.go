package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"xraychat/internal/config"
	"xraychat/internal/pkg/logger"
	"xraychat/internal/pkg/mongodb"
	"xraychat/internal/repository"
)

// 打印推理审计统计：go run ./scripts/inference_stats.go --since 24h [--session <id>]
var statsCmd = &cobra.Command{
	Use:          "inference_stats",
	Short:        "Summarize inference audit records stored in MongoDB",
	SilenceUsage: true,
	RunE:         runStats,
}

func init() {
	flags := statsCmd.Flags()
	flags.StringP("config", "c", "", "config file (default: ./configs/config.yaml)")
	flags.Duration("since", 24*time.Hour, "统计时间窗口")
	flags.String("session", "", "只列出该会话的最近记录")
	flags.Int64("limit", 20, "列出记录条数")

	_ = viper.BindPFlag("stats.config", flags.Lookup("config"))
	_ = viper.BindPFlag("stats.since", flags.Lookup("since"))
	_ = viper.BindPFlag("stats.session", flags.Lookup("session"))
	_ = viper.BindPFlag("stats.limit", flags.Lookup("limit"))
}

func main() {
	if err := statsCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	// 1. 加载配置（与 cmd/root.go 保持一致的搜索路径）
	if file := viper.GetString("stats.config"); file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.xraychat")
	}

	viper.SetEnvPrefix("XRAYCHAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.SetDefault("mongo.database", "xraychat")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	closer, err := logger.Init(&cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closer.Close()

	if cfg.Mongo.URI == "" {
		return errors.New("mongo.uri is not configured")
	}

	// 2. 连接 MongoDB
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := mongodb.New(ctx, &cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close(context.Background())
	}()

	repo := repository.NewInferenceRepo(client.Database())

	// 3. 按会话列出记录
	if sessionID := viper.GetString("stats.session"); sessionID != "" {
		return listSession(ctx, repo, sessionID, viper.GetInt64("stats.limit"))
	}

	// 4. 按终态汇总
	return summarize(ctx, repo, viper.GetDuration("stats.since"))
}

func listSession(ctx context.Context, repo *repository.InferenceRepo, sessionID string, limit int64) error {
	recs, err := repo.ListBySession(ctx, sessionID, limit, 0)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}
	for _, rec := range recs {
		fmt.Printf("%s  %-24s  %-8s  %6dms  %s\n",
			rec.CreatedAt.Format(time.DateTime), rec.State, rec.Language, rec.Latency.Milliseconds(), rec.Question)
	}
	return nil
}

func summarize(ctx context.Context, repo *repository.InferenceRepo, since time.Duration) error {
	counts, err := repo.CountByState(ctx, time.Now().Add(-since))
	if err != nil {
		return fmt.Errorf("count records: %w", err)
	}

	states := make([]string, 0, len(counts))
	var total int64
	for state, n := range counts {
		states = append(states, state)
		total += n
	}
	sort.Strings(states)

	fmt.Printf("inference records in the last %s: %d\n", since, total)
	for _, state := range states {
		fmt.Printf("  %-24s %d\n", state, counts[state])
	}
	return nil
}
