package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"shoemart/internal/config"
	"shoemart/internal/repl"
	"shoemart/internal/repository"
	"shoemart/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "shoemart",
		Short:        "ShoeMart chatbot - terminal chat, scripted demo and database tooling",
		Version:      fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),
		SilenceUsage: true,
	}

	root.AddCommand(newChatCmd(), newDemoCmd(), newMigrateCmd())
	return root
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			bot, online, closeFn := newChatBot(cmd.Context(), cfg)
			defer closeFn()

			repl.Start(cmd.Context(), bot, cfg.Chatbot.Name, online)
			return nil
		},
	}
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the scripted demo conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			bot, _, closeFn := newChatBot(cmd.Context(), cfg)
			defer closeFn()

			repl.RunDemo(cmd.Context(), bot, cfg.Chatbot.Name, cmd.OutOrStdout())
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			version, err := repository.RunMigrations(cfg.GetPostgreSQLURL())
			if err != nil {
				return err
			}
			log.Printf("✅ Database schema at version %d", version)

			if !seed {
				return nil
			}

			repo, err := repository.NewPostgresRepository(
				cfg.GetPostgreSQLDSN(),
				cfg.PostgreSQL.MaxConnections,
				cfg.PostgreSQL.MaxIdleConnections,
			)
			if err != nil {
				return err
			}
			defer repo.Close()

			inserted, err := repo.SeedProducts(cmd.Context(), service.DefaultLexicon().Catalog())
			if err != nil {
				return err
			}
			log.Printf("✅ Seeded %d products", inserted)
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "insert the built-in sample catalog")
	return cmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newChatBot connects to the database when it can and falls back to offline
// mode otherwise. The returned func releases the connection.
func newChatBot(ctx context.Context, cfg *config.Config) (*service.ChatBot, bool, func()) {
	var storage service.Storage = service.NewOfflineStorage()
	closeFn := func() {}

	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Printf("⚠️  Failed to connect to database: %v", err)
	} else {
		storage = repo
		closeFn = func() { repo.Close() }
	}

	seed := cfg.Chatbot.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	dispatcher := service.NewDispatcher(storage, service.DispatcherOptions{
		BotName:          cfg.Chatbot.Name,
		AllDisplayLimit:  cfg.Chatbot.AllDisplayLimit,
		ListDisplayLimit: cfg.Chatbot.ListDisplayLimit,
		PopularLimit:     cfg.Chatbot.PopularLimit,
		SimilarLimit:     cfg.Embedding.SimilarLimit,
		QueryTimeout:     cfg.PostgreSQL.QueryTimeout,
		Rand:             rand.New(rand.NewSource(seed)),
	})
	history := service.NewConversationLog(cfg.Chatbot.MaxHistory)

	return service.NewChatBot(nil, dispatcher, history), storage.IsAvailable(ctx), closeFn
}
