package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/telebridge/botstore/internal/bootstrap"
	"github.com/telebridge/botstore/internal/config"
	"github.com/telebridge/botstore/internal/logger"
	"github.com/telebridge/botstore/internal/model"
	"github.com/telebridge/botstore/internal/unthread"
)

var (
	dsnFlag    string
	sqliteFlag string
	redisFlag  string
	ttlFlag    int
	rootCmd    = &cobra.Command{
		Use:   "botstorectl",
		Short: "Operator CLI for the bot storage core",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "postgres-dsn", os.Getenv("BOTSTORE_POSTGRES_DSN"), "Postgres DSN for the durable tier")
	rootCmd.PersistentFlags().StringVar(&sqliteFlag, "sqlite", os.Getenv("BOTSTORE_SQLITE_PATH"), "SQLite path for the durable tier")
	rootCmd.PersistentFlags().StringVar(&redisFlag, "redis", os.Getenv("BOTSTORE_REDIS_ADDR"), "Redis address for the distributed tier")

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Read a raw value by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *bootstrap.App) error {
				v, ok := app.Engine().Get(ctx, args[0])
				if !ok {
					return fmt.Errorf("%w: %s", model.ErrNotFound, args[0])
				}
				fmt.Println(string(v))
				return nil
			})
		},
	}
	rootCmd.AddCommand(getCmd)

	setCmd := &cobra.Command{
		Use:   "set <key> <json-value>",
		Short: "Write a raw JSON value under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !json.Valid([]byte(args[1])) {
				return fmt.Errorf("value is not valid JSON")
			}
			return withApp(func(ctx context.Context, app *bootstrap.App) error {
				ttl := time.Duration(ttlFlag) * time.Second
				return app.Engine().SetTTL(ctx, args[0], []byte(args[1]), ttl)
			})
		},
	}
	setCmd.Flags().IntVar(&ttlFlag, "ttl", 0, "TTL in seconds (0 uses tier defaults)")
	rootCmd.AddCommand(setCmd)

	delCmd := &cobra.Command{
		Use:   "del <key>",
		Short: "Delete a key from every tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *bootstrap.App) error {
				return app.Engine().Delete(ctx, args[0])
			})
		},
	}
	rootCmd.AddCommand(delCmd)

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Bulk-delete expired rows from the durable tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *bootstrap.App) error {
				n, err := app.Engine().PurgeExpired(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("purged %d rows\n", n)
				return nil
			})
		},
	}
	rootCmd.AddCommand(purgeCmd)

	customerCmd := &cobra.Command{
		Use:   "customer <chatId> <chatTitle>",
		Short: "Resolve the customer for a chat, creating it in Unthread on a miss",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chatID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid chat id: %s", args[0])
			}
			return withApp(func(ctx context.Context, app *bootstrap.App) error {
				cfg, err := config.New()
				if err != nil {
					return err
				}
				ut := unthread.NewClient(cfg.UnthreadBaseURL, cfg.UnthreadAPIKey)
				c, ok := app.Store().GetOrCreateCustomer(ctx, chatID, args[1], ut.CreateCustomer)
				if !ok {
					return fmt.Errorf("customer resolution failed for chat %d", chatID)
				}
				out, err := json.MarshalIndent(c, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			})
		},
	}
	rootCmd.AddCommand(customerCmd)

	adminsCmd := &cobra.Command{
		Use:   "admins",
		Short: "List all registered admin profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *bootstrap.App) error {
				profiles := app.Store().GetAllAdminProfiles(ctx)
				out, err := json.MarshalIndent(profiles, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			})
		},
	}
	rootCmd.AddCommand(adminsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func withApp(fn func(ctx context.Context, app *bootstrap.App) error) error {
	ctx := context.Background()
	log := logger.New("botstorectl")

	opts := bootstrap.Options{RedisAddr: redisFlag, Logger: log}
	switch {
	case dsnFlag != "":
		opts.Durable = bootstrap.WithPostgresDSN(dsnFlag)
	case sqliteFlag != "":
		opts.Durable = bootstrap.WithSQLitePath(sqliteFlag)
	}

	manager := bootstrap.NewManager()
	app, err := manager.Init(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = manager.Shutdown(context.Background()) }()

	return fn(ctx, app)
}
