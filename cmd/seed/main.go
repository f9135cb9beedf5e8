// Command seed writes sample users and projects into the configured
// document store.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"collabhub/config"
	"collabhub/database"
	"collabhub/database/seed"
	"collabhub/utils"

	firebase "firebase.google.com/go/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var opts seed.Options

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed sample users and projects",
	Long:  `Writes sample users and projects into the document store selected by DOCSTORE_DRIVER.`,
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func init() {
	rootCmd.Flags().IntVar(&opts.Users, "users", 20, "number of users to create")
	rootCmd.Flags().IntVar(&opts.Projects, "projects", 40, "number of projects to create")
	rootCmd.Flags().Int64Var(&opts.Seed, "seed", time.Now().UnixNano(), "random seed")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := utils.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	var app *firebase.App
	if cfg.NeedsFirebase() {
		if app, err = utils.NewFirebaseApp(ctx, cfg); err != nil {
			return err
		}
	}
	store, closeStore, err := database.OpenDocStore(ctx, cfg, app, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	res, err := seed.Run(ctx, store, opts)
	if err != nil {
		return err
	}
	logger.Info("Seed complete",
		zap.Int("users", len(res.UserIDs)),
		zap.Int("projects", len(res.ProjectIDs)),
		zap.String("password", seed.DemoPassword))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
