// Copyright (c) 2025 ToeiRei
// Loadmaster - batch order data loader
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for Loadmaster using the Cobra
// library. It defines the root command, the load and init-schema
// subcommands, flags, and the entry point for execution.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/toeirei/loadmaster/internal/config"
	"github.com/toeirei/loadmaster/internal/db"
	"github.com/toeirei/loadmaster/internal/load"
	"github.com/toeirei/loadmaster/internal/logging"
	"github.com/toeirei/loadmaster/internal/table"
)

var version = "dev" // set by the linker

var cfgFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// The error is already printed by Cobra on failure.
		os.Exit(1)
	}
}

// newRootCmd creates and configures a new root cobra command. Fresh
// instances are also used for isolated tests.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loadmaster",
		Short: "Loadmaster appends cleaned order data to a relational database.",
		Long: `Loadmaster is the loading stage of the order data pipeline.
It creates the customers, orders_fact and order_items tables if they are
absent and appends rows from cleaned tabular inputs in fixed-size batches.
Loads are append-only: re-running against already-loaded data fails on the
duplicate keys instead of merging.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newLoadCmd())
	cmd.AddCommand(newInitSchemaCmd())
	cmd.AddCommand(newInitConfigCmd())

	cmd.Version = version

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is loadmaster.yaml in the user config dir or current dir)")
	cmd.PersistentFlags().String("db-type", "", "database type (mysql, sqlite, postgres)")
	cmd.PersistentFlags().String("db-dsn", "", "database connection string (DSN)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	return cmd
}

// openStore resolves configuration for the invocation and opens the database
// handle the subcommand will use.
func openStore(cmd *cobra.Command) (*db.BunStore, config.Config, error) {
	cfg, err := config.Load(cmd, cfgFile)
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Flag names differ from config keys; apply explicit flag overrides.
	if v, _ := cmd.Flags().GetString("db-type"); v != "" {
		cfg.Database.Type = v
	}
	if v, _ := cmd.Flags().GetString("db-dsn"); v != "" {
		cfg.Database.DSN = v
	}

	logging.SetDebug(cfg.Debug)
	db.SetDebug(cfg.Debug)

	if cfg.Database.DSN == "" {
		return nil, cfg, fmt.Errorf("no database DSN configured (set database.dsn, LOADMASTER_DATABASE_DSN, or --db-dsn)")
	}

	store, err := db.NewStoreFromDSN(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		return nil, cfg, err
	}
	store.SetBatchSize(cfg.Load.BatchSize)
	return store, cfg, nil
}

func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <customers.csv> <orders_raw.csv> <orders_order_level.csv>",
		Short: "Append cleaned customer and order data to the database",
		Long: `Reads the three cleaned inputs (customers, raw line items, and the
order-level aggregate) and appends them to the database, creating the
tables first if they don't exist. Inputs may be gzip-compressed (.csv.gz).`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			customers, err := table.ReadCSV(args[0])
			if err != nil {
				return err
			}
			ordersRaw, err := table.ReadCSV(args[1])
			if err != nil {
				return err
			}
			ordersOrderLevel, err := table.ReadCSV(args[2])
			if err != nil {
				return err
			}

			store, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			res, err := load.RunTableLoad(cmd.Context(), store, customers, ordersRaw, ordersOrderLevel)
			if err != nil {
				logging.Errorf("load failed: %v", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d customers, %d orders, %d line items\n", res.Customers, res.Orders, res.Items)
			return nil
		},
	}
}

func newInitConfigCmd() *cobra.Command {
	var system bool
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write the resolved configuration to a loadmaster.yaml",
		Long: `Resolves the configuration from flags, environment and any existing
config file, then persists it so subsequent runs have a file to inspect
and edit. Writes to the user config directory by default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if v, _ := cmd.Flags().GetString("db-type"); v != "" {
				cfg.Database.Type = v
			}
			if v, _ := cmd.Flags().GetString("db-dsn"); v != "" {
				cfg.Database.DSN = v
			}

			if err := config.WriteConfigFile(&cfg, system); err != nil {
				return fmt.Errorf("could not write config file: %w", err)
			}
			path, err := config.Path(system)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&system, "system", false, "write to the system config location instead of the user one")
	return cmd
}

func newInitSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-schema",
		Short: "Create the load target tables if they don't exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.InitSchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "tables verified/created")
			return nil
		},
	}
}
