package main

import (
	"fmt"
	"os"
	"path/filepath"

	"shelf-go/internal/app"
	"shelf-go/internal/config"
	"shelf-go/internal/shelf"

	"github.com/spf13/cobra"
)

func main() {
	if err := app.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readConfig loads the config file named by the defaults.
func readConfig() (*config.Config, map[string]string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults, nil
}

// newApp reads the config and creates a ShelfApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "AddBook", "Stats").
func newApp(operation string) (*app.ShelfApp, error) {
	cfg, _, err := readConfig()
	if err != nil {
		return nil, err
	}

	passphrase := app.PassphraseSource(cfg.Encryption.PassphraseEnv, os.Stdin, os.Stderr)
	a, err := app.NewShelfApp(cfg, operation, passphrase)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// withService runs fn against a freshly wired library service and records
// its outcome on the operation.
func withService(operation string, fn func(svc *shelf.LibraryService) error) error {
	a, err := newApp(operation)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := fn(a.Service()); err != nil {
		a.Fail(err)
		return err
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:          "shelf",
	Short:        "Personal philosophy library tracker",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		storage, _ := cmd.Flags().GetString("storage")
		encrypt, _ := cmd.Flags().GetBool("encrypt")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		switch storage {
		case "filesystem":
		case "sqlite":
			cfg.Storage = config.StorageConfig{Type: "sqlite", Path: filepath.Join(defaults["base_dir"], "library.db")}
		default:
			return fmt.Errorf("unsupported storage %q (use filesystem or sqlite)", storage)
		}

		if encrypt {
			passphrase, err := app.ReadNewPassphrase(os.Stdin, os.Stderr)
			if err != nil {
				return err
			}
			if err := app.SetupEncryption(cfg.Encryption, passphrase); err != nil {
				return err
			}
			cfg.Encryption.Enabled = true
		}

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		fmt.Printf("Storage:  %s\n", cfg.Storage.Type)
		if encrypt {
			fmt.Printf("Keys:     %s\n", cfg.Encryption.PublicKeyPath)
		}
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, defaults, err := readConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Log Level:  %s\n", cfg.LogLevel)
		fmt.Printf("Storage:    %s\n", cfg.Storage.Type)
		switch cfg.Storage.Type {
		case "filesystem":
			fmt.Printf("Data Dir:   %s\n", cfg.Storage.Dir)
		case "sqlite":
			fmt.Printf("Database:   %s\n", cfg.Storage.Path)
		}
		fmt.Printf("Encrypted:  %t\n", cfg.Encryption.Enabled)
		return nil
	},
}

// seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill an empty library with sample books",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService("SeedSampleData", func(svc *shelf.LibraryService) error {
			seeded, err := svc.SeedSampleData()
			if err != nil {
				return err
			}
			if seeded {
				fmt.Println("Sample library created.")
			} else {
				fmt.Println("Library already has books; nothing seeded.")
			}
			return nil
		})
	},
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the sqlite library schema",
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := readConfig()
		if err != nil {
			return err
		}

		st, err := app.DatabaseStatus(cfg.Storage)
		if err != nil {
			return err
		}

		fmt.Printf("Version: %d (latest %d)\n", st.Version, st.Latest)
		if err := st.Err(); err != nil {
			fmt.Printf("Status:  %v\n", err)
		} else {
			fmt.Println("Status:  up to date")
		}
		return nil
	},
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := readConfig()
		if err != nil {
			return err
		}

		st, err := app.MigrateDatabase(cfg.Storage)
		if err != nil {
			return err
		}

		fmt.Printf("Database at version %d\n", st.Version)
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().String("storage", "filesystem", "Storage backend: filesystem or sqlite")
	configInitCmd.Flags().Bool("encrypt", false, "Encrypt the library with a passphrase-protected key")

	streakCmd.AddCommand(streakResetCmd)

	// db subcommands
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbMigrateCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(dbCmd)
}
