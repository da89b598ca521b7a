package app

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"shelf-go/internal/backend"
	"shelf-go/internal/backend/migrations"
	"shelf-go/internal/config"
	"shelf-go/internal/encryption"
	"shelf-go/internal/shelf"
)

// ShelfApp is the application layer between the CLI and LibraryService.
// It constructs all dependencies from config, exposes the service, and
// closes the backend and log file on Close.
type ShelfApp struct {
	cfg     *config.Config
	backend shelf.Backend
	service *shelf.LibraryService
	logger  *slogAdapter
	op      *Operation
	logFile *os.File
}

// NewShelfApp creates a fully wired ShelfApp from the given config.
// operation identifies the CLI command being run (e.g. "AddBook", "Stats").
// passphrase is only consulted when encryption is enabled and a stored
// collection has to be read. The caller must call Close when done.
func NewShelfApp(cfg *config.Config, operation string, passphrase encryption.PassphraseFunc) (*ShelfApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	op := NewOperation(operation, time.Now())
	logger, logFile, err := newLogger(cfg.LogDir, op.ID, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	adapter := &slogAdapter{l: logger}

	raw, err := backend.NewBackendFromConfig(cfg.Storage)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating backend: %w", err)
	}

	b := raw
	if cfg.Encryption.Enabled {
		enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
		if err != nil {
			raw.Close()
			logFile.Close()
			return nil, fmt.Errorf("creating encryptor: %w", err)
		}
		b, err = encryption.NewEncryptedBackend(raw, enc, passphrase)
		if err != nil {
			raw.Close()
			logFile.Close()
			return nil, err
		}
	}

	store := shelf.NewStore(b, cfg.Storage.KeyPrefix, adapter)
	svc := shelf.NewLibraryService(store, adapter, shelf.RealClock{}, shelf.UUIDGenerator{})

	adapter.Debug("operation started", "operation", op.Name, "storage", cfg.Storage.Type, "encrypted", cfg.Encryption.Enabled)

	return &ShelfApp{
		cfg:     cfg,
		backend: b,
		service: svc,
		logger:  adapter,
		op:      op,
		logFile: logFile,
	}, nil
}

// Service returns the library service.
func (a *ShelfApp) Service() *shelf.LibraryService {
	return a.service
}

// Config returns the config the app was built from.
func (a *ShelfApp) Config() *config.Config {
	return a.cfg
}

// Fail marks the current operation as failed; Close logs the outcome.
func (a *ShelfApp) Fail(err error) {
	a.op.Fail()
	a.logger.Error("operation failed", "operation", a.op.Name, "error", err)
}

// Close logs the operation outcome and closes the backend and log file.
func (a *ShelfApp) Close() error {
	var firstErr error

	if err := a.backend.Close(); err != nil {
		firstErr = fmt.Errorf("closing backend: %w", err)
	}

	a.logger.Debug("operation finished",
		"operation", a.op.Name,
		"status", a.op.Status,
		"duration", a.op.Duration(time.Now()).Truncate(time.Millisecond),
	)

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}

// SetupEncryption generates the key pair named in cfg, protecting the
// private key with passphrase.
func SetupEncryption(cfg config.EncryptionConfig, passphrase string) error {
	enc, err := encryption.NewEncryptorFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	if enc.IsConfigured() {
		return fmt.Errorf("encryption keys already exist at %s", cfg.PrivateKeyPath)
	}
	if err := enc.Setup(passphrase); err != nil {
		return fmt.Errorf("setting up encryption: %w", err)
	}
	return nil
}

// DatabaseStatus reports the schema version of the sqlite library named in
// cfg without migrating it.
func DatabaseStatus(cfg config.StorageConfig) (migrations.Status, error) {
	db, err := openSQLite(cfg)
	if err != nil {
		return migrations.Status{}, err
	}
	defer db.Close()

	return migrations.GetStatus(db)
}

// MigrateDatabase applies pending migrations to the sqlite library named in
// cfg and returns the resulting status.
func MigrateDatabase(cfg config.StorageConfig) (migrations.Status, error) {
	db, err := openSQLite(cfg)
	if err != nil {
		return migrations.Status{}, err
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		return migrations.Status{}, err
	}
	return migrations.GetStatus(db)
}

func openSQLite(cfg config.StorageConfig) (*sql.DB, error) {
	if cfg.Type != "sqlite" {
		return nil, fmt.Errorf("storage type %q has no database schema", cfg.Type)
	}
	return backend.OpenConnection(cfg.Path)
}
