package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	extractionadapters "finnhub_extractor/internal/feature/extraction/adapters"
)

const (
	DefaultLedgerPath = "data/ledger.db"
	connectTimeout    = 2 * time.Second
	retryInterval     = 200 * time.Millisecond
)

// Config はレジャー用データベースの接続設定です。
type Config struct {
	Path string // Empty disables the ledger
}

// LoadConfigFromEnv は環境変数 LEDGER_DB_PATH から設定を読み込みます。
// "off" はレジャーを無効にします。
func LoadConfigFromEnv() Config {
	path, ok := os.LookupEnv("LEDGER_DB_PATH")
	if !ok || path == "" {
		path = DefaultLedgerPath
	}
	if path == "off" {
		path = ""
	}
	return Config{Path: path}
}

// Enabled reports whether a ledger database is configured.
func (c Config) Enabled() bool {
	return c.Path != ""
}

// BuildDSN は SQLite の DSN 文字列を生成します。
func BuildDSN(cfg Config) string {
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", cfg.Path)
}

// ConnectWithRetry は opener を使って接続し、失敗した場合は timeout まで再試行します。
func ConnectWithRetry(dsn string, timeout time.Duration, opener func(string) (*gorm.DB, error)) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		left := time.Until(deadline)
		if left <= 0 {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying...", "error", err)
		time.Sleep(min(retryInterval, left))
	}
}

func openSQLite(dsn string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// OpenLedgerDB opens the ledger database and migrates the run table.
func OpenLedgerDB(cfg Config) (*gorm.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger dir: %w", err)
		}
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), connectTimeout, openSQLite)
	if err != nil {
		return nil, err
	}

	// マイグレーション（extraction_runs）
	if err := db.AutoMigrate(&extractionadapters.RunModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	slog.Info("ledger database ready", "path", cfg.Path)
	return db, nil
}
