package config

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStorage persists per-tenant gateway credentials
type SQLiteStorage struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStorage opens (or creates) the credential database
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// WAL keeps readers from blocking the writer when several replicas share the file
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_timeout=20000&_txlock=immediate", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	storage := &SQLiteStorage{
		db:   db,
		path: dbPath,
	}

	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS gateway_credentials (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tenant_id TEXT NOT NULL,
		provider_name TEXT NOT NULL,
		config_data TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(tenant_id, provider_name)
	);

	CREATE INDEX IF NOT EXISTS idx_tenant_provider ON gateway_credentials(tenant_id, provider_name);
	`

	_, err := s.db.Exec(query)
	return err
}

// retryOperation executes a database operation with retry for SQLITE_BUSY errors
func (s *SQLiteStorage) retryOperation(operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		if strings.Contains(err.Error(), "SQLITE_BUSY") || strings.Contains(err.Error(), "database is locked") {
			lastErr = err
			if attempt < maxRetries {
				backoff := time.Duration(10*(1<<attempt)) * time.Millisecond
				time.Sleep(backoff)
				continue
			}
		} else {
			return err
		}
	}

	return fmt.Errorf("operation failed after %d retries, last error: %w", maxRetries+1, lastErr)
}

// SaveTenantConfig saves a tenant's gateway configuration
func (s *SQLiteStorage) SaveTenantConfig(tenantID, providerName string, config map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	configJSON, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return s.retryOperation(func() error {
		query := `
		INSERT INTO gateway_credentials (tenant_id, provider_name, config_data, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(tenant_id, provider_name)
		DO UPDATE SET
			config_data = excluded.config_data,
			updated_at = CURRENT_TIMESTAMP
		`

		if _, err := s.db.Exec(query, tenantID, providerName, string(configJSON)); err != nil {
			return fmt.Errorf("failed to save tenant config: %w", err)
		}
		return nil
	}, 3)
}

// LoadTenantConfig loads a tenant's gateway configuration
func (s *SQLiteStorage) LoadTenantConfig(tenantID, providerName string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config map[string]string
	err := s.retryOperation(func() error {
		query := `
		SELECT config_data
		FROM gateway_credentials
		WHERE tenant_id = ? AND provider_name = ?
		`

		var configJSON string
		err := s.db.QueryRow(query, tenantID, providerName).Scan(&configJSON)
		if err != nil {
			if err == sql.ErrNoRows {
				return fmt.Errorf("no configuration found for tenant: %s, provider: %s", tenantID, providerName)
			}
			return fmt.Errorf("failed to load tenant config: %w", err)
		}

		if err := json.Unmarshal([]byte(configJSON), &config); err != nil {
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
		return nil
	}, 3)

	return config, err
}

// LoadAllTenantConfigs loads every stored tenant configuration, keyed by
// "<tenantID>_<providerName>"
func (s *SQLiteStorage) LoadAllTenantConfigs() (map[string]map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var configs map[string]map[string]string
	err := s.retryOperation(func() error {
		rows, err := s.db.Query(`SELECT tenant_id, provider_name, config_data FROM gateway_credentials ORDER BY tenant_id, provider_name`)
		if err != nil {
			return fmt.Errorf("failed to query tenant configs: %w", err)
		}
		defer rows.Close()

		configs = make(map[string]map[string]string)

		for rows.Next() {
			var tenantID, providerName, configJSON string
			if err := rows.Scan(&tenantID, &providerName, &configJSON); err != nil {
				return fmt.Errorf("failed to scan row: %w", err)
			}

			var config map[string]string
			if err := json.Unmarshal([]byte(configJSON), &config); err != nil {
				log.Printf("Warning: failed to unmarshal config for tenant %s, provider %s: %v", tenantID, providerName, err)
				continue
			}

			configs[tenantKey(tenantID, providerName)] = config
		}

		return rows.Err()
	}, 3)

	if err != nil {
		return nil, err
	}
	return configs, nil
}

// DeleteTenantConfig deletes a tenant's gateway configuration
func (s *SQLiteStorage) DeleteTenantConfig(tenantID, providerName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.retryOperation(func() error {
		result, err := s.db.Exec(`DELETE FROM gateway_credentials WHERE tenant_id = ? AND provider_name = ?`, tenantID, providerName)
		if err != nil {
			return fmt.Errorf("failed to delete tenant config: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("no configuration found for tenant: %s, provider: %s", tenantID, providerName)
		}
		return nil
	}, 3)
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
