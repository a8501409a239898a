package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Config captures the deployment-level knobs of the bed-management core. The
// system has no environment-variable or command-line surface, so configuration
// comes from an optional local JSON file next to the data.
type Config struct {
	SQLiteDSN          string `json:"sqliteDsn"`
	HistoryLimit       int    `json:"historyLimit"`
	ReportHistoryLimit int    `json:"reportHistoryLimit"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		SQLiteDSN:          "file:hosteldesk.db?_busy_timeout=5000",
		HistoryLimit:       30,
		ReportHistoryLimit: 50,
	}
}

// Load reads the configuration file at path, applying defaults for absent
// fields. A missing file is not an error; a malformed one is. Invalid values
// are accumulated and reported together.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var file struct {
		SQLiteDSN          *string `json:"sqliteDsn"`
		HistoryLimit       *int    `json:"historyLimit"`
		ReportHistoryLimit *int    `json:"reportHistoryLimit"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	invalid := make([]string, 0, 2)

	if file.SQLiteDSN != nil {
		if dsn := strings.TrimSpace(*file.SQLiteDSN); dsn == "" {
			invalid = append(invalid, "sqliteDsn")
		} else {
			cfg.SQLiteDSN = dsn
		}
	}
	if file.HistoryLimit != nil {
		if *file.HistoryLimit <= 0 {
			invalid = append(invalid, "historyLimit")
		} else {
			cfg.HistoryLimit = *file.HistoryLimit
		}
	}
	if file.ReportHistoryLimit != nil {
		if *file.ReportHistoryLimit <= 0 {
			invalid = append(invalid, "reportHistoryLimit")
		} else {
			cfg.ReportHistoryLimit = *file.ReportHistoryLimit
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("config: invalid values for: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
