package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RunSummary records the shape of the last completed run per contract.
type RunSummary struct {
	Contract    string `json:"contract"`
	StartID     uint64 `json:"start_id"`
	EndID       uint64 `json:"end_id"`
	Owned       int    `json:"owned"`
	Absent      int    `json:"absent"`
	Failed      int    `json:"failed"`
	CompletedAt int64  `json:"completed_at"`
}

// GetAppDataDir returns the application data directory, creating it when
// missing. SNAPSHOT_DATA_DIR overrides the default under the home dir.
func GetAppDataDir() (string, error) {
	if dir := os.Getenv("SNAPSHOT_DATA_DIR"); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create app data directory: %w", err)
		}
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	appDataDir := filepath.Join(homeDir, ".nft-snapshot")
	if err := os.MkdirAll(appDataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create app data directory: %w", err)
	}

	return appDataDir, nil
}

func summaryFilePath(contract string) (string, error) {
	appDataDir, err := GetAppDataDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(appDataDir, fmt.Sprintf("%s_summary.json", strings.ToLower(contract))), nil
}

// SaveRunSummary persists the summary of a completed run for its contract.
func SaveRunSummary(summary RunSummary) error {
	filePath, err := summaryFilePath(summary.Contract)
	if err != nil {
		return err
	}

	jsonData, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	if err := os.WriteFile(filePath, jsonData, 0600); err != nil {
		return fmt.Errorf("failed to write run summary: %w", err)
	}

	return nil
}

// LoadRunSummary returns the last saved summary for a contract, or nil when
// no run has completed yet.
func LoadRunSummary(contract string) (*RunSummary, error) {
	filePath, err := summaryFilePath(contract)
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(filePath); os.IsNotExist(statErr) {
		return nil, nil
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read run summary: %w", err)
	}

	var summary RunSummary
	if err := json.Unmarshal(fileData, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run summary: %w", err)
	}

	return &summary, nil
}
