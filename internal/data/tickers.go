package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Ticker is one entry of the watchlist offered to API clients.
type Ticker struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange,omitempty"`
}

// Watchlist is the on-disk list of tickers.
type Watchlist struct {
	UpdatedAt string   `json:"updated_at"` // ISO 8601 timestamp
	Tickers   []Ticker `json:"tickers"`
}

// LoadWatchlist loads tickers from a JSON file
func LoadWatchlist(filePath string) (*Watchlist, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read watchlist file: %w", err)
	}

	var list Watchlist
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse watchlist file: %w", err)
	}
	for i := range list.Tickers {
		list.Tickers[i].Symbol = NormalizeTicker(list.Tickers[i].Symbol)
	}
	return &list, nil
}

// SaveWatchlist saves tickers to a JSON file
func SaveWatchlist(list *Watchlist, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal watchlist: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write watchlist file: %w", err)
	}
	return nil
}

// DefaultWatchlistPath returns TICKERS_FILE or ./data/tickers.json.
func DefaultWatchlistPath() string {
	if path := os.Getenv("TICKERS_FILE"); path != "" {
		return path
	}
	return "./data/tickers.json"
}
