package data

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/marketoracle/oracle/internal/market"
)

// LoadContextJSON reads a market context file. The file mirrors the
// market.Context JSON shape; missing sections simply leave their
// feature families unavailable.
func LoadContextJSON(path string) (*market.Context, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open context file: %w", err)
	}

	var ctx market.Context
	if err := json.Unmarshal(raw, &ctx); err != nil {
		return nil, fmt.Errorf("parse context file: %w", err)
	}
	return &ctx, nil
}
