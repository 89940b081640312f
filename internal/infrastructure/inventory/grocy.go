// Package inventory provides the household stock feed adapter
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/pantrypilot/v1/internal/domain/pantry"
	"github.com/pantrypilot/v1/internal/infrastructure/config"
	"github.com/pantrypilot/v1/internal/ports/outbound"
	"github.com/pantrypilot/v1/pkg/errors"
)

// Household stock feeds track cleaning supplies next to groceries.
// Entries carrying these words never reach the matcher.
var nonFoodKeywords = []string{
	"detergent", "soap", "cleaner", "toilet", "paper", "towel", "napkin",
	"plate", "cup", "fork", "spoon", "knife", "dish", "sponge", "trash",
	"bag", "container", "battery", "bulb", "light", "pen", "pencil",
	"marker", "tape", "glue", "scissors", "tool", "wrench", "screwdriver",
}

// GrocyProvider fetches current stock from a Grocy-compatible API.
// The feed's db-changed-time endpoint lets unchanged stock be served
// from the last snapshot without refetching.
type GrocyProvider struct {
	cfg        *config.InventoryConfig
	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.Mutex
	lastChanged string
	snapshot    []pantry.Item
}

type stockEntry struct {
	ProductID      int     `json:"product_id"`
	Amount         float64 `json:"amount"`
	BestBeforeDate string  `json:"best_before_date"`
	Product        struct {
		Name string `json:"name"`
		Unit string `json:"qu_id_stock_name,omitempty"`
	} `json:"product"`
}

// NewGrocyProvider creates the stock feed adapter
func NewGrocyProvider(cfg *config.InventoryConfig, logger *zap.Logger) outbound.InventoryProvider {
	return &GrocyProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger.Named("grocy-inventory"),
	}
}

// FetchItems returns in-stock food items. Zero-quantity entries and
// recognizable non-food items are dropped; raw names are preserved on
// the returned items.
func (p *GrocyProvider) FetchItems(ctx context.Context) ([]pantry.Item, error) {
	changed := p.changedTime(ctx)
	if changed != "" {
		p.mu.Lock()
		if changed == p.lastChanged && p.snapshot != nil {
			items := append([]pantry.Item(nil), p.snapshot...)
			p.mu.Unlock()
			p.logger.Debug("Inventory unchanged, serving snapshot",
				zap.Int("food_items", len(items)))
			return items, nil
		}
		p.mu.Unlock()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/stock", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("GROCY-API-KEY", p.cfg.APIKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewExternalServiceError("inventory", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.NewExternalServiceError("inventory",
			fmt.Errorf("stock endpoint returned %d: %s", resp.StatusCode, body))
	}

	var entries []stockEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, errors.NewExternalServiceError("inventory", fmt.Errorf("decode stock: %w", err))
	}

	items := make([]pantry.Item, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.Amount <= 0 || entry.Product.Name == "" {
			continue
		}
		if isNonFood(entry.Product.Name) {
			continue
		}
		item := pantry.NewItem(entry.Product.Name, entry.Amount, entry.Product.Unit)
		if seen[item.NormalizedName] {
			continue
		}
		seen[item.NormalizedName] = true
		items = append(items, item)
		if p.cfg.MaxIngredients > 0 && len(items) == p.cfg.MaxIngredients {
			break
		}
	}

	if changed != "" {
		p.mu.Lock()
		p.lastChanged = changed
		p.snapshot = append([]pantry.Item(nil), items...)
		p.mu.Unlock()
	}

	p.logger.Debug("Inventory fetched",
		zap.Int("stock_entries", len(entries)),
		zap.Int("food_items", len(items)),
	)
	return items, nil
}

// changedTime asks the feed when its data last changed. Best effort:
// any failure just forces a full fetch.
func (p *GrocyProvider) changedTime(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/system/db-changed-time", nil)
	if err != nil {
		return ""
	}
	req.Header.Set("GROCY-API-KEY", p.cfg.APIKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var payload struct {
		ChangedTime string `json:"changed_time"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return payload.ChangedTime
}

func isNonFood(name string) bool {
	lowered := strings.ToLower(name)
	for _, keyword := range nonFoodKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
