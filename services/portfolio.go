package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/JBE10/lifeops/cache"
	"github.com/JBE10/lifeops/db"
	"github.com/JBE10/lifeops/models"
)

type AssetInput struct {
	Type        string  `json:"type" validate:"required,oneof=crypto stock"`
	Symbol      string  `json:"symbol" validate:"required,max=16"`
	Name        string  `json:"name" validate:"max=100"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	AvgBuyPrice float64 `json:"avg_buy_price" validate:"gte=0"`
	Currency    string  `json:"currency" validate:"omitempty,len=3,alpha"`
	Exchange    string  `json:"exchange" validate:"max=50"`
	Notes       string  `json:"notes" validate:"max=500"`
}

type AssetPatch struct {
	Name        *string  `json:"name"`
	Quantity    *float64 `json:"quantity"`
	AvgBuyPrice *float64 `json:"avg_buy_price"`
	Exchange    *string  `json:"exchange"`
	Notes       *string  `json:"notes"`
}

type assetRecord struct {
	Name        string  `validate:"max=100"`
	Quantity    float64 `validate:"gte=0"`
	AvgBuyPrice float64 `validate:"gte=0"`
	Exchange    string  `validate:"max=50"`
	Notes       string  `validate:"max=500"`
}

// Quote is a market price supplied by the caller, keyed by symbol.
type Quote struct {
	Price     float64 `json:"price"`
	Change24h float64 `json:"change_24h"`
}

type ValuationRequest struct {
	Prices map[string]Quote `json:"prices"`
}

// Holding is an asset valued at a quote. Priced is false when no quote was
// supplied and the average buy price stood in for it.
type Holding struct {
	models.Asset
	CurrentPrice float64 `json:"current_price"`
	Change24h    float64 `json:"change_24h"`
	CurrentValue float64 `json:"current_value"`
	CostBasis    float64 `json:"cost_basis"`
	PnL          float64 `json:"pnl"`
	PnLPercent   float64 `json:"pnl_percent"`
	Priced       bool    `json:"priced"`
}

type PortfolioTotals struct {
	Crypto     float64 `json:"crypto"`
	Stocks     float64 `json:"stocks"`
	Total      float64 `json:"total"`
	CostBasis  float64 `json:"cost_basis"`
	PnL        float64 `json:"pnl"`
	PnLPercent float64 `json:"pnl_percent"`
}

type Portfolio struct {
	Assets []Holding       `json:"assets"`
	Totals PortfolioTotals `json:"totals"`
}

type PortfolioService struct {
	store  *db.Store
	cache  cache.Cache
	logger *zap.Logger
}

func NewPortfolioService(store *db.Store, c cache.Cache, logger *zap.Logger) *PortfolioService {
	return &PortfolioService{store: store, cache: c, logger: logger}
}

// AddAsset records a buy. Buying a symbol already held merges into the
// position at the weighted average price; created reports a new position.
func (s *PortfolioService) AddAsset(ctx context.Context, ownerID string, in AssetInput) (asset *models.Asset, created bool, err error) {
	in.Symbol = strings.ToUpper(strings.TrimSpace(in.Symbol))
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, false, err
	}

	err = s.store.ForOwner(ownerID).Transaction(ctx, func(tx *db.OwnerScope) error {
		existing, err := tx.FindAssetBySymbol(ctx, in.Type, in.Symbol)
		switch {
		case err == nil:
			MergePosition(existing, in.Quantity, in.AvgBuyPrice)
			if in.Exchange != "" {
				existing.Exchange = in.Exchange
			}
			if in.Notes != "" {
				existing.Notes = in.Notes
			}
			asset = existing
			return tx.UpdateAsset(ctx, existing)
		case errors.Is(err, db.ErrNotFound):
			name := in.Name
			if name == "" {
				name = in.Symbol
			}
			asset = &models.Asset{
				Type:        in.Type,
				Symbol:      in.Symbol,
				Name:        name,
				Quantity:    in.Quantity,
				AvgBuyPrice: in.AvgBuyPrice,
				Currency:    currencyOr(in.Currency, models.DefaultAssetCurrency),
				Exchange:    in.Exchange,
				Notes:       in.Notes,
			}
			created = true
			return tx.CreateAsset(ctx, asset)
		default:
			return err
		}
	})
	if err != nil {
		return nil, false, fromStore(err)
	}

	s.invalidate(ctx, ownerID)
	s.logger.Info("asset_recorded",
		zap.String("owner_id", ownerID),
		zap.String("symbol", asset.Symbol),
		zap.Bool("created", created),
	)
	return asset, created, nil
}

// MergePosition adds qty bought at price to the asset's position.
func MergePosition(a *models.Asset, qty, price float64) {
	total := a.Quantity + qty
	if total > 0 {
		a.AvgBuyPrice = (a.Quantity*a.AvgBuyPrice + qty*price) / total
	}
	a.Quantity = total
}

func (s *PortfolioService) GetAsset(ctx context.Context, ownerID, id string) (*models.Asset, error) {
	asset, err := s.store.ForOwner(ownerID).FindAsset(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}
	return asset, nil
}

// ListAssets returns holdings by type, then symbol.
func (s *PortfolioService) ListAssets(ctx context.Context, ownerID string) ([]models.Asset, error) {
	assets, err := s.store.ForOwner(ownerID).ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	return assets, nil
}

func (s *PortfolioService) UpdateAsset(ctx context.Context, ownerID, id string, patch AssetPatch) (*models.Asset, error) {
	scope := s.store.ForOwner(ownerID)
	asset, err := scope.FindAsset(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}

	if patch.Name != nil {
		asset.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Quantity != nil {
		asset.Quantity = *patch.Quantity
	}
	if patch.AvgBuyPrice != nil {
		asset.AvgBuyPrice = *patch.AvgBuyPrice
	}
	if patch.Exchange != nil {
		asset.Exchange = strings.TrimSpace(*patch.Exchange)
	}
	if patch.Notes != nil {
		asset.Notes = strings.TrimSpace(*patch.Notes)
	}
	if err := validateStruct(assetRecord{
		Name:        asset.Name,
		Quantity:    asset.Quantity,
		AvgBuyPrice: asset.AvgBuyPrice,
		Exchange:    asset.Exchange,
		Notes:       asset.Notes,
	}); err != nil {
		return nil, err
	}

	if err := scope.UpdateAsset(ctx, asset); err != nil {
		return nil, fromStore(err)
	}
	s.invalidate(ctx, ownerID)
	return asset, nil
}

func (s *PortfolioService) DeleteAsset(ctx context.Context, ownerID, id string) error {
	if err := s.store.ForOwner(ownerID).DeleteAsset(ctx, id); err != nil {
		return fromStore(err)
	}
	s.invalidate(ctx, ownerID)
	return nil
}

// Valuation prices every holding with the caller's quotes.
func (s *PortfolioService) Valuation(ctx context.Context, ownerID string, req ValuationRequest) (*Portfolio, error) {
	for symbol, q := range req.Prices {
		if q.Price < 0 {
			return nil, invalid("price for %s must not be negative", symbol)
		}
	}

	assets, err := s.store.ForOwner(ownerID).ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	p := Valuate(assets, req.Prices)
	return &p, nil
}

// Valuate values assets at the given quotes. Symbols are matched
// case-insensitively; an asset without a quote is valued at its average
// buy price.
func Valuate(assets []models.Asset, prices map[string]Quote) Portfolio {
	quotes := make(map[string]Quote, len(prices))
	for symbol, q := range prices {
		quotes[strings.ToUpper(symbol)] = q
	}

	p := Portfolio{Assets: make([]Holding, 0, len(assets))}
	for _, a := range assets {
		h := Holding{Asset: a, CurrentPrice: a.AvgBuyPrice}
		if q, ok := quotes[a.Symbol]; ok {
			h.CurrentPrice, h.Change24h, h.Priced = q.Price, q.Change24h, true
		}
		h.CurrentValue = h.CurrentPrice * a.Quantity
		h.CostBasis = a.AvgBuyPrice * a.Quantity
		h.PnL = h.CurrentValue - h.CostBasis
		h.PnLPercent = percentOf(h.PnL, h.CostBasis)
		p.Assets = append(p.Assets, h)

		switch a.Type {
		case models.AssetCrypto:
			p.Totals.Crypto += h.CurrentValue
		case models.AssetStock:
			p.Totals.Stocks += h.CurrentValue
		}
		p.Totals.Total += h.CurrentValue
		p.Totals.CostBasis += h.CostBasis
	}
	p.Totals.PnL = p.Totals.Total - p.Totals.CostBasis
	p.Totals.PnLPercent = percentOf(p.Totals.PnL, p.Totals.CostBasis)
	return p
}

// percentOf is part/whole as a percentage to two decimals, or 0 for an
// empty whole.
func percentOf(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(part/whole*10000) / 100
}

func (s *PortfolioService) invalidate(ctx context.Context, ownerID string) {
	if err := s.cache.DeletePattern(ctx, cache.ResponsePattern(ownerID, "/api/finance")); err != nil {
		s.logger.Warn("cache_delete_failed", zap.String("owner_id", ownerID), zap.Error(err))
	}
}
