package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nastyazhadan/restaurant-order/internal/config"
	"github.com/nastyazhadan/restaurant-order/internal/domain/models"
	repositoryErrors "github.com/nastyazhadan/restaurant-order/shared/errors/repository"
	serviceErrors "github.com/nastyazhadan/restaurant-order/shared/errors/service"
)

type CatalogReader interface {
	GetLocation(ctx context.Context, id string) (models.Location, error)
	// GetMenuItems returns the records found among ids; unknown ids are
	// simply absent from the result.
	GetMenuItems(ctx context.Context, ids []string) ([]models.MenuItem, error)
}

// NonCatalogPolicy decides what happens to lines whose id is not in the menu.
type NonCatalogPolicy struct {
	Mode     string
	PriceCap decimal.Decimal
}

// Pricing is the server-side view of an order request.
type Pricing struct {
	Location    models.Location
	Items       []models.OrderItem
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

type Resolver struct {
	catalog CatalogReader
	policy  NonCatalogPolicy
}

func NewResolver(catalog CatalogReader, policy NonCatalogPolicy) *Resolver {
	return &Resolver{
		catalog: catalog,
		policy:  policy,
	}
}

// Resolve prices every requested line against the catalog. Client prices
// are used only for lines the catalog does not know, subject to the policy.
func (r *Resolver) Resolve(ctx context.Context, request models.PlaceOrder) (Pricing, error) {
	const op = "Resolver.Resolve"

	location, err := r.checkLocation(ctx, request.LocationID, request.Type)
	if err != nil {
		return Pricing{}, fmt.Errorf("%s: %w", op, err)
	}

	menu, err := r.fetchMenu(ctx, request.Items)
	if err != nil {
		return Pricing{}, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]models.OrderItem, 0, len(request.Items))
	subtotal := decimal.Zero

	for _, requested := range request.Items {
		item, err := r.resolveLine(requested, menu)
		if err != nil {
			return Pricing{}, fmt.Errorf("%s: %w", op, err)
		}

		items = append(items, item)
		subtotal = subtotal.Add(item.LineTotal)
	}

	deliveryFee := decimal.Zero
	if request.Type == models.OrderTypeDelivery {
		deliveryFee = location.DeliveryFee.Round(2)
	}

	return Pricing{
		Location:    location,
		Items:       items,
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Total:       subtotal.Add(deliveryFee),
	}, nil
}

func (r *Resolver) checkLocation(ctx context.Context, id string, orderType models.OrderType) (models.Location, error) {
	location, err := r.catalog.GetLocation(ctx, id)
	if err != nil {
		if errors.Is(err, repositoryErrors.ErrLocationNotFound) {
			return models.Location{}, serviceErrors.ErrInvalidLocation
		}

		return models.Location{}, err
	}

	if !location.IsAcceptingOrders {
		return models.Location{}, serviceErrors.ErrLocationClosed
	}

	if orderType == models.OrderTypeDelivery && !location.DeliveryEnabled {
		return models.Location{}, serviceErrors.ErrDeliveryUnavailable
	}

	return location, nil
}

// fetchMenu loads all referenced menu items with one catalog call.
func (r *Resolver) fetchMenu(ctx context.Context, requested []models.RequestedItem) (map[string]models.MenuItem, error) {
	ids := make([]string, 0, len(requested))
	seen := make(map[string]struct{}, len(requested))

	for _, item := range requested {
		if _, ok := seen[item.ItemID]; ok {
			continue
		}
		seen[item.ItemID] = struct{}{}
		ids = append(ids, item.ItemID)
	}

	records, err := r.catalog.GetMenuItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	menu := make(map[string]models.MenuItem, len(records))
	for _, record := range records {
		menu[record.ID] = record
	}

	return menu, nil
}

func (r *Resolver) resolveLine(requested models.RequestedItem, menu map[string]models.MenuItem) (models.OrderItem, error) {
	quantity := decimal.NewFromInt(int64(requested.Quantity))

	if record, ok := menu[requested.ItemID]; ok {
		if !record.Available {
			return models.OrderItem{}, &serviceErrors.ItemUnavailableError{ItemName: record.Name}
		}

		menuItemID := record.ID
		unitPrice := record.Price.Round(2)

		return models.OrderItem{
			MenuItemID:    &menuItemID,
			ItemName:      record.Name,
			UnitPrice:     unitPrice,
			Quantity:      requested.Quantity,
			LineTotal:     unitPrice.Mul(quantity).Round(2),
			CatalogBacked: true,
		}, nil
	}

	unitPrice := requested.ClientPrice.Round(2)

	switch r.policy.Mode {
	case config.NonCatalogReject:
		return models.OrderItem{}, &serviceErrors.ItemPriceRejectedError{
			ItemName: requested.Name,
			Reason:   "item is not on the menu",
		}
	case config.NonCatalogCap:
		if unitPrice.GreaterThan(r.policy.PriceCap) {
			return models.OrderItem{}, &serviceErrors.ItemPriceRejectedError{
				ItemName: requested.Name,
				Reason:   "price exceeds " + r.policy.PriceCap.StringFixed(2),
			}
		}
	}

	return models.OrderItem{
		ItemName:      requested.Name,
		UnitPrice:     unitPrice,
		Quantity:      requested.Quantity,
		LineTotal:     unitPrice.Mul(quantity).Round(2),
		CatalogBacked: false,
	}, nil
}
