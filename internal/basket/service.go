package basket

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/UnknownOlympus/harvest/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrItemNotFound    = errors.New("basket item not found")
	ErrAlreadyFavorite = errors.New("product is already a favorite")
)

// Summary is the aggregate shown next to the cart.
type Summary struct {
	CartCount     int             `json:"cart_count"`
	CartTotal     decimal.Decimal `json:"cart_total"`
	FavoriteCount int             `json:"favorite_count"`
}

// Service applies cart and favorites operations. Every operation loads the
// basket, mutates it and saves it back while holding the service lock.
type Service struct {
	mu    sync.Mutex
	repo  Repository
	log   *slog.Logger
	newID func() string
}

// NewService creates a Service persisting baskets through repo.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log, newID: uuid.NewString}
}

// Basket returns the current basket of userID, empty if none was saved.
func (s *Service) Basket(ctx context.Context, userID string) (models.Basket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.Load(ctx, userID)
}

// AddToCart puts quantity units of product into the cart. A quantity below one
// counts as one; a product already in the cart has its quantity increased.
func (s *Service) AddToCart(ctx context.Context, userID string, product models.Product, quantity int) (models.Basket, error) {
	if quantity < 1 {
		quantity = 1
	}

	return s.update(ctx, userID, func(basket *models.Basket) error {
		idx := slices.IndexFunc(basket.Cart, func(item models.CartItem) bool {
			return item.Product.ID == product.ID
		})
		if idx >= 0 {
			basket.Cart[idx].Quantity += quantity
			return nil
		}

		basket.Cart = append(basket.Cart, models.CartItem{ID: s.newID(), Product: product, Quantity: quantity})
		return nil
	})
}

// RemoveFromCart deletes the cart item with itemID.
func (s *Service) RemoveFromCart(ctx context.Context, userID, itemID string) (models.Basket, error) {
	return s.update(ctx, userID, func(basket *models.Basket) error {
		before := len(basket.Cart)
		basket.Cart = slices.DeleteFunc(basket.Cart, func(item models.CartItem) bool { return item.ID == itemID })
		if len(basket.Cart) == before {
			return ErrItemNotFound
		}
		return nil
	})
}

// UpdateQuantity sets the quantity of a cart item; below one removes it.
func (s *Service) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (models.Basket, error) {
	return s.update(ctx, userID, func(basket *models.Basket) error {
		idx := slices.IndexFunc(basket.Cart, func(item models.CartItem) bool { return item.ID == itemID })
		if idx < 0 {
			return ErrItemNotFound
		}

		if quantity < 1 {
			basket.Cart = slices.Delete(basket.Cart, idx, idx+1)
			return nil
		}
		basket.Cart[idx].Quantity = quantity
		return nil
	})
}

// ClearCart empties the cart and keeps the favorites.
func (s *Service) ClearCart(ctx context.Context, userID string) (models.Basket, error) {
	return s.update(ctx, userID, func(basket *models.Basket) error {
		basket.Cart = nil
		return nil
	})
}

// AddFavorite marks product as a favorite. A product can be a favorite once.
func (s *Service) AddFavorite(ctx context.Context, userID string, product models.Product) (models.Basket, error) {
	return s.update(ctx, userID, func(basket *models.Basket) error {
		if containsFavorite(basket.Favorites, product.ID) {
			return ErrAlreadyFavorite
		}

		basket.Favorites = append(basket.Favorites, models.FavoriteItem{ID: s.newID(), Product: product})
		return nil
	})
}

// RemoveFavorite unmarks the product with productID.
func (s *Service) RemoveFavorite(ctx context.Context, userID string, productID int) (models.Basket, error) {
	return s.update(ctx, userID, func(basket *models.Basket) error {
		before := len(basket.Favorites)
		basket.Favorites = slices.DeleteFunc(basket.Favorites, func(item models.FavoriteItem) bool {
			return item.Product.ID == productID
		})
		if len(basket.Favorites) == before {
			return ErrItemNotFound
		}
		return nil
	})
}

// IsFavorite reports whether productID is among the favorites of userID.
func (s *Service) IsFavorite(ctx context.Context, userID string, productID int) (bool, error) {
	basket, err := s.Basket(ctx, userID)
	if err != nil {
		return false, err
	}

	return containsFavorite(basket.Favorites, productID), nil
}

// ClearFavorites removes every favorite and keeps the cart.
func (s *Service) ClearFavorites(ctx context.Context, userID string) (models.Basket, error) {
	return s.update(ctx, userID, func(basket *models.Basket) error {
		basket.Favorites = nil
		return nil
	})
}

// Summary counts cart units, sums price times quantity and counts favorites.
func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	basket, err := s.Basket(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	return Summarize(basket), nil
}

// Summarize computes the Summary of basket.
func Summarize(basket models.Basket) Summary {
	summary := Summary{CartTotal: decimal.Zero, FavoriteCount: len(basket.Favorites)}
	for _, item := range basket.Cart {
		summary.CartCount += item.Quantity
		summary.CartTotal = summary.CartTotal.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return summary
}

func (s *Service) update(ctx context.Context, userID string, mutate func(*models.Basket) error) (models.Basket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	basket, err := s.repo.Load(ctx, userID)
	if err != nil {
		return models.Basket{}, err
	}

	if err = mutate(&basket); err != nil {
		return models.Basket{}, err
	}

	if err = s.repo.Save(ctx, userID, basket); err != nil {
		return models.Basket{}, err
	}

	s.log.DebugContext(ctx, "Basket updated", "user", userID, "cart", len(basket.Cart), "favorites", len(basket.Favorites))

	return basket, nil
}

func containsFavorite(favorites []models.FavoriteItem, productID int) bool {
	return slices.ContainsFunc(favorites, func(item models.FavoriteItem) bool {
		return item.Product.ID == productID
	})
}
