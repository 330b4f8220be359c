package catalog

import (
	"context"
	"errors"

	"rentgrip/internal/domain"
)

// ErrProviderUnavailable is returned while the provider circuit is open
var ErrProviderUnavailable = errors.New("catalog provider unavailable")

// Catalog is what a provider delivers: the items plus the category tree
type Catalog struct {
	Items      []domain.Item         `json:"items" yaml:"items"`
	Categories []domain.CategoryNode `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// Provider fetches a complete catalog
type Provider interface {
	Fetch(ctx context.Context) (Catalog, error)
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func(ctx context.Context) (Catalog, error)

func (f ProviderFunc) Fetch(ctx context.Context) (Catalog, error) {
	return f(ctx)
}

// Static returns a provider that always yields c
func Static(c Catalog) Provider {
	return ProviderFunc(func(ctx context.Context) (Catalog, error) {
		if err := ctx.Err(); err != nil {
			return Catalog{}, err
		}
		return c, nil
	})
}
