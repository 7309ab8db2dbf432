package ingest

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/fakestore-raw-loader/internal/domain/raw"
	"github.com/xenking/fakestore-raw-loader/internal/source"
)

const (
	currencyUSD = "USD"
	skuPrefix   = "SKU-"
)

// loadProducts lands products and their distinct categories, and returns
// the price book used to value order items.
func (s *Service) loadProducts(ctx context.Context, res *Result) (source.PriceBook, error) {
	lg := zctx.From(ctx)
	lg.Info("Loading products")

	products, prices, err := s.source.Products(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load products")
	}

	seen := make(map[string]struct{})
	for _, p := range products {
		if err := s.writer.InsertProduct(ctx, productRow(s.lineage(res, source.SourceSystem, p.Raw), p)); err != nil {
			return nil, errors.Wrapf(err, "load product %s", p.ID)
		}
		s.written(ctx, res, raw.TableProducts)

		if p.Category == nil || *p.Category == "" {
			continue
		}
		name := *p.Category
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		if err := s.writer.InsertCategory(ctx, categoryRow(s.lineage(res, source.SourceSystem, nil), name)); err != nil {
			return nil, errors.Wrapf(err, "load category %q", name)
		}
		s.written(ctx, res, raw.TableCategories)
	}

	lg.Info("Products loaded",
		zap.Int("products", len(products)),
		zap.Int("categories", len(seen)),
	)
	return prices, nil
}

func productRow(l raw.Lineage, p source.Product) *raw.Product {
	return &raw.Product{
		Lineage:            l,
		SourceProductID:    p.ID,
		SKU:                skuPrefix + p.ID,
		ProductName:        p.Title,
		ProductDescription: p.Description,
		CategoryCode:       p.Category,
		BasePrice:          p.Price.String(),
		CurrencyCode:       currencyUSD,
		IsActive:           "true",
	}
}

// categoryRow builds a flat category keyed by its name.
func categoryRow(l raw.Lineage, name string) *raw.Category {
	l.Payload = encodeObject(field{"category", name})
	return &raw.Category{
		Lineage:          l,
		SourceCategoryID: name,
		CategoryName:     name,
	}
}
