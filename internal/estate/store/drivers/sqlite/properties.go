package sqlite

import (
	"context"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/store/drivers/sqlite/gen"
)

type propertiesRepo struct {
	q *gen.Queries
}

func (r *propertiesRepo) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	row, err := r.q.GetProperty(ctx, id)
	if err != nil {
		return domain.Property{}, classify(err)
	}
	return mapProperty(row), nil
}

func (r *propertiesRepo) ListProperties(ctx context.Context) ([]domain.Property, error) {
	rows, err := r.q.ListProperties(ctx)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]domain.Property, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapProperty(row))
	}
	return out, nil
}

func (r *propertiesRepo) CreateProperty(ctx context.Context, p domain.Property) error {
	return classify(r.q.CreateProperty(ctx, gen.CreatePropertyParams{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Type:          p.Type,
		ImageUrls:     encodeImageURLs(p.ImageURLs),
		City:          p.City,
		State:         p.State,
		Country:       p.Country,
		Sqft:          int64(p.Sqft),
		Bedrooms:      int64(p.Bedrooms),
		Bathrooms:     int64(p.Bathrooms),
		RegularPrice:  p.RegularPrice,
		DiscountPrice: p.DiscountPrice,
		Furnished:     p.Furnished,
		Parking:       p.Parking,
		OwnerName:     p.Owner.Name,
		OwnerEmail:    p.Owner.Email,
		OwnerPhone:    p.Owner.Phone,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt.UTC(),
		UpdatedAt:     p.UpdatedAt.UTC(),
	}))
}

func (r *propertiesRepo) UpdateProperty(ctx context.Context, p domain.Property) error {
	return affected(r.q.UpdateProperty(ctx, gen.UpdatePropertyParams{
		Title:         p.Title,
		Description:   p.Description,
		Type:          p.Type,
		ImageUrls:     encodeImageURLs(p.ImageURLs),
		City:          p.City,
		State:         p.State,
		Country:       p.Country,
		Sqft:          int64(p.Sqft),
		Bedrooms:      int64(p.Bedrooms),
		Bathrooms:     int64(p.Bathrooms),
		RegularPrice:  p.RegularPrice,
		DiscountPrice: p.DiscountPrice,
		Furnished:     p.Furnished,
		Parking:       p.Parking,
		OwnerName:     p.Owner.Name,
		OwnerEmail:    p.Owner.Email,
		OwnerPhone:    p.Owner.Phone,
		UpdatedAt:     p.UpdatedAt.UTC(),
		ID:            p.ID,
	}))
}

func (r *propertiesRepo) DeleteProperty(ctx context.Context, id string) error {
	return affected(r.q.DeleteProperty(ctx, id))
}
