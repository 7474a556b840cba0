package postgres

import (
	"context"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"gorm.io/gorm"
)

type propertiesRepo struct {
	db *gorm.DB
}

func (r *propertiesRepo) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	var row propertyModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return domain.Property{}, classify(err)
	}
	return toDomainProperty(row), nil
}

func (r *propertiesRepo) ListProperties(ctx context.Context) ([]domain.Property, error) {
	var rows []propertyModel
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, classify(err)
	}
	out := make([]domain.Property, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainProperty(row))
	}
	return out, nil
}

func (r *propertiesRepo) CreateProperty(ctx context.Context, p domain.Property) error {
	rec := fromDomainProperty(p)
	return classify(r.db.WithContext(ctx).Create(&rec).Error)
}

func (r *propertiesRepo) UpdateProperty(ctx context.Context, p domain.Property) error {
	rec := fromDomainProperty(p)
	return affected(r.db.WithContext(ctx).Model(&propertyModel{}).
		Where("id = ?", p.ID).
		Select("title", "description", "type", "image_urls", "city", "state", "country",
			"sqft", "bedrooms", "bathrooms", "regular_price", "discount_price",
			"furnished", "parking", "owner_name", "owner_email", "owner_phone", "updated_at").
		Updates(&rec))
}

func (r *propertiesRepo) DeleteProperty(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&propertyModel{}))
}
