package postgres

import (
	"context"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"gorm.io/gorm"
)

type contactsRepo struct {
	db *gorm.DB
}

func (r *contactsRepo) GetContact(ctx context.Context, id string) (domain.Contact, error) {
	var row contactModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return domain.Contact{}, classify(err)
	}
	return row.toDomain(), nil
}

func (r *contactsRepo) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	var rows []contactModel
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, classify(err)
	}
	out := make([]domain.Contact, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *contactsRepo) CreateContact(ctx context.Context, c domain.Contact) error {
	rec := contactModel{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Message:   c.Message,
		CreatedAt: c.CreatedAt.UTC(),
	}
	return classify(r.db.WithContext(ctx).Create(&rec).Error)
}

func (r *contactsRepo) DeleteContact(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&contactModel{}))
}
