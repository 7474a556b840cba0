package sqlite

import (
	"context"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/store/drivers/sqlite/gen"
)

type contactsRepo struct {
	q *gen.Queries
}

func (r *contactsRepo) GetContact(ctx context.Context, id string) (domain.Contact, error) {
	row, err := r.q.GetContact(ctx, id)
	if err != nil {
		return domain.Contact{}, classify(err)
	}
	return mapContact(row), nil
}

func (r *contactsRepo) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	rows, err := r.q.ListContacts(ctx)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]domain.Contact, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapContact(row))
	}
	return out, nil
}

func (r *contactsRepo) CreateContact(ctx context.Context, c domain.Contact) error {
	return classify(r.q.CreateContact(ctx, gen.CreateContactParams{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Message:   c.Message,
		CreatedAt: c.CreatedAt.UTC(),
	}))
}

func (r *contactsRepo) DeleteContact(ctx context.Context, id string) error {
	return affected(r.q.DeleteContact(ctx, id))
}

func mapContact(row gen.Contact) domain.Contact {
	return domain.Contact{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Phone:     row.Phone,
		Message:   row.Message,
		CreatedAt: row.CreatedAt.UTC(),
	}
}
