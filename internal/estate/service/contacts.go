package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aussiebroadwan/estate/internal/estate/cache"
	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/store"
	"github.com/aussiebroadwan/estate/pkg/idx"
	"github.com/aussiebroadwan/estate/pkg/slogx"
)

// ContactService stores enquiries from the public contact form. Anyone may
// submit one; reading needs the contact read capability and deleting the
// delete capability.
type ContactService struct {
	Store    store.Store
	Contacts *cache.Repository[domain.Contact]
	Clock    Clock
}

func (s *ContactService) Submit(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = domain.NormalizeEmail(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	if err := c.Validate(); err != nil {
		return domain.Contact{}, err
	}

	now := s.Clock.now()
	c.ID = idx.NewAt(now).String()
	c.CreatedAt = now

	err := s.Contacts.Mutate(ctx, c.ID, func(ctx context.Context) error {
		return s.Store.Contacts().CreateContact(ctx, c)
	})
	if err != nil {
		return domain.Contact{}, err
	}

	slogx.FromContext(ctx).InfoContext(ctx, "contact received", "contact_id", c.ID)
	return c, nil
}

func (s *ContactService) Get(ctx context.Context, actor domain.Actor, id string) (domain.Contact, error) {
	if !actor.Can(domain.KindContact, domain.CapRead) {
		return domain.Contact{}, ErrNotPermitted
	}
	c, err := s.Contacts.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Contact{}, ErrContactNotFound
	}
	return c, err
}

func (s *ContactService) List(ctx context.Context, actor domain.Actor) ([]domain.Contact, error) {
	if !actor.Can(domain.KindContact, domain.CapRead) {
		return nil, ErrNotPermitted
	}
	return s.Contacts.List(ctx)
}

func (s *ContactService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.Can(domain.KindContact, domain.CapDelete) {
		return ErrNotPermitted
	}
	err := s.Contacts.Mutate(ctx, id, func(ctx context.Context) error {
		return s.Store.Contacts().DeleteContact(ctx, id)
	})
	if errors.Is(err, store.ErrNotFound) {
		return ErrContactNotFound
	}
	if err != nil {
		return err
	}
	slogx.FromContext(ctx).InfoContext(ctx, "contact deleted", "contact_id", id, "by", actor.AccountID)
	return nil
}
