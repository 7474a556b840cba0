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

// SearchLimit caps the number of listings a search returns.
const SearchLimit = 20

// PropertyService manages listings. Reads are public. Writes and deletes
// need the matching capability, and without CapAny only on listings the
// actor created.
type PropertyService struct {
	Store      store.Store
	Properties *cache.Repository[domain.Property]
	Clock      Clock
}

func (s *PropertyService) Get(ctx context.Context, id string) (domain.Property, error) {
	p, err := s.Properties.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Property{}, ErrPropertyNotFound
	}
	return p, err
}

func (s *PropertyService) List(ctx context.Context) ([]domain.Property, error) {
	return s.Properties.List(ctx)
}

// Search matches query case-insensitively against title and description,
// newest first, over the cached listing set.
func (s *PropertyService) Search(ctx context.Context, query string) ([]domain.Property, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, domain.Invalid("q", "search query is required")
	}
	all, err := s.Properties.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Property, 0, min(len(all), SearchLimit))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Title), query) ||
			strings.Contains(strings.ToLower(p.Description), query) {
			out = append(out, p)
			if len(out) == SearchLimit {
				break
			}
		}
	}
	return out, nil
}

func (s *PropertyService) Create(ctx context.Context, actor domain.Actor, p domain.Property) (domain.Property, error) {
	if !actor.Can(domain.KindProperty, domain.CapWrite) {
		return domain.Property{}, ErrNotPermitted
	}
	if err := p.Validate(); err != nil {
		return domain.Property{}, err
	}

	now := s.Clock.now()
	p.ID = idx.NewAt(now).String()
	p.CreatedBy = actor.AccountID
	p.CreatedAt = now
	p.UpdatedAt = now

	err := s.Properties.Mutate(ctx, p.ID, func(ctx context.Context) error {
		return s.Store.Properties().CreateProperty(ctx, p)
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.Property{}, ErrTitleTaken
	}
	if err != nil {
		return domain.Property{}, err
	}

	slogx.FromContext(ctx).InfoContext(ctx, "property created", "property_id", p.ID, "by", actor.AccountID)
	return p, nil
}

// Update replaces the mutable fields of listing id with those of p.
func (s *PropertyService) Update(ctx context.Context, actor domain.Actor, id string, p domain.Property) (domain.Property, error) {
	existing, err := s.owned(ctx, actor, id, domain.CapWrite)
	if err != nil {
		return domain.Property{}, err
	}
	if err := p.Validate(); err != nil {
		return domain.Property{}, err
	}

	p.ID = existing.ID
	p.CreatedBy = existing.CreatedBy
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.Clock.now()

	err = s.Properties.Mutate(ctx, id, func(ctx context.Context) error {
		return s.Store.Properties().UpdateProperty(ctx, p)
	})
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.Property{}, ErrTitleTaken
	case errors.Is(err, store.ErrNotFound):
		return domain.Property{}, ErrPropertyNotFound
	case err != nil:
		return domain.Property{}, err
	}

	slogx.FromContext(ctx).InfoContext(ctx, "property updated", "property_id", id, "by", actor.AccountID)
	return p, nil
}

func (s *PropertyService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := s.owned(ctx, actor, id, domain.CapDelete); err != nil {
		return err
	}
	err := s.Properties.Mutate(ctx, id, func(ctx context.Context) error {
		return s.Store.Properties().DeleteProperty(ctx, id)
	})
	if errors.Is(err, store.ErrNotFound) {
		return ErrPropertyNotFound
	}
	if err != nil {
		return err
	}
	slogx.FromContext(ctx).InfoContext(ctx, "property deleted", "property_id", id, "by", actor.AccountID)
	return nil
}

// owned loads listing id if actor holds want on it. CapAny holders may act
// on any listing, everyone else only on their own.
func (s *PropertyService) owned(ctx context.Context, actor domain.Actor, id string, want domain.Capability) (domain.Property, error) {
	if !actor.Can(domain.KindProperty, want) {
		return domain.Property{}, ErrNotPermitted
	}
	existing, err := s.Store.Properties().GetProperty(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Property{}, ErrPropertyNotFound
	}
	if err != nil {
		return domain.Property{}, err
	}
	if !actor.Can(domain.KindProperty, domain.CapAny) && existing.CreatedBy != actor.AccountID {
		return domain.Property{}, ErrNotPermitted
	}
	return existing, nil
}
