package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/service"
	"github.com/aussiebroadwan/estate/pkg/authsdk"
	"github.com/aussiebroadwan/estate/pkg/httpx"
)

func toAccount(p domain.Profile) authsdk.Account {
	return authsdk.Account{
		ID:           p.ID,
		Username:     p.Username,
		Email:        p.Email,
		Phone:        p.Phone,
		ProfileImage: p.ProfileImage,
		Role:         string(p.Role),
		LastLoginAt:  p.LastLoginAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toAccounts(ps []domain.Profile) []authsdk.Account {
	out := make([]authsdk.Account, 0, len(ps))
	for _, p := range ps {
		out = append(out, toAccount(p))
	}
	return out
}

func toProperty(p domain.Property) authsdk.Property {
	return authsdk.Property{
		ID: p.ID,
		PropertyRequest: authsdk.PropertyRequest{
			Title:         p.Title,
			Description:   p.Description,
			Type:          p.Type,
			ImageURLs:     p.ImageURLs,
			City:          p.City,
			State:         p.State,
			Country:       p.Country,
			Sqft:          p.Sqft,
			Bedrooms:      p.Bedrooms,
			Bathrooms:     p.Bathrooms,
			RegularPrice:  p.RegularPrice,
			DiscountPrice: p.DiscountPrice,
			Furnished:     p.Furnished,
			Parking:       p.Parking,
			Owner:         authsdk.Owner(p.Owner),
		},
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProperties(ps []domain.Property) []authsdk.Property {
	out := make([]authsdk.Property, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProperty(p))
	}
	return out
}

func fromPropertyRequest(r authsdk.PropertyRequest) domain.Property {
	return domain.Property{
		Title:         r.Title,
		Description:   r.Description,
		Type:          r.Type,
		ImageURLs:     r.ImageURLs,
		City:          r.City,
		State:         r.State,
		Country:       r.Country,
		Sqft:          r.Sqft,
		Bedrooms:      r.Bedrooms,
		Bathrooms:     r.Bathrooms,
		RegularPrice:  r.RegularPrice,
		DiscountPrice: r.DiscountPrice,
		Furnished:     r.Furnished,
		Parking:       r.Parking,
		Owner:         domain.Owner(r.Owner),
	}
}

func toAgents(ps []domain.Profile) []authsdk.Agent {
	out := make([]authsdk.Agent, 0, len(ps))
	for _, p := range ps {
		out = append(out, authsdk.Agent{
			Username:     p.Username,
			Email:        p.Email,
			Phone:        p.Phone,
			ProfileImage: p.ProfileImage,
		})
	}
	return out
}

func toContact(c domain.Contact) authsdk.Contact {
	return authsdk.Contact{
		ID: c.ID,
		ContactRequest: authsdk.ContactRequest{
			Name:    c.Name,
			Email:   c.Email,
			Phone:   c.Phone,
			Message: c.Message,
		},
		CreatedAt: c.CreatedAt,
	}
}

func toContacts(cs []domain.Contact) []authsdk.Contact {
	out := make([]authsdk.Contact, 0, len(cs))
	for _, c := range cs {
		out = append(out, toContact(c))
	}
	return out
}

func fromContactRequest(r authsdk.ContactRequest) domain.Contact {
	return domain.Contact{Name: r.Name, Email: r.Email, Phone: r.Phone, Message: r.Message}
}

func fromUpdateRequest(r authsdk.UpdateAccountRequest) service.AccountUpdate {
	u := service.AccountUpdate{
		Username:     r.Username,
		Email:        r.Email,
		Password:     r.Password,
		Phone:        r.Phone,
		ProfileImage: r.ProfileImage,
	}
	if r.Role != nil {
		role := domain.Role(*r.Role)
		u.Role = &role
	}
	return u
}

// writeSession answers with the token in the body and mirrors it into the
// session cookie.
func writeSession(w http.ResponseWriter, status int, s service.Session, now time.Time, secure bool) {
	ttl := s.ExpiresAt.Sub(now)
	httpx.SetSessionCookie(w, s.Token, ttl, secure)
	httpx.WriteJSON(w, status, authsdk.SessionResponse{
		AccessToken: s.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int(ttl.Seconds()),
		Account:     toAccount(s.Account),
	})
}

// actor returns the caller placed on the context by the authn middleware.
func actor(r *http.Request) (domain.Actor, bool) {
	c, ok := httpx.ClaimsFromContext(r.Context())
	if !ok || c.AccountID == "" {
		return domain.Actor{}, false
	}
	return service.ActorFromClaims(c), true
}
