package postgres

import (
	"encoding/json"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
)

type accountModel struct {
	ID             string     `gorm:"column:id;primaryKey"`
	Username       string     `gorm:"column:username"`
	Email          string     `gorm:"column:email"`
	Phone          string     `gorm:"column:phone"`
	ProfileImage   string     `gorm:"column:profile_image"`
	PasswordHash   string     `gorm:"column:password_hash"`
	Role           string     `gorm:"column:role"`
	ResetTokenHash *string    `gorm:"column:reset_token_hash"`
	ResetExpiresAt *time.Time `gorm:"column:reset_expires_at"`
	LastLoginAt    *time.Time `gorm:"column:last_login_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (accountModel) TableName() string { return "accounts" }

type otpChallengeModel struct {
	Email     string    `gorm:"column:email;primaryKey"`
	CodeHash  string    `gorm:"column:code_hash"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime:false"`
}

func (otpChallengeModel) TableName() string { return "otp_challenges" }

type propertyModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	Title         string    `gorm:"column:title"`
	Description   string    `gorm:"column:description"`
	Type          string    `gorm:"column:type"`
	ImageURLs     string    `gorm:"column:image_urls;type:jsonb"`
	City          string    `gorm:"column:city"`
	State         string    `gorm:"column:state"`
	Country       string    `gorm:"column:country"`
	Sqft          int64     `gorm:"column:sqft"`
	Bedrooms      int64     `gorm:"column:bedrooms"`
	Bathrooms     int64     `gorm:"column:bathrooms"`
	RegularPrice  int64     `gorm:"column:regular_price"`
	DiscountPrice int64     `gorm:"column:discount_price"`
	Furnished     bool      `gorm:"column:furnished"`
	Parking       bool      `gorm:"column:parking"`
	OwnerName     string    `gorm:"column:owner_name"`
	OwnerEmail    string    `gorm:"column:owner_email"`
	OwnerPhone    string    `gorm:"column:owner_phone"`
	CreatedBy     string    `gorm:"column:created_by"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (propertyModel) TableName() string { return "properties" }

type contactModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email"`
	Phone     string    `gorm:"column:phone"`
	Message   string    `gorm:"column:message"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime:false"`
}

func (contactModel) TableName() string { return "contacts" }

func (m contactModel) toDomain() domain.Contact {
	return domain.Contact{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Message:   m.Message,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func toDomainAccount(m accountModel) domain.Account {
	return domain.Account{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		Phone:          m.Phone,
		ProfileImage:   m.ProfileImage,
		PasswordHash:   m.PasswordHash,
		Role:           domain.Role(m.Role),
		ResetTokenHash: m.ResetTokenHash,
		ResetExpiresAt: utcPtr(m.ResetExpiresAt),
		LastLoginAt:    utcPtr(m.LastLoginAt),
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

func fromDomainAccount(a domain.Account) accountModel {
	return accountModel{
		ID:             a.ID,
		Username:       a.Username,
		Email:          a.Email,
		Phone:          a.Phone,
		ProfileImage:   a.ProfileImage,
		PasswordHash:   a.PasswordHash,
		Role:           string(a.Role),
		ResetTokenHash: a.ResetTokenHash,
		ResetExpiresAt: utcPtr(a.ResetExpiresAt),
		LastLoginAt:    utcPtr(a.LastLoginAt),
		CreatedAt:      a.CreatedAt.UTC(),
		UpdatedAt:      a.UpdatedAt.UTC(),
	}
}

func toDomainOtpChallenge(m otpChallengeModel) domain.OtpChallenge {
	return domain.OtpChallenge{
		Email:     m.Email,
		Ticket:    domain.Ticket{Hash: m.CodeHash, ExpiresAt: m.ExpiresAt.UTC()},
		CreatedAt: m.CreatedAt.UTC(),
	}
}

func toDomainProperty(m propertyModel) domain.Property {
	var urls []string
	_ = json.Unmarshal([]byte(m.ImageURLs), &urls)
	return domain.Property{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		Type:          m.Type,
		ImageURLs:     urls,
		City:          m.City,
		State:         m.State,
		Country:       m.Country,
		Sqft:          int(m.Sqft),
		Bedrooms:      int(m.Bedrooms),
		Bathrooms:     int(m.Bathrooms),
		RegularPrice:  m.RegularPrice,
		DiscountPrice: m.DiscountPrice,
		Furnished:     m.Furnished,
		Parking:       m.Parking,
		Owner:         domain.Owner{Name: m.OwnerName, Email: m.OwnerEmail, Phone: m.OwnerPhone},
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

func fromDomainProperty(p domain.Property) propertyModel {
	urls := p.ImageURLs
	if urls == nil {
		urls = []string{}
	}
	raw, _ := json.Marshal(urls)
	return propertyModel{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Type:          p.Type,
		ImageURLs:     string(raw),
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
	}
}
