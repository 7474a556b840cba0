package authsdk

import "time"

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is a short machine-readable code (e.g., "invalid_request", "conflict")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`

	// Field names the offending input field on validation errors
	Field string `json:"field,omitempty"`

	// RetryAfterSeconds is set on 429 responses
	RetryAfterSeconds int `json:"retry_after_seconds,omitempty"`

	// TimeLeft is RetryAfterSeconds rendered as HH:MM:SS
	TimeLeft string `json:"time_left,omitempty"`
}

// MessageResponse acknowledges requests that return no resource.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Session Types
// ============================================================================

// SessionResponse is returned by login and registration. The same token is
// also set as the access_token cookie.
type SessionResponse struct {
	// AccessToken is the JWT used in the Authorization header
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in"`

	Account Account `json:"account"`
}

// LoginRequest signs in with a username or email address.
type LoginRequest struct {
	// Identifier is treated as an email address when it contains "@"
	Identifier string `json:"identifier" example:"jane@example.com"`
	Password   string `json:"password" example:"correct-horse-battery"`
}

// OtpRequest asks for a registration code to be emailed.
type OtpRequest struct {
	Username string `json:"username" example:"jane"`
	Email    string `json:"email" example:"jane@example.com"`

	// Role is "User" or "Agent"
	Role string `json:"role" example:"User"`
}

// RegisterRequest completes a registration with the emailed code.
type RegisterRequest struct {
	Email    string `json:"email" example:"jane@example.com"`
	Otp      string `json:"otp" example:"123456"`
	Username string `json:"username" example:"jane"`
	Password string `json:"password" example:"correct-horse-battery"`
	Role     string `json:"role" example:"User"`
	Phone    string `json:"phone" example:"0412345678"`
}

// ForgotPasswordRequest asks for a reset link.
type ForgotPasswordRequest struct {
	Identifier string `json:"identifier" example:"jane@example.com"`
}

// ResetPasswordRequest redeems a reset token. ResetToken may instead be
// passed as the last path segment.
type ResetPasswordRequest struct {
	ResetToken  string `json:"resetToken,omitempty"`
	NewPassword string `json:"newPassword"`
}

// ============================================================================
// Bootstrap Types
// ============================================================================

// BootstrapRequest describes the first administrator.
type BootstrapRequest struct {
	Username string `json:"username" example:"admin"`
	Email    string `json:"email" example:"admin@example.com"`
	Password string `json:"password"`
	Phone    string `json:"phone" example:"0412345678"`
}

// ============================================================================
// Account Types
// ============================================================================

// Account is the public view of an account. It never carries credentials.
type Account struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	ProfileImage string     `json:"profile_image,omitempty"`
	Role         string     `json:"role"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateAccountRequest is an administrator adding an account directly.
type CreateAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// UpdateAccountRequest changes the non-nil fields only.
type UpdateAccountRequest struct {
	Username     *string `json:"username,omitempty"`
	Email        *string `json:"email,omitempty"`
	Password     *string `json:"password,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`

	// Role changes need an administrator
	Role *string `json:"role,omitempty"`
}

// ============================================================================
// Property Types
// ============================================================================

// Owner is the contact for a listing.
type Owner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PropertyRequest is the writable part of a listing.
type PropertyRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Type          string   `json:"type" example:"rent"`
	ImageURLs     []string `json:"image_urls"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	Country       string   `json:"country"`
	Sqft          int      `json:"sqft"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	RegularPrice  int64    `json:"regular_price"`
	DiscountPrice int64    `json:"discount_price"`
	Furnished     bool     `json:"furnished"`
	Parking       bool     `json:"parking"`
	Owner         Owner    `json:"owner"`
}

// Property is a stored listing.
type Property struct {
	ID string `json:"id"`
	PropertyRequest
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Agent is the public card for an agent account.
type Agent struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// ============================================================================
// Contact Types
// ============================================================================

// ContactRequest is an enquiry from the public contact form.
type ContactRequest struct {
	Name    string `json:"name" example:"Jane Citizen"`
	Email   string `json:"email" example:"jane@example.com"`
	Phone   string `json:"phone" example:"+61412345678"`
	Message string `json:"message"`
}

// Contact is a stored enquiry.
type Contact struct {
	ID string `json:"id"`
	ContactRequest
	CreatedAt time.Time `json:"created_at"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status ("ok" or "degraded")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the authoritative store status
	Database string `json:"database"`

	// Cache indicates the ephemeral store status (lockout counters, cache)
	Cache string `json:"cache"`

	// Signer indicates the session signing capability status
	Signer string `json:"signer"`
}
