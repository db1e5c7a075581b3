package model

import "time"

type URL struct {
	ID          int64      `json:"id"`
	OwnerID     string     `json:"owner_id"`
	OriginalURL string     `json:"original_url"`
	ShortCode   string     `json:"short_code"`
	ClickCount  int64      `json:"click_count"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type CreateURLRequest struct {
	URL    string `json:"longUrl" binding:"required"`
	Expiry string `json:"expiry"`
}

type URLResponse struct {
	ID          int64      `json:"id"`
	ShortCode   string     `json:"shortCode"`
	OriginalURL string     `json:"longUrl"`
	ShortURL    string     `json:"shortUrl"`
	ClickCount  int64      `json:"clickCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   *time.Time `json:"expiry,omitempty"`
}

// Account - владелец коротких ссылок; id совпадает с claim sub токена
type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterAccountRequest struct {
	Email string `json:"email" binding:"required,email"`
}
