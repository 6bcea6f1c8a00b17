package domain

import "time"

// URLMapping связывает короткий код с исходным URL
type URLMapping struct {
	Code        string     `gorm:"primaryKey;column:code;size:20" json:"code"`
	OriginalURL string     `gorm:"column:original_url;type:text;not null" json:"original_url"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	ExpiresAt   *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
}

// TableName возвращает название таблицы для GORM
func (URLMapping) TableName() string {
	return "urls"
}

// IsExpired reports whether the mapping has an expiration earlier than now.
func (m *URLMapping) IsExpired(now time.Time) bool {
	return m.ExpiresAt != nil && m.ExpiresAt.Before(now)
}
