package domain

import "time"

// Visit представляет один переход по короткой ссылке
type Visit struct {
	ID         int64     `gorm:"primaryKey;column:id" json:"-"`
	URLCode    string    `gorm:"column:url_code;size:20;not null;index:idx_visits_code_time,priority:1" json:"-"`
	// client-controlled values are stored unbounded
	IPAddress  *string   `gorm:"column:ip_address;type:text" json:"ip_address"`
	UserAgent  *string   `gorm:"column:user_agent;type:text" json:"user_agent"`
	DeviceType *string   `gorm:"column:device_type;size:10" json:"device_type,omitempty"` // 'desktop', 'mobile', 'tablet', 'bot'
	Browser    *string   `gorm:"column:browser;type:text" json:"browser,omitempty"`
	OS         *string   `gorm:"column:os;type:text" json:"os,omitempty"`
	VisitedAt  time.Time `gorm:"column:visited_at;not null;index:idx_visits_code_time,priority:2" json:"visited_at"`

	// Relationships
	Mapping *URLMapping `gorm:"foreignKey:URLCode;references:Code" json:"-"`
}

// TableName возвращает название таблицы для GORM
func (Visit) TableName() string {
	return "visits"
}
