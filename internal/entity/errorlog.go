package entity

import "time"

// ErrorLog is an append-only record of a failed operation.
type ErrorLog struct {
	LogID     int64     `gorm:"column:log_id;primaryKey" json:"log_id"`
	PersonID  *int64    `json:"person_id"`
	Email     *string   `gorm:"size:255" json:"email"`
	Username  *string   `gorm:"size:255" json:"username"`
	Reason    string    `gorm:"type:text;not null" json:"reason"`
	UserAgent string    `gorm:"type:text" json:"user_agent"`
	IPAddress string    `gorm:"size:64" json:"ip_address"`
	RequestID string    `gorm:"size:64" json:"request_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ErrorLog) TableName() string { return "logs" }
