package entity

import "time"

type ServerVariable struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ServerID      uint      `json:"server_id" gorm:"not null;index"`
	VariableID    uint      `json:"variable_id" gorm:"not null"`
	VariableValue string    `json:"variable_value" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Schedule struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	ServerID       uint       `json:"server_id" gorm:"not null;index"`
	Name           string     `json:"name" gorm:"type:varchar(191)"`
	CronDayOfWeek  string     `json:"cron_day_of_week" gorm:"type:varchar(191);not null"`
	CronDayOfMonth string     `json:"cron_day_of_month" gorm:"type:varchar(191);not null"`
	CronHour       string     `json:"cron_hour" gorm:"type:varchar(191);not null"`
	CronMinute     string     `json:"cron_minute" gorm:"type:varchar(191);not null"`
	IsActive       bool       `json:"is_active" gorm:"not null;default:true"`
	IsProcessing   bool       `json:"is_processing" gorm:"not null;default:false"`
	LastRunAt      *time.Time `json:"last_run_at,omitempty"`
	NextRunAt      *time.Time `json:"next_run_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type Database struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ServerID       uint      `json:"server_id" gorm:"not null;index"`
	DatabaseHostID uint      `json:"database_host_id" gorm:"not null"`
	Database       string    `json:"database" gorm:"type:varchar(191);not null"`
	Username       string    `json:"username" gorm:"type:varchar(191);not null"`
	Remote         string    `json:"remote" gorm:"type:varchar(191);not null;default:'%'"`
	Password       string    `json:"-" gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
