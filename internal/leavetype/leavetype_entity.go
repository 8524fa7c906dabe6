package leavetype

import "time"

type LeaveType struct {
	Code      string `gorm:"type:varchar(15);primaryKey"`
	Name      string `gorm:"type:varchar(40);not null"`
	MaxDays   int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveType) TableName() string { return "leave_types" }
