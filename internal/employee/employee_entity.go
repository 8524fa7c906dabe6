package employee

import (
	"time"

	"github.com/google/uuid"
)

const DefaultLeaveBalance = 20

type Employee struct {
	EmpID        string     `gorm:"primaryKey;type:varchar(10)"`
	Name         string     `gorm:"type:varchar(100);not null"`
	Email        string     `gorm:"type:varchar(100);not null;index"`
	LeaveBalance int        `gorm:"not null;default:0"`
	ManagerID    *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Employee) TableName() string { return "employees" }
