package manager

import (
	"time"

	"github.com/google/uuid"
)

type Manager struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null;index"`
	Email     string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_manager_email"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Manager) TableName() string { return "managers" }

// TeamMember is the employee projection returned by the team view.
type TeamMember struct {
	EmpID        string
	Name         string
	Email        string
	LeaveBalance int
}
