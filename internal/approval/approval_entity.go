package approval

import (
	"strings"
	"time"

	"go-leave/internal/leave"

	"github.com/google/uuid"
)

// Approval is a manager's recorded decision on one leave request. Rows are
// never edited after creation.
type Approval struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RequestID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	EmployeeID  string     `gorm:"type:varchar(10);not null;index"`
	ManagerName string     `gorm:"type:varchar(100);not null;index"`
	ManagerID   *uuid.UUID `gorm:"type:uuid;index"`
	Decision    string     `gorm:"type:varchar(10);not null"`
	Comments    string     `gorm:"type:text"`
	CreatedAt   time.Time  `gorm:"index"`

	LeaveRequest *leave.LeaveRequest `gorm:"foreignKey:RequestID;references:ID"`
}

func (Approval) TableName() string { return "approvals" }

// NormalizeDecision accepts any casing of Approved or Rejected.
func NormalizeDecision(v string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "approved":
		return leave.StatusApproved, true
	case "rejected":
		return leave.StatusRejected, true
	}
	return "", false
}
