package leave

import (
	"strings"
	"time"

	"go-leave/internal/employee"
	"go-leave/internal/leavetype"

	"github.com/google/uuid"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"

	dateLayout = "2006-01-02"
)

type LeaveRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID    string    `gorm:"type:varchar(10);not null;index:idx_leave_requests_employee_status"`
	LeaveTypeCode string    `gorm:"type:varchar(15);not null;index"`
	StartDate     time.Time `gorm:"type:date;not null"`
	EndDate       time.Time `gorm:"type:date;not null"`
	Days          int       `gorm:"not null"`
	Reason        string    `gorm:"type:text"`
	Status        string    `gorm:"type:varchar(20);not null;default:'Pending';index:idx_leave_requests_employee_status"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Employee  *employee.Employee   `gorm:"foreignKey:EmployeeID;references:EmpID"`
	LeaveType *leavetype.LeaveType `gorm:"foreignKey:LeaveTypeCode;references:Code"`
}

func (LeaveRequest) TableName() string { return "leave_requests" }

// InclusiveDays counts both boundary days. A partial trailing day counts as a
// whole one.
func InclusiveDays(start, end time.Time) int {
	const day = 24 * time.Hour
	d := end.Sub(start)
	days := int(d / day)
	if d%day > 0 {
		days++
	}
	return days + 1
}

// NormalizeStatus maps any casing of a status name onto its canonical value.
func NormalizeStatus(v string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "pending":
		return StatusPending, true
	case "approved":
		return StatusApproved, true
	case "rejected":
		return StatusRejected, true
	}
	return "", false
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
