package leave

type CreateLeaveRequest struct {
	EmployeeID    string `json:"employeeId"`
	LeaveTypeCode string `json:"leaveTypeCode"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	Reason        string `json:"reason"`
}

// UpdateLeaveRequest carries the editable fields. Status is never client writable.
type UpdateLeaveRequest struct {
	EmployeeID    string `json:"employeeId"`
	LeaveTypeCode string `json:"leaveTypeCode"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	Reason        string `json:"reason"`
}

type ListFilter struct {
	Status          string
	EmployeeID      string
	LeaveTypeCode   string
	ExpandEmployee  bool
	ExpandLeaveType bool
}

type EmployeeSummary struct {
	EmpID        string `json:"empId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	LeaveBalance int    `json:"leaveBalance"`
}

type LeaveTypeSummary struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	MaxDays int    `json:"maxDays"`
}

type LeaveResponse struct {
	ID            string            `json:"id"`
	EmployeeID    string            `json:"employeeId"`
	LeaveTypeCode string            `json:"leaveTypeCode"`
	StartDate     string            `json:"startDate"`
	EndDate       string            `json:"endDate"`
	Days          int               `json:"days"`
	Reason        string            `json:"reason"`
	Status        string            `json:"status"`
	CreatedAt     string            `json:"createdAt,omitempty"`
	UpdatedAt     string            `json:"updatedAt,omitempty"`
	Employee      *EmployeeSummary  `json:"employee,omitempty"`
	LeaveType     *LeaveTypeSummary `json:"leaveType,omitempty"`
}
