package employee

type CreateEmployeeRequest struct {
	EmpID        string `json:"empId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	LeaveBalance *int   `json:"leaveBalance"`
	ManagerID    string `json:"managerId"`
}

type UpdateEmployeeRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	LeaveBalance *int   `json:"leaveBalance"`
	ManagerID    string `json:"managerId"`
}

type UpdateBalanceRequest struct {
	LeaveBalance *int `json:"leaveBalance" binding:"required"`
}

// ListFilter narrows the employee list. Sorting and paging happen in the handler.
type ListFilter struct {
	Q         string
	ManagerID string
}

type EmployeeResponse struct {
	EmpID        string `json:"empId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	LeaveBalance int    `json:"leaveBalance"`
	ManagerID    string `json:"managerId,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

type EmployeeOptionResponse struct {
	EmpID string `json:"empId"`
	Name  string `json:"name"`
}
