package approval

type CreateApprovalRequest struct {
	RequestID   string `json:"request_ID"`
	Decision    string `json:"decision"`
	ManagerName string `json:"managerName"`
	Comments    string `json:"comments"`
}

type ListFilter struct {
	RequestID     string
	Decision      string
	ManagerName   string
	EmployeeID    string
	ExpandRequest bool
}

type RequestSummary struct {
	ID            string `json:"id"`
	LeaveTypeCode string `json:"leaveTypeCode"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	Days          int    `json:"days"`
	Status        string `json:"status"`
}

type ApprovalResponse struct {
	ID          string          `json:"id"`
	RequestID   string          `json:"request_ID"`
	EmployeeID  string          `json:"employeeId"`
	ManagerName string          `json:"managerName"`
	ManagerID   string          `json:"managerId,omitempty"`
	Decision    string          `json:"decision"`
	Comments    string          `json:"comments"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	Request     *RequestSummary `json:"request,omitempty"`

	// Set on create: the request status and deducted days after the
	// decision was applied.
	RequestStatus string `json:"requestStatus,omitempty"`
	DaysDeducted  int    `json:"daysDeducted,omitempty"`
}
