package report

type Metrics struct {
	TotalEmployees  int64 `json:"totalEmployees"`
	TotalManagers   int64 `json:"totalManagers"`
	TotalRequests   int64 `json:"totalRequests"`
	PendingRequests int64 `json:"pendingRequests"`
	ApprovedToday   int64 `json:"approvedToday"`
	ApprovalRate    int64 `json:"approvalRate"`
}

type RecentRequest struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employeeId"`
	EmployeeName  string `json:"employeeName"`
	LeaveTypeName string `json:"leaveTypeName"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	Days          int    `json:"days"`
	Status        string `json:"status"`
}

type Dashboard struct {
	Metrics        Metrics         `json:"metrics"`
	RecentRequests []RecentRequest `json:"recentRequests"`
}

type StatusSummaryItem struct {
	Status     string `json:"status"`
	Count      int64  `json:"count"`
	Percentage int64  `json:"percentage"`
	State      string `json:"state"`
}

type TypeUtilization struct {
	LeaveTypeCode string `json:"leaveTypeCode"`
	LeaveTypeName string `json:"leaveTypeName"`
	RequestCount  int64  `json:"requestCount"`
	TotalDays     int64  `json:"totalDays"`
	Percentage    int64  `json:"percentage"`
}

type EmployeeBalance struct {
	EmpID        string `json:"empId"`
	Name         string `json:"name"`
	LeaveBalance int    `json:"leaveBalance"`
	RequestCount int64  `json:"requestCount"`
	BalanceState string `json:"balanceState"`
}

type ManagerSummary struct {
	ManagerName    string `json:"managerName"`
	TotalProcessed int64  `json:"totalProcessed"`
	Approved       int64  `json:"approved"`
	Rejected       int64  `json:"rejected"`
	Pending        int64  `json:"pending"`
	ApprovalRate   int64  `json:"approvalRate"`
}

type MonthlyTrend struct {
	Month         string `json:"month"`
	TotalRequests int64  `json:"totalRequests"`
	Approved      int64  `json:"approved"`
	Rejected      int64  `json:"rejected"`
	Pending       int64  `json:"pending"`
	ApprovalRate  int64  `json:"approvalRate"`
}

type AuditEntry struct {
	Timestamp    string `json:"timestamp"`
	EmployeeName string `json:"employeeName"`
	LeaveType    string `json:"leaveType"`
	Days         int    `json:"days"`
	Action       string `json:"action"`
	ProcessedBy  string `json:"processedBy"`
	Status       string `json:"status"`
	StatusState  string `json:"statusState"`
}

type Summary struct {
	TotalDaysTaken    int64  `json:"totalDaysTaken"`
	AvgLeaveBalance   int64  `json:"avgLeaveBalance"`
	LowBalanceCount   int64  `json:"lowBalanceCount"`
	MostUsedLeaveType string `json:"mostUsedLeaveType"`
}

// Overview is every report computed from one read of the store. It is the
// unit that gets cached.
type Overview struct {
	Dashboard            Dashboard           `json:"dashboard"`
	StatusSummary        []StatusSummaryItem `json:"statusSummary"`
	LeaveTypeUtilization []TypeUtilization   `json:"leaveTypeUtilization"`
	EmployeeBalances     []EmployeeBalance   `json:"employeeBalances"`
	ManagerSummary       []ManagerSummary    `json:"managerSummary"`
	MonthlyTrend         []MonthlyTrend      `json:"monthlyTrend"`
	AuditTrail           []AuditEntry        `json:"auditTrail"`
	Summary              Summary             `json:"summary"`
	GeneratedAt          string              `json:"generatedAt"`
}
