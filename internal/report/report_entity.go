package report

import "time"

// Row types scanned from the aggregate queries.

type Totals struct {
	Employees int64
	Managers  int64
}

type StatusCount struct {
	Status string
	Count  int64
	Days   int64
}

type TypeUsage struct {
	Code         string
	Name         string
	RequestCount int64
	TotalDays    int64
}

type BalanceRow struct {
	EmpID        string
	Name         string
	LeaveBalance int
	RequestCount int64
}

type ManagerActivity struct {
	ManagerName    string
	TotalProcessed int64
	Approved       int64
	Rejected       int64
	Pending        int64
}

type RequestStamp struct {
	Status    string
	CreatedAt time.Time
}
