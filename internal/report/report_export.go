package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	reporterrors "go-leave/internal/report/errors"
)

// Export is a rendered CSV file.
type Export struct {
	Filename string
	Data     []byte
}

const (
	ExportLeaveTypes = "leave-types"
	ExportBalances   = "employee-balances"
	ExportManagers   = "managers"
	ExportAuditTrail = "audit-trail"
	ExportStatus     = "status-summary"
)

type exporter struct {
	title  string
	header []string
	rows   func(ov Overview) [][]string
}

var exporters = map[string]exporter{
	ExportLeaveTypes: {
		title:  "Leave_Type_Utilization_Report",
		header: []string{"Leave Type", "Request Count", "Total Days Used", "Percentage"},
		rows: func(ov Overview) [][]string {
			out := make([][]string, len(ov.LeaveTypeUtilization))
			for i, u := range ov.LeaveTypeUtilization {
				out[i] = []string{u.LeaveTypeName, itoa(u.RequestCount), itoa(u.TotalDays), pct(u.Percentage)}
			}
			return out
		},
	},
	ExportBalances: {
		title:  "Employee_Leave_Balance_Report",
		header: []string{"Employee ID", "Name", "Leave Balance", "Request Count", "Status"},
		rows: func(ov Overview) [][]string {
			out := make([][]string, len(ov.EmployeeBalances))
			for i, b := range ov.EmployeeBalances {
				out[i] = []string{b.EmpID, b.Name, strconv.Itoa(b.LeaveBalance), itoa(b.RequestCount), b.BalanceState}
			}
			return out
		},
	},
	ExportManagers: {
		title:  "Manager_Approval_Summary_Report",
		header: []string{"Manager Name", "Total Processed", "Approved", "Rejected", "Pending", "Approval Rate"},
		rows: func(ov Overview) [][]string {
			out := make([][]string, len(ov.ManagerSummary))
			for i, m := range ov.ManagerSummary {
				out[i] = []string{m.ManagerName, itoa(m.TotalProcessed), itoa(m.Approved), itoa(m.Rejected), itoa(m.Pending), pct(m.ApprovalRate)}
			}
			return out
		},
	},
	ExportAuditTrail: {
		title:  "Leave_Transaction_Audit_Trail",
		header: []string{"Date", "Employee", "Leave Type", "Days", "Action", "Processed By", "Status"},
		rows: func(ov Overview) [][]string {
			out := make([][]string, len(ov.AuditTrail))
			for i, a := range ov.AuditTrail {
				out[i] = []string{auditDate(a.Timestamp), a.EmployeeName, a.LeaveType, strconv.Itoa(a.Days), a.Action, a.ProcessedBy, a.Status}
			}
			return out
		},
	},
	ExportStatus: {
		title:  "Leave_Status_Summary_Report",
		header: []string{"Status", "Count", "Percentage"},
		rows: func(ov Overview) [][]string {
			out := make([][]string, len(ov.StatusSummary))
			for i, s := range ov.StatusSummary {
				out[i] = []string{s.Status, itoa(s.Count), pct(s.Percentage)}
			}
			return out
		},
	},
}

func (s *service) Export(ctx context.Context, name string) (Export, error) {
	exp, ok := exporters[name]
	if !ok {
		return Export{}, reporterrors.UnknownReport(name)
	}

	ov, err := s.Overview(ctx)
	if err != nil {
		return Export{}, err
	}

	data, err := writeCSV(exp.header, exp.rows(ov))
	if err != nil {
		return Export{}, err
	}
	return Export{
		Filename: fmt.Sprintf("%s_%s.csv", exp.title, time.Now().UTC().Format(dateLayout)),
		Data:     data,
	}, nil
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func pct(n int64) string { return itoa(n) + "%" }

func auditDate(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format(dateLayout)
}
