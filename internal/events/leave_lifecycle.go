package events

import "time"

const (
	LeaveLifecycleTopic  = "leave.request.lifecycle.v1"
	WorkflowAnomalyTopic = "leave.workflow.anomaly.v1"

	LeaveRequestCreated = "leave_request_created"
	LeaveRequestDecided = "leave_request_decided"
	WorkflowAnomaly     = "leave_workflow_anomaly"
)

type LeaveRequestCreatedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	LeaveRequestID string    `json:"leave_request_id"`
	EmployeeID     string    `json:"employee_id"`
	LeaveTypeCode  string    `json:"leave_type_code"`
	Days           int       `json:"days"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type LeaveRequestDecidedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	LeaveRequestID string    `json:"leave_request_id"`
	ApprovalID     string    `json:"approval_id"`
	EmployeeID     string    `json:"employee_id"`
	Decision       string    `json:"decision"`
	Days           int       `json:"days"`
	ManagerName    string    `json:"manager_name"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// LifecycleEnvelope is enough of either lifecycle event for consumers that
// only route on event_type.
type LifecycleEnvelope struct {
	EventType      string `json:"event_type"`
	LeaveRequestID string `json:"leave_request_id"`
	EmployeeID     string `json:"employee_id"`
}

type WorkflowAnomalyEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	ApprovalID     string    `json:"approval_id"`
	LeaveRequestID string    `json:"leave_request_id"`
	Decision       string    `json:"decision"`
	Reason         string    `json:"reason"`
	OccurredAt     time.Time `json:"occurred_at"`
}
