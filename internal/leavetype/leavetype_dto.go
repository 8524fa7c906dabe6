package leavetype

type CreateLeaveTypeRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	MaxDays int    `json:"maxDays"`
}

type UpdateLeaveTypeRequest struct {
	Name    string `json:"name"`
	MaxDays int    `json:"maxDays"`
}

type LeaveTypeResponse struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	MaxDays   int    `json:"maxDays"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
