package manager

type CreateManagerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UpdateManagerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ManagerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type TeamMemberResponse struct {
	EmpID        string `json:"empId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	LeaveBalance int    `json:"leaveBalance"`
}

type TeamResponse struct {
	Manager ManagerResponse      `json:"manager"`
	Members []TeamMemberResponse `json:"members"`
}
