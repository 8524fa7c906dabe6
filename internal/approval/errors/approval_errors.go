package approvalerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrRequestIDRequired   = apperror.Validation("Leave request ID is required")
	ErrInvalidDecision     = apperror.Validation("Decision must be Approved or Rejected")
	ErrManagerNameRequired = apperror.Validation("Manager name is required")
	ErrCommentsRequired    = apperror.Validation("Comments are required when rejecting a request")

	ErrApprovalNotFound = apperror.New(
		apperror.CodeNotFound,
		"Approval not found",
		http.StatusNotFound,
	)
	ErrInvalidApprovalID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid approval ID",
		http.StatusBadRequest,
	)
)
