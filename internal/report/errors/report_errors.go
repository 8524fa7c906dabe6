package reporterrors

import (
	"fmt"

	"go-leave/internal/shared/apperror"
)

func UnknownReport(name string) *apperror.AppError {
	return apperror.NotFound(fmt.Sprintf("Report %s not found", name))
}
