// Package validators registers the request validation tags used by the admin
// API and turns validation failures into response details.
package validators

import (
	"errors"
	"strings"

	"rideadmin/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidators(v)
	}
}

// RegisterValidators adds the enum tags used in request binding.
func RegisterValidators(v *validator.Validate) {
	v.RegisterValidation("account_status", validateAccountStatus)
	v.RegisterValidation("report_status", validateReportStatus)
}

// validateAccountStatus accepts a status of any managed role. The role
// specific check happens in the service, which knows the route's role.
func validateAccountStatus(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	for _, role := range []models.Role{models.RoleClient, models.RoleDriver} {
		for _, s := range role.Statuses() {
			if string(s) == status {
				return true
			}
		}
	}
	return false
}

func validateReportStatus(fl validator.FieldLevel) bool {
	_, err := models.ParseReportStatus(fl.Field().String())
	return err == nil
}

// ValidationDetails flattens binding errors into field -> tag pairs for the
// error envelope. It returns nil for anything that is not a validation error.
func ValidationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return details
}
