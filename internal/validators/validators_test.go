package validators

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

type statusRequest struct {
	Account string `validate:"required,account_status"`
	Report  string `validate:"required,report_status"`
}

func TestEnumTags(t *testing.T) {
	v := validator.New()
	RegisterValidators(v)

	tests := []struct {
		name    string
		req     statusRequest
		invalid map[string]string
	}{
		{"driver status", statusRequest{Account: "offline", Report: "pending"}, nil},
		{"client status", statusRequest{Account: "banned", Report: "dismissed"}, nil},
		{"unknown account status", statusRequest{Account: "sleeping", Report: "resolved"}, map[string]string{"account": "account_status"}},
		{"unknown report status", statusRequest{Account: "active", Report: "closed"}, map[string]string{"report": "report_status"}},
		{"missing both", statusRequest{}, map[string]string{"account": "required", "report": "required"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := ValidationDetails(v.Struct(tt.req))
			if len(details) != len(tt.invalid) {
				t.Fatalf("expected %v, got %v", tt.invalid, details)
			}
			for field, tag := range tt.invalid {
				if details[field] != tag {
					t.Errorf("expected %s to fail %s, got %q", field, tag, details[field])
				}
			}
		})
	}
}

func TestValidationDetails_OtherErrors(t *testing.T) {
	if details := ValidationDetails(errors.New("unexpected EOF")); details != nil {
		t.Errorf("expected nil details, got %v", details)
	}
}
