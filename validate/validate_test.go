package validate_test

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rcctracs/tracs-auth/validate"
)

func TestPassword(t *testing.T) {
	v := validator.New()
	if err := v.RegisterValidation("validate_password", validate.Password); err != nil {
		t.Fatal(err)
	}

	type payload struct {
		Password string `validate:"required,validate_password"`
	}

	args := []struct {
		password string
		valid    bool
	}{
		{password: "jK8!pQz#2vXw9", valid: true},
		{password: "password", valid: false},
		{password: "12345678", valid: false},
	}

	for _, arg := range args {
		err := v.Struct(payload{Password: arg.password})
		if arg.valid && err != nil {
			t.Errorf("expected %q to be valid: %v", arg.password, err)
		}
		if !arg.valid && err == nil {
			t.Errorf("expected %q to be rejected", arg.password)
		}
	}
}
