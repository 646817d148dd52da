package templates_test

import (
	"strings"
	"testing"

	"github.com/rcctracs/tracs-auth/templates"
)

func TestGetOtpTmpl(t *testing.T) {
	args := []struct {
		Code string
	}{
		{Code: "482193"},
		{Code: "100000"},
		{Code: "999999"},
	}

	for _, arg := range args {
		emailHTML, err := templates.Email{}.GetOtpTmpl(arg.Code)
		if err != nil {
			t.Fatal(err)
		}

		if !strings.Contains(emailHTML, arg.Code) {
			t.Errorf("template does not contain the code %s", arg.Code)
		}
		if !strings.Contains(emailHTML, "This code will expire in 5 minutes.") {
			t.Error("template does not contain the expiry statement")
		}
	}
}
