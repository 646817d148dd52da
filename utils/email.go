package utils

import (
	"fmt"

	"github.com/VinukaThejana/go-utils/logger"
	"github.com/rcctracs/tracs-auth/config"
	"github.com/rcctracs/tracs-auth/templates"
	"github.com/resendlabs/resend-go"
)

// Email is a struct that contains email related operations
type Email struct {
	Env *config.Env
}

// SendOtp is a function that is used to send the OTP code to the user
func (e *Email) SendOtp(email, code string) error {
	emailTemplate, err := templates.Email{}.GetOtpTmpl(code)
	if err != nil {
		return err
	}

	client := resend.NewClient(e.Env.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    e.Env.EmailFrom,
		To:      []string{email},
		Html:    emailTemplate,
		Subject: "OTP CODE",
		ReplyTo: e.Env.EmailFrom,
	}
	send, err := client.Emails.Send(params)
	if err != nil {
		return err
	}

	logger.Log(fmt.Sprintf("[ %s ] : OTP email sent", send.Id))
	return nil
}
