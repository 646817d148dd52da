package templates

import (
	"bytes"
	"text/template"
)

// Email contains all the templates that are related to email
type Email struct{}

// GetOtpTmpl is a function that is used to get the OTP email template
func (Email) GetOtpTmpl(code string) (emailHTML string, err error) {
	otpEmail := struct{ Code string }{Code: code}

	tmpl := `
<html>
  <body>
    <div
      style="
        font-family: Sora, Arial, sans-serif;
        background: #f9f7f1;
        border-radius: 24px;
        border: 3px solid #5b3a1a;
        max-width: 420px;
        margin: 32px auto;
        padding: 32px 24px;
        color: #222;
        text-align: center;
      "
    >
      <h2 style="font-size: 1.6rem; font-weight: 700; margin-bottom: 18px">
        TRAC System
      </h2>
      <p style="font-size: 1.1rem; margin-bottom: 18px">Your OTP Code is:</p>
      <div
        style="
          font-size: 2.4rem;
          font-weight: 700;
          color: #5b3a1a;
          letter-spacing: 2px;
          margin-bottom: 18px;
        "
      >
        {{.Code}}
      </div>
      <p style="font-size: 1rem; color: #444; margin-bottom: 0">
        This code will expire in 5 minutes.
      </p>
    </div>
  </body>
</html>
`
	t := template.Must(template.New("otpEmail").Parse(tmpl))

	var buf bytes.Buffer
	err = t.Execute(&buf, otpEmail)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
