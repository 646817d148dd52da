// Package errors contians http errors and other custom errors
package errors

import (
	errs "errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rcctracs/tracs-auth/schemas"
)

//revive:disable

var (
	ErrInternalServerError    = fmt.Errorf("Something went wrong. Please try again later")
	ErrMissingEmailOrPassword = fmt.Errorf("Missing email or password")
	ErrMissingUserIDOrEmail   = fmt.Errorf("Missing user ID or email")
	ErrMissingUserIDOrOTP     = fmt.Errorf("Missing user ID or OTP")
	ErrUserNotFound           = fmt.Errorf("User not found")
	ErrInvalidPassword        = fmt.Errorf("Invalid password")
	ErrInvalidOTP             = fmt.Errorf("Invalid OTP")
	ErrOTPExpired             = fmt.Errorf("OTP has expired")
	ErrMailer                 = fmt.Errorf("Failed to send OTP email")
	ErrEmailAlreadyRegistered = fmt.Errorf("Email already registered")
	ErrRegistrationFailed     = fmt.Errorf("Failed to register user")
)

type res schemas.Res

func badrequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(res{
		Success: false,
		Message: err.Error(),
	})
}

func unauthorized(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(res{
		Success: false,
		Message: err.Error(),
	})
}

func InternalServerErr(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(res{
		Success: false,
		Message: ErrInternalServerError.Error(),
	})
}

func MissingEmailOrPassword(c *fiber.Ctx) error {
	return badrequest(c, ErrMissingEmailOrPassword)
}

func MissingUserIDOrEmail(c *fiber.Ctx) error {
	return badrequest(c, ErrMissingUserIDOrEmail)
}

func MissingUserIDOrOTP(c *fiber.Ctx) error {
	return badrequest(c, ErrMissingUserIDOrOTP)
}

func UserNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(res{
		Success: false,
		Message: ErrUserNotFound.Error(),
	})
}

func InvalidPassword(c *fiber.Ctx) error {
	return unauthorized(c, ErrInvalidPassword)
}

func InvalidOTP(c *fiber.Ctx) error {
	return badrequest(c, ErrInvalidOTP)
}

func OTPExpired(c *fiber.Ctx) error {
	return badrequest(c, ErrOTPExpired)
}

func MailerErr(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadGateway).JSON(res{
		Success: false,
		Message: ErrMailer.Error(),
	})
}

func EmailAlreadyRegistered(c *fiber.Ctx) error {
	return badrequest(c, ErrEmailAlreadyRegistered)
}

func RegistrationFailed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(res{
		Success: false,
		Message: ErrRegistrationFailed.Error(),
	})
}

//revive:enable

// CheckDBError is a struc that is used to identify the database errors
type CheckDBError struct{}

// DuplicateKey is a function that is used to find wether the the returned postgres error
// is due to a duplicate key entry (A unique key constraint)
func (CheckDBError) DuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errs.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return true
		}
	}

	return false
}
