package controllers

import (
	errs "errors"

	"github.com/VinukaThejana/go-utils/logger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rcctracs/tracs-auth/config"
	"github.com/rcctracs/tracs-auth/connect"
	"github.com/rcctracs/tracs-auth/errors"
	"github.com/rcctracs/tracs-auth/models"
	"github.com/rcctracs/tracs-auth/schemas"
	"github.com/rcctracs/tracs-auth/services"
	"github.com/rcctracs/tracs-auth/validate"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Auth struct contains all the auth related controllers
type Auth struct {
	Conn *connect.Connector
	Env  *config.Env
}

// RegisterWEmailAndPassword is a function that is used to register users to the platfrom with email and password login method
func (a *Auth) RegisterWEmailAndPassword(c *fiber.Ctx) error {
	var payload struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8,max=200,validate_password"`
	}

	if err := c.BodyParser(&payload); err != nil {
		logger.Error(err)
		return errors.MissingEmailOrPassword(c)
	}

	v := validator.New()
	v.RegisterValidation("validate_password", validate.Password)
	err := v.Struct(payload)
	if err != nil {
		logger.Error(err)
		return errors.MissingEmailOrPassword(c)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error(err)
		return errors.RegistrationFailed(c)
	}

	userS := services.User{
		Conn: a.Conn,
	}
	_, err = userS.Create(models.User{
		Email:    payload.Email,
		Password: string(hashedPassword),
	})
	if err != nil {
		if ok := (errors.CheckDBError{}.DuplicateKey(err)); ok {
			return errors.EmailAlreadyRegistered(c)
		}

		logger.Error(err)
		return errors.RegistrationFailed(c)
	}

	return c.Status(fiber.StatusOK).JSON(schemas.Res{
		Success: true,
		Message: "User registered successfully",
	})
}

// LoginWEmailAndPassword is a funciton that is used to login the user with the email and password.
// A successful login does not establish a session, it only proves knowledge of
// the password; the frontend carries the returned user ID to the OTP request.
func (a *Auth) LoginWEmailAndPassword(c *fiber.Ctx) error {
	var payload struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := c.BodyParser(&payload); err != nil {
		logger.Error(err)
		return errors.MissingEmailOrPassword(c)
	}

	v := validator.New()
	err := v.Struct(payload)
	if err != nil {
		return errors.MissingEmailOrPassword(c)
	}

	userS := services.User{
		Conn: a.Conn,
	}

	user, err := userS.GetUserWithEmail(payload.Email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.UserNotFound(c)
		}

		logger.Error(err)
		return errors.InternalServerErr(c)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password))
	if err != nil {
		return errors.InvalidPassword(c)
	}

	return c.Status(fiber.StatusOK).JSON(schemas.LoginRes{
		Success: true,
		Message: "OTP sent to your email",
		UserID:  user.ID.String(),
	})
}

// RequestOtp is a function that is used to issue a fresh OTP code and deliver
// it to the given email address. Every call issues a new code, resending is
// simply another issuance; the previous codes of the user are superseded.
func (a *Auth) RequestOtp(c *fiber.Ctx) error {
	var payload struct {
		UserID string `json:"userId" validate:"required"`
		Email  string `json:"email" validate:"required"`
	}

	if err := c.BodyParser(&payload); err != nil {
		logger.Error(err)
		return errors.MissingUserIDOrEmail(c)
	}

	v := validator.New()
	err := v.Struct(payload)
	if err != nil {
		return errors.MissingUserIDOrEmail(c)
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return errors.MissingUserIDOrEmail(c)
	}

	otpS := services.Otp{
		Conn: a.Conn,
		Env:  a.Env,
	}
	err = otpS.Issue(userID, payload.Email)
	if err != nil {
		logger.Error(err)
		if errs.Is(err, services.ErrDelivery) {
			return errors.MailerErr(c)
		}
		return errors.InternalServerErr(c)
	}

	return c.Status(fiber.StatusOK).JSON(schemas.Res{
		Success: true,
		Message: "OTP sent successfully",
	})
}

// VerifyOtp is a function that is used to verify the submitted OTP code
// against the most recently issued code of the user
func (a *Auth) VerifyOtp(c *fiber.Ctx) error {
	var payload struct {
		UserID string `json:"userId" validate:"required"`
		Otp    string `json:"otp" validate:"required"`
	}

	if err := c.BodyParser(&payload); err != nil {
		logger.Error(err)
		return errors.MissingUserIDOrOTP(c)
	}

	v := validator.New()
	err := v.Struct(payload)
	if err != nil {
		return errors.MissingUserIDOrOTP(c)
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return errors.MissingUserIDOrOTP(c)
	}

	otpS := services.Otp{
		Conn: a.Conn,
		Env:  a.Env,
	}
	result, err := otpS.Verify(userID, payload.Otp)
	if err != nil {
		logger.Error(err)
		return errors.InternalServerErr(c)
	}

	switch result {
	case services.Expired:
		return errors.OTPExpired(c)
	case services.InvalidCode:
		return errors.InvalidOTP(c)
	}

	return c.Status(fiber.StatusOK).JSON(schemas.Res{
		Success: true,
		Message: "OTP verified successfully",
	})
}
