// Package flow contains the login session bootstrap used by the admin console
package flow

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Reply is the envelope returned by the auth endpoints
type Reply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginReply is the envelope returned by the login endpoint
type LoginReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// API is the surface of the auth backend the bootstrap flow talks to
type API interface {
	Login(email, password string) (LoginReply, error)
	RequestOtp(userID, email string) (Reply, error)
	VerifyOtp(userID, otp string) (Reply, error)
}

// Client is an API implementation that talks to the auth backend over HTTP
type Client struct {
	BaseURL string
	Timeout time.Duration
}

func (c *Client) post(path string, payload, out interface{}) error {
	agent := fiber.Post(c.BaseURL + path)
	if c.Timeout != 0 {
		agent.Timeout(c.Timeout)
	}

	agent.JSON(payload)
	_, _, errs := agent.Struct(out)
	if len(errs) != 0 {
		return errs[0]
	}

	return nil
}

// Login is a function that is used to login the user with the email and password
func (c *Client) Login(email, password string) (reply LoginReply, err error) {
	err = c.post("/auth/login", fiber.Map{
		"email":    email,
		"password": password,
	}, &reply)

	return reply, err
}

// RequestOtp is a function that is used to request a fresh OTP code for the user
func (c *Client) RequestOtp(userID, email string) (reply Reply, err error) {
	err = c.post("/auth/otp/request", fiber.Map{
		"userId": userID,
		"email":  email,
	}, &reply)

	return reply, err
}

// VerifyOtp is a function that is used to verify the submitted OTP code
func (c *Client) VerifyOtp(userID, otp string) (reply Reply, err error) {
	err = c.post("/auth/otp/verify", fiber.Map{
		"userId": userID,
		"otp":    otp,
	}, &reply)

	return reply, err
}
