// Package schemas contains the response shapes returned to the frontend
package schemas

// Res is the envelope every endpoint responds with
type Res struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// LoginRes is the envelope of a successful login, the frontend carries
// the user ID to the OTP request and OTP verification calls
type LoginRes struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	UserID  string `json:"userId"`
}
