package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/rcctracs/tracs-auth/config"
	"github.com/rcctracs/tracs-auth/connect"
	"github.com/rcctracs/tracs-auth/models"
	"github.com/rcctracs/tracs-auth/utils"
	"gorm.io/gorm"
)

// OtpValidity is the fixed validity window of an issued OTP code
const OtpValidity = 5 * time.Minute

// VerifyResult is the outcome of an OTP verification attempt
type VerifyResult int

const (
	// VerifiedOk -> the submitted code matched the active row within its window
	VerifiedOk VerifyResult = iota
	// InvalidCode -> no active row, a mismatched code or a superseded code
	InvalidCode
	// Expired -> the submitted code matched but its window has elapsed
	Expired
)

// ErrDelivery is returned by Issue when the code was persisted but the
// notification channel failed. The orphaned row stays valid, the user simply
// requests a fresh code.
var ErrDelivery = errors.New("failed to deliver the OTP code")

// Otp contains the OTP issuance and verification services
type Otp struct {
	Conn *connect.Connector
	Env  *config.Env
}

// GenerateCode is a function that is used to generate a uniformly random
// six digit OTP code in [100000, 999999]
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// Issue is a function that is used to issue a new OTP code to the given user.
// Rows are append only, the previous codes of the user are left in place and
// are superseded by this one at verification time.
func (o *Otp) Issue(userID uuid.UUID, email string) error {
	code, err := GenerateCode()
	if err != nil {
		return err
	}

	row := models.OtpCode{
		UserID:    &userID,
		Code:      code,
		ExpiresAt: time.Now().Add(OtpValidity),
	}
	err = o.Conn.DB.Create(&row).Error
	if err != nil {
		return err
	}

	emailClient := utils.Email{
		Env: o.Env,
	}

	err = emailClient.SendOtp(email, code)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	return nil
}

// Verify is a function that is used to verify the submitted code against the
// most recently issued code of the user. The consumed row is deleted with a
// conditional delete so that two racing verifications cannot both succeed.
func (o *Otp) Verify(userID uuid.UUID, submitted string) (VerifyResult, error) {
	var row models.OtpCode
	err := o.Conn.DB.Where("user_id = ?", userID).
		Order("id DESC").
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return InvalidCode, nil
		}

		return InvalidCode, err
	}

	result := evaluate(&row, submitted, time.Now())
	if result != VerifiedOk {
		return result, nil
	}

	res := o.Conn.DB.Delete(&models.OtpCode{}, row.ID)
	if res.Error != nil {
		return InvalidCode, res.Error
	}
	if res.RowsAffected == 0 {
		// lost the race, another verification already consumed the row
		return InvalidCode, nil
	}

	return VerifiedOk, nil
}

// Sweep is a function that is used to delete the OTP rows that are past their
// expiry. Expired rows are harmless either way, verification never accepts
// them, so the sweep only keeps the table from growing without bounds.
func (o *Otp) Sweep() (deleted int64, err error) {
	res := o.Conn.DB.Where("expires_at < ?", time.Now()).Delete(&models.OtpCode{})
	if res.Error != nil {
		return 0, res.Error
	}

	return res.RowsAffected, nil
}

// evaluate decides the outcome of a verification attempt against the active
// row. The code comparison is plain string equality and the code is valid up
// to and including its expiry instant.
func evaluate(row *models.OtpCode, submitted string, now time.Time) VerifyResult {
	if row.Code != submitted {
		return InvalidCode
	}

	if now.After(row.ExpiresAt) {
		return Expired
	}

	return VerifiedOk
}
