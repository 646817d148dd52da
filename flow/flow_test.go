package flow_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rcctracs/tracs-auth/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend reproduces the backend semantics in memory: latest row wins,
// expiry enforced on verify, consumed rows deleted.
type fakeBackend struct {
	mu           sync.Mutex
	email        string
	password     string
	userID       string
	rows         []otpRow
	nextID       uint
	issued       int
	failDelivery bool
	down         bool
}

type otpRow struct {
	id        uint
	code      string
	expiresAt time.Time
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		email:    "admin@rcc.edu.ph",
		password: "hunter2!strong",
		userID:   "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
	}
}

func (b *fakeBackend) Login(email, password string) (flow.LoginReply, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.down {
		return flow.LoginReply{}, errors.New("connection refused")
	}
	if email != b.email {
		return flow.LoginReply{Message: "User not found"}, nil
	}
	if password != b.password {
		return flow.LoginReply{Message: "Invalid password"}, nil
	}

	return flow.LoginReply{
		Success: true,
		Message: "OTP sent to your email",
		UserID:  b.userID,
	}, nil
}

func (b *fakeBackend) RequestOtp(userID, email string) (flow.Reply, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.down {
		return flow.Reply{}, errors.New("connection refused")
	}

	b.nextID++
	b.issued++
	b.rows = append(b.rows, otpRow{
		id:        b.nextID,
		code:      fmt.Sprintf("%06d", 100000+b.issued),
		expiresAt: time.Now().Add(5 * time.Minute),
	})

	if b.failDelivery {
		return flow.Reply{Message: "Failed to send OTP email"}, nil
	}
	return flow.Reply{Success: true, Message: "OTP sent successfully"}, nil
}

func (b *fakeBackend) VerifyOtp(userID, otp string) (flow.Reply, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.down {
		return flow.Reply{}, errors.New("connection refused")
	}
	if len(b.rows) == 0 {
		return flow.Reply{Message: "Invalid OTP"}, nil
	}

	latest := b.rows[len(b.rows)-1]
	if latest.code != otp {
		return flow.Reply{Message: "Invalid OTP"}, nil
	}
	if time.Now().After(latest.expiresAt) {
		return flow.Reply{Message: "OTP has expired"}, nil
	}

	b.rows = b.rows[:len(b.rows)-1]
	return flow.Reply{Success: true, Message: "OTP verified successfully"}, nil
}

// latestCode waits for the async issuance to land and returns the active code
func (b *fakeBackend) latestCode(t *testing.T) string {
	t.Helper()

	var code string
	require.Eventually(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		if len(b.rows) == 0 {
			return false
		}
		code = b.rows[len(b.rows)-1].code
		return true
	}, time.Second, 5*time.Millisecond)

	return code
}

func (b *fakeBackend) expireAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.rows {
		b.rows[i].expiresAt = time.Now().Add(-time.Second)
	}
}

func TestFlowHappyPath(t *testing.T) {
	backend := newFakeBackend()
	redirected := make(chan struct{})

	f := flow.New(backend,
		flow.WithRedirectDelay(10*time.Millisecond),
		flow.WithRedirect(func() { close(redirected) }),
	)

	require.NoError(t, f.SubmitCredentials("admin@rcc.edu.ph", "hunter2!strong"))
	assert.Equal(t, flow.OtpPending, f.State())
	assert.Equal(t, "1b4e28ba-2fa1-11d2-883f-0016d3cca427", f.UserID())
	assert.Equal(t, "admin@rcc.edu.ph", f.Email())

	code := backend.latestCode(t)
	require.NoError(t, f.SubmitCode(code))
	assert.Equal(t, flow.Authenticated, f.State())
	assert.Empty(t, f.Err())

	select {
	case <-redirected:
	case <-time.After(time.Second):
		t.Fatal("redirect hook was never invoked")
	}

	// the flow is terminal, further submits are rejected
	assert.ErrorIs(t, f.SubmitCode(code), flow.ErrWrongState)
	assert.ErrorIs(t, f.SubmitCredentials("admin@rcc.edu.ph", "hunter2!strong"), flow.ErrWrongState)

	// the consumed row is gone, the same code never verifies twice
	reply, err := backend.VerifyOtp(f.UserID(), code)
	require.NoError(t, err)
	assert.False(t, reply.Success)
	assert.Equal(t, "Invalid OTP", reply.Message)
}

func TestFlowWrongPassword(t *testing.T) {
	backend := newFakeBackend()
	f := flow.New(backend)

	require.NoError(t, f.SubmitCredentials("admin@rcc.edu.ph", "wrong"))
	assert.Equal(t, flow.Unauthenticated, f.State())
	assert.Equal(t, "Invalid password", f.Err())

	// no lockout, the same credentials always work
	require.NoError(t, f.SubmitCredentials("admin@rcc.edu.ph", "hunter2!strong"))
	assert.Equal(t, flow.OtpPending, f.State())
}

func TestFlowUnknownEmail(t *testing.T) {
	backend := newFakeBackend()
	f := flow.New(backend)

	require.NoError(t, f.SubmitCredentials("nobody@rcc.edu.ph", "hunter2!strong"))
	assert.Equal(t, flow.Unauthenticated, f.State())
	assert.Equal(t, "User not found", f.Err())
}

func TestFlowInvalidCodeClearsError(t *testing.T) {
	backend := newFakeBackend()
	f := flow.New(backend, flow.WithErrClearAfter(20*time.Millisecond))

	require.NoError(t, f.SubmitCredentials("admin@rcc.edu.ph", "hunter2!strong"))
	backend.latestCode(t)

	require.NoError(t, f.SubmitCode("000000"))
	assert.Equal(t, flow.OtpPending, f.State())
	assert.Equal(t, "Invalid OTP", f.Err())

	require.Eventually(t, func() bool {
		return f.Err() == ""
	}, time.Second, 5*time.Millisecond)

	// the row is still active, the correct code goes through on retry
	require.NoError(t, f.SubmitCode(backend.latestCode(t)))
	assert.Equal(t, flow.Authenticated, f.State())
}

func TestFlowSupersededCode(t *testing.T) {
	backend := newFakeBackend()
	f := flow.New(backend)

	require.NoError(t, f.SubmitCredentials("admin@rcc.edu.ph", "hunter2!strong"))
	first := backend.latestCode(t)

	require.NoError(t, f.Resend())
	require.Eventually(t, func() bool {
		return backend.latestCode(t) != first
	}, time.Second, 5*time.Millisecond)

	// the older code is unexpired yet no longer the active one
	require.NoError(t, f.SubmitCode(first))
	assert.Equal(t, flow.OtpPending, f.State())
	assert.Equal(t, "Invalid OTP", f.Err())

	require.NoError(t, f.SubmitCode(backend.latestCode(t)))
	assert.Equal(t, flow.Authenticated, f.State())
}

func TestFlowExpiredCode(t *testing.T) {
	backend := newFakeBackend()
	f := flow.New(backend)

	require.NoError(t, f.SubmitCredentials("admin@rcc.edu.ph", "hunter2!strong"))
	code := backend.latestCode(t)
	backend.expireAll()

	require.NoError(t, f.SubmitCode(code))
	assert.Equal(t, flow.OtpPending, f.State())
	assert.Equal(t, "OTP has expired", f.Err())
}

func TestFlowDeliveryFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.failDelivery = true
	f := flow.New(backend, flow.WithErrClearAfter(time.Minute))

	require.NoError(t, f.SubmitCredentials("admin@rcc.edu.ph", "hunter2!strong"))

	// the issuance failure surfaces on its own without blocking input
	require.Eventually(t, func() bool {
		return f.Err() == "Failed to send OTP."
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, flow.OtpPending, f.State())
	require.NoError(t, f.SubmitCode("000000"))
}

func TestFlowConnectError(t *testing.T) {
	backend := newFakeBackend()
	backend.down = true
	f := flow.New(backend)

	require.NoError(t, f.SubmitCredentials("admin@rcc.edu.ph", "hunter2!strong"))
	assert.Equal(t, flow.Unauthenticated, f.State())
	assert.Equal(t, "Unable to connect to the server. Please try again later.", f.Err())
}

func TestFlowReset(t *testing.T) {
	backend := newFakeBackend()
	f := flow.New(backend)

	require.NoError(t, f.SubmitCredentials("admin@rcc.edu.ph", "hunter2!strong"))
	require.Equal(t, flow.OtpPending, f.State())

	f.Reset()
	assert.Equal(t, flow.Unauthenticated, f.State())
	assert.Empty(t, f.UserID())
	assert.Empty(t, f.Email())
	assert.Empty(t, f.Err())
}
