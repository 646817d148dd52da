package flow

import (
	"errors"
	"sync"
	"time"
)

// State is the position of the bootstrap flow
type State int

const (
	// Unauthenticated -> collecting email and password
	Unauthenticated State = iota
	// OtpPending -> password accepted, collecting the emailed OTP code
	OtpPending
	// Authenticated -> OTP verified, terminal for this flow
	Authenticated
)

// ErrWrongState is returned when a submit does not match the current state
var ErrWrongState = errors.New("flow is not in the expected state")

const (
	connectErrMsg = "Unable to connect to the server. Please try again later."
	sendOtpErrMsg = "Failed to send OTP."
	verifyErrMsg  = "Verify OTP Error"
)

// Flow drives the login session bootstrap of the admin console. It holds the
// transient identity between the login call and the OTP verification call,
// there is no server side session to lean on. Submits are user driven, one at
// a time; the mutex only guards against the timers and the async issuance.
type Flow struct {
	api           API
	redirect      func()
	errMsg        string
	userID        string
	email         string
	errClearAfter time.Duration
	redirectDelay time.Duration
	errSeq        int
	state         State
	mu            sync.Mutex
}

// Option configures a Flow
type Option func(*Flow)

// WithErrClearAfter sets how long a transient OTP error stays visible
func WithErrClearAfter(d time.Duration) Option {
	return func(f *Flow) {
		f.errClearAfter = d
	}
}

// WithRedirectDelay sets the confirmation delay before the redirect hook runs
func WithRedirectDelay(d time.Duration) Option {
	return func(f *Flow) {
		f.redirectDelay = d
	}
}

// WithRedirect sets the hook invoked once the flow reaches Authenticated
func WithRedirect(fn func()) Option {
	return func(f *Flow) {
		f.redirect = fn
	}
}

// New creates a bootstrap flow in the Unauthenticated state
func New(api API, opts ...Option) *Flow {
	f := &Flow{
		api:           api,
		state:         Unauthenticated,
		errClearAfter: 2 * time.Second,
		redirectDelay: 1 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// SubmitCredentials is a function that is used to submit the email and
// password. On success the flow moves to OtpPending and triggers the OTP
// issuance in the background so that typing is never blocked on delivery.
func (f *Flow) SubmitCredentials(email, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Unauthenticated {
		return ErrWrongState
	}
	f.errMsg = ""

	reply, err := f.api.Login(email, password)
	if err != nil {
		f.errMsg = connectErrMsg
		return nil
	}
	if !reply.Success {
		f.errMsg = reply.Message
		return nil
	}

	f.userID = reply.UserID
	f.email = email
	f.state = OtpPending

	go f.issueCode()
	return nil
}

// SubmitCode is a function that is used to submit the emailed OTP code. A
// failed attempt keeps the flow in OtpPending and surfaces a transient error
// that clears on its own, the code is resubmittable.
func (f *Flow) SubmitCode(code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != OtpPending {
		return ErrWrongState
	}

	reply, err := f.api.VerifyOtp(f.userID, code)
	if err != nil {
		f.setTransientErrorLocked(verifyErrMsg)
		return nil
	}
	if !reply.Success {
		f.setTransientErrorLocked(reply.Message)
		return nil
	}

	f.errMsg = ""
	f.state = Authenticated

	if f.redirect != nil {
		time.AfterFunc(f.redirectDelay, f.redirect)
	}
	return nil
}

// Resend is a function that is used to request another OTP code, each resend
// is simply a fresh issuance that supersedes the previous code
func (f *Flow) Resend() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != OtpPending {
		return ErrWrongState
	}

	go f.issueCode()
	return nil
}

// Reset is a function that is used to tear the flow down to the
// Unauthenticated state, clearing the held identity
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state = Unauthenticated
	f.userID = ""
	f.email = ""
	f.errMsg = ""
	f.errSeq++
}

// State returns the current state of the flow
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state
}

// Err returns the currently surfaced error message, if any
func (f *Flow) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.errMsg
}

// UserID returns the user ID held by the flow
func (f *Flow) UserID() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.userID
}

// Email returns the email address held by the flow
func (f *Flow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.email
}

func (f *Flow) issueCode() {
	f.mu.Lock()
	userID, email := f.userID, f.email
	f.mu.Unlock()

	reply, err := f.api.RequestOtp(userID, email)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil || !reply.Success {
		f.setTransientErrorLocked(sendOtpErrMsg)
	}
}

// setTransientErrorLocked surfaces an error message that clears itself unless
// a newer message has replaced it in the meantime. Callers hold the mutex.
func (f *Flow) setTransientErrorLocked(msg string) {
	f.errMsg = msg
	f.errSeq++
	seq := f.errSeq

	time.AfterFunc(f.errClearAfter, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.errSeq == seq {
			f.errMsg = ""
		}
	})
}
