package registration

import "errors"

// ErrAlreadyRegistered is returned by the repository when a student with the
// same email identity exists. It is an outcome, not a failure.
var ErrAlreadyRegistered = errors.New("already registered with this email")

// User-facing messages. The two failure messages tell apart a failed lookup
// from a failed insert.
const (
	MsgRegistered        = "Registration successful!"
	MsgAlreadyRegistered = "You are already registered with this email!"
	MsgLookupFailed      = "An error occurred while checking your registration."
	MsgInsertFailed      = "An error occurred while processing your registration."
	MsgInvalidBody       = "Invalid request body"
)
