package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure so callers can react without parsing
// error text.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindConnectivity
	KindInvalidCredentials
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindConnectivity:
		return "connectivity"
	case KindInvalidCredentials:
		return "invalid_credentials"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind. A target without a message
// matches every error of its kind, which makes the Err* kind values usable
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrConflict           = &Error{Kind: KindConflict}
	ErrConnectivity       = &Error{Kind: KindConnectivity}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid credentials"}

	ErrInvalidEmail      = &Error{Kind: KindValidation, Message: "please enter a valid email address"}
	ErrPasswordTooShort  = &Error{Kind: KindValidation, Message: "password must be at least 8 characters"}
	ErrInvalidWallet     = &Error{Kind: KindValidation, Message: "please enter a valid Ethereum wallet address"}
	ErrInvalidTwitter    = &Error{Kind: KindValidation, Message: "please enter a valid Twitter username"}
	ErrInvalidDiscord    = &Error{Kind: KindValidation, Message: "please enter a valid Discord username"}
	ErrEmptyUpdate       = &Error{Kind: KindValidation, Message: "no fields to update"}
	ErrTaskUndo          = &Error{Kind: KindValidation, Message: "a completed task cannot be undone"}
	ErrUserNotFound      = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrAlreadyRegistered = &Error{Kind: KindConflict, Message: "this email is already on the waitlist"}
	ErrWalletTaken       = &Error{Kind: KindConflict, Message: "this wallet address is already linked"}
	ErrUnavailable       = &Error{Kind: KindConnectivity, Message: "unable to connect to the database"}
)

func newError(base *Error, err error) *Error {
	return &Error{Kind: base.Kind, Message: base.Message, Err: err}
}

// KindOf returns the kind carried by err, or KindInternal for errors that did
// not originate in this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the user facing message of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "something went wrong, please try again"
}
