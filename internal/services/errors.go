package services

import "errors"

// Typed errors returned by the service layer. Handlers map these to HTTP
// statuses with errors.Is; services wrap them with fmt.Errorf("...: %w")
// when adding context.
var (
	ErrNotFound           = errors.New("not found")
	ErrNotAvailable       = errors.New("listing not available")
	ErrAlreadyModerated   = errors.New("listing already moderated")
	ErrAlreadyResolved    = errors.New("already resolved")
	ErrInvalidTransition  = errors.New("invalid tracking transition")
	ErrSelfDealing        = errors.New("cannot deal on own listing")
	ErrNotNegotiable      = errors.New("listing not negotiable")
	ErrInvalidPrice       = errors.New("invalid offer price")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrNoAvailableItems   = errors.New("no available items in cart")
	ErrForbidden          = errors.New("forbidden")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSuspended          = errors.New("account suspended")
)
