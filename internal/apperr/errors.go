package apperr

import "errors"

var (
	ErrNoDocuments = errors.New("no markdown documents found")
	ErrUserAbort   = errors.New("aborted by user")
)
