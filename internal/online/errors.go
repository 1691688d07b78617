package online

import "errors"

var (
	ErrNotAuthenticated   = errors.New("user not authenticated")
	ErrAlreadyUpvoted     = errors.New("you have already upvoted this drug")
	ErrNotOwner           = errors.New("you can only delete your own drugs")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password should be at least 6 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidUsername    = errors.New("username must not be empty")
	ErrNotFound           = errors.New("drug not found")
)
