package blog

import (
	"errors"
	"strings"
)

var (
	ErrNotFound        = errors.New("no such blog")
	ErrCommentNotFound = errors.New("comment not found")
	ErrAlreadyVoted    = errors.New("already voted")
	ErrForbidden       = errors.New("forbidden")
)

type alreadyVotedError struct {
	direction string
}

func (e alreadyVotedError) Error() string {
	return "you have already " + e.direction + " this blog"
}

func (e alreadyVotedError) Is(target error) bool {
	return target == ErrAlreadyVoted
}

var (
	errAlreadyUpvoted   = alreadyVotedError{direction: "upvoted"}
	errAlreadyDownvoted = alreadyVotedError{direction: "downvoted"}
)

type forbiddenError struct {
	action string
}

func (e forbiddenError) Error() string {
	return "you are not authorized to " + e.action
}

func (e forbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

// ValidationError reports required fields that were left empty.
type ValidationError struct {
	Message     string
	EmptyFields []string
}

func (e *ValidationError) Error() string {
	if len(e.EmptyFields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.EmptyFields, ", ")
}

func requireFields(fields ...[2]string) error {
	var empty []string
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			empty = append(empty, f[0])
		}
	}
	if len(empty) > 0 {
		return &ValidationError{Message: "Please fill in all the fields", EmptyFields: empty}
	}
	return nil
}
