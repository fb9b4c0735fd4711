package domain

import "errors"

var (
	// ErrBankNotFound is returned when the question bank source does not exist.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrBankEmpty is returned when the question bank holds no questions.
	ErrBankEmpty = errors.New("question bank is empty")
	// ErrBankMalformed indicates the bank could not be decoded or failed validation.
	ErrBankMalformed = errors.New("question bank is malformed")
	// ErrInvalidLength is returned for quiz lengths outside 1..bank size.
	ErrInvalidLength = errors.New("invalid quiz length")
	// ErrNoChoice is returned when an answer is submitted without a selection.
	ErrNoChoice = errors.New("no answer selected")
	// ErrUnknownOption indicates the submitted choice is not one of the options.
	ErrUnknownOption = errors.New("choice is not one of the options")
	// ErrNotAccepting is returned when the session is not waiting for an answer.
	ErrNotAccepting = errors.New("session is not accepting answers")
	// ErrSessionNotFound is returned when a live session id is unknown.
	ErrSessionNotFound = errors.New("quiz session not found")
)
