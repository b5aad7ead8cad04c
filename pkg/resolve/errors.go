package resolve

import "fmt"

// Code classifies a resolution failure, in the manner of getaddrinfo's EAI_* codes
type Code int

const (
	CodeNoName Code = iota + 1
	CodeAgain
	CodeFail
	CodeNoData
	CodeFamily
	CodeSystem
)

var codeMessages = map[Code]string{
	CodeNoName: "Name or service not known",
	CodeAgain:  "Temporary failure in name resolution",
	CodeFail:   "Non-recoverable failure in name resolution",
	CodeNoData: "No address associated with hostname",
	CodeFamily: "Address family for hostname not supported",
	CodeSystem: "System error",
}

// String returns the default human-readable text for the code
func (c Code) String() string {
	msg, ok := codeMessages[c]
	if !ok {
		return fmt.Sprintf("Unknown error %d", int(c))
	}
	return msg
}

// ResolutionError is returned when the resolution facility could not produce any addresses.
// Message is the facility's own text and is meant to be shown to the user unchanged.
type ResolutionError struct {
	Code    Code
	Message string
	Host    string
	Err     error
}

func newResolutionError(host string, code Code, msg string, err error) *ResolutionError {
	if msg == "" {
		msg = code.String()
	}
	return &ResolutionError{
		Code:    code,
		Message: msg,
		Host:    host,
		Err:     err,
	}
}

func (e *ResolutionError) Error() string {
	return e.Message
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
