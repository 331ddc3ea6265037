package webhook

import "errors"

// Error is the pre-sanitized webhook failure surfaced to callers. Message
// only ever describes the upstream status or a timeout, never the raw
// transport error, the configured URL or the secret.
type Error struct {
	Message string
	Status  int // 0 when no HTTP status applies (timeout)
}

func (e *Error) Error() string {
	return e.Message
}

func IsError(err error) (*Error, bool) {
	var webhookErr *Error
	ok := errors.As(err, &webhookErr)
	return webhookErr, ok
}
