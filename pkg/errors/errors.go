package errors

import "errors"

var errNoDSN = errors.New("sentry DSN is not configured")
