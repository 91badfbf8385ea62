package service

import "errors"

// Sentinel error kinds returned by the Service.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrInvalidActivity = errors.New("invalid activity")
	ErrBackpressure    = errors.New("activity queue full")
	ErrUnknownEntity   = errors.New("unknown entity")
)
