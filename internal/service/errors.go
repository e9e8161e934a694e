package service

import (
	"errors"
	"fmt"

	"taller-service/internal/client"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrNoteRequired       = errors.New("closing note required")
	ErrGatewayRejected    = errors.New("spreadsheet rejected the change")
	ErrGatewayUnavailable = errors.New("spreadsheet unavailable")
)

func gatewayError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, client.ErrRejected) {
		return fmt.Errorf("%w: %v", ErrGatewayRejected, err)
	}
	return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
}
