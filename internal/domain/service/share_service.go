package service

import "github.com/google/uuid"

// ShareService builds the public share surface for a box: the shareable
// front-end URL and a QR code encoding it.
type ShareService interface {
	// ShareURL returns the public view URL for a box.
	ShareURL(boxID uuid.UUID) string

	// ShareQR returns a QR code PNG encoding the share URL.
	ShareQR(boxID uuid.UUID) ([]byte, error)
}
