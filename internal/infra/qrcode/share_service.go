// Package qrcode implements the share surface for public boxes: the share
// URL and its QR code rendering.
package qrcode

import (
	"fmt"
	"strings"

	"deckbox/config"
	"deckbox/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const defaultQRSize = 256

type shareService struct {
	baseURL              string
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewShareService creates a new share service instance.
func NewShareService(cfg *config.Config) service.ShareService {
	baseURL := "http://localhost:3000"
	size := defaultQRSize
	level := qrcode.Medium

	if cfg.Share != nil {
		if cfg.Share.BaseURL != "" {
			baseURL = cfg.Share.BaseURL
		}
		if cfg.Share.QRSize > 0 {
			size = cfg.Share.QRSize
		}
		switch cfg.Share.QRRecoveryLevel {
		case "L":
			level = qrcode.Low
		case "M":
			level = qrcode.Medium
		case "Q":
			level = qrcode.High
		case "H":
			level = qrcode.Highest
		}
	}

	return &shareService{
		baseURL:              strings.TrimRight(baseURL, "/"),
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// ShareURL returns the public view URL for a box.
func (s *shareService) ShareURL(boxID uuid.UUID) string {
	return fmt.Sprintf("%s/public/boxes/%s", s.baseURL, boxID)
}

// ShareQR returns a QR code PNG encoding the share URL.
func (s *shareService) ShareQR(boxID uuid.UUID) ([]byte, error) {
	qrCode, err := qrcode.New(s.ShareURL(boxID), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}
