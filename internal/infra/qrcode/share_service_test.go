package qrcode

import (
	"bytes"
	"testing"

	"deckbox/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestShareService_ShareURL(t *testing.T) {
	cfg := &config.Config{Share: &config.ShareConfig{BaseURL: "https://deckbox.example/"}}
	svc := NewShareService(cfg)

	boxID := uuid.New()

	// Trailing slashes on the base URL never double up.
	assert.Equal(t, "https://deckbox.example/public/boxes/"+boxID.String(), svc.ShareURL(boxID))
}

func TestShareService_Defaults(t *testing.T) {
	svc := NewShareService(&config.Config{})

	boxID := uuid.New()
	assert.Equal(t, "http://localhost:3000/public/boxes/"+boxID.String(), svc.ShareURL(boxID))
}

func TestShareService_ShareQR(t *testing.T) {
	cfg := &config.Config{Share: &config.ShareConfig{
		BaseURL:         "https://deckbox.example",
		QRSize:          128,
		QRRecoveryLevel: "H",
	}}
	svc := NewShareService(cfg)

	png, err := svc.ShareQR(uuid.New())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}
