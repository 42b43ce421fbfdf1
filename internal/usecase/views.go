// Package usecase defines the application-facing interfaces and their
// input/output types. Implementations live in the impl subpackage.
package usecase

import (
	"deckbox/internal/domain/entity"
)

// ResolvedTemplate is a card template with its element lists expanded.
type ResolvedTemplate struct {
	Template      *entity.CardTemplate `json:"template"`
	FrontElements []*entity.Element    `json:"front_elements"`
	BackElements  []*entity.Element    `json:"back_elements"`
}

// ResolvedCard is a card with its element list expanded.
type ResolvedCard struct {
	Card     *entity.Card      `json:"card"`
	Elements []*entity.Element `json:"elements"`
}

// CardDesignView is the fully resolved design of one card. Template is nil
// when the card carries a custom design, since nothing is inherited then.
type CardDesignView struct {
	Card     *ResolvedCard     `json:"card"`
	Template *ResolvedTemplate `json:"template"`
}

// BoxView is a box with its template and ordered cards fully resolved.
type BoxView struct {
	Box      *entity.Box       `json:"box"`
	Template *ResolvedTemplate `json:"template"`
	Cards    []*ResolvedCard   `json:"cards"`
}

// ShareStatus reports the public sharing state of a box.
type ShareStatus struct {
	IsPublic  bool   `json:"is_public"`
	ShareURL  string `json:"share_url,omitempty"`
	QRCodePNG []byte `json:"qr_code_png,omitempty"`
}
