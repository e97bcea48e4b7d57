package models

// Bundle is the stored record of a priced share. Contents, ExternalRef and
// Passphrase are the gated private part; everything else is public. Bundles
// are stored append-only per owner, with a global id mapping for direct
// lookup; the sealed/hidden/removed flags live in their own regions.
type Bundle struct {
	ID            uint64 `json:"id"`
	Owner         string `json:"owner"`
	PublicMessage string `json:"public_message"`
	ContentsText  string `json:"contents_text"`
	ExternalRef   string `json:"external_ref"`
	Passphrase    string `json:"passphrase"`
	Cost          uint64 `json:"cost"`
	CreatedAt     uint64 `json:"created_at"`
}

// BundleRef locates a bundle inside its owner's append-only list.
type BundleRef struct {
	Owner string `json:"owner"`
	Index uint32 `json:"index"`
}

// Contents is the private part of a bundle, returned only to unlockers.
type Contents struct {
	Text        string `json:"text,omitempty"`
	ExternalRef string `json:"external_ref,omitempty"`
	Passphrase  string `json:"passphrase,omitempty"`
}

// BundleView is the response shape for bundle reads: public fields always,
// Contents only when the requester has unlocked the bundle.
type BundleView struct {
	ID             uint64    `json:"id"`
	Handle         string    `json:"handle"`
	PublicMessage  string    `json:"public_message"`
	Cost           uint64    `json:"cost"`
	Sealed         bool      `json:"sealed"`
	HasExternalRef bool      `json:"has_external_ref"`
	Upvotes        uint32    `json:"upvotes"`
	Downvotes      uint32    `json:"downvotes"`
	CommentCount   uint32    `json:"comment_count"`
	CreatedAt      uint64    `json:"created_at"`
	Unlocked       bool      `json:"unlocked"`
	Contents       *Contents `json:"contents,omitempty"`
}

// SaleTx is appended to a bundle owner's log on every paid unlock.
type SaleTx struct {
	ID        string `json:"id"`
	BundleID  uint64 `json:"bundle_id"`
	Buyer     string `json:"buyer"`
	Amount    uint64 `json:"amount"`
	Timestamp uint64 `json:"timestamp"`
}

// PurchaseTx is the buyer-side record of the same unlock.
type PurchaseTx struct {
	ID        string `json:"id"`
	BundleID  uint64 `json:"bundle_id"`
	Handle    string `json:"handle"`
	Amount    uint64 `json:"amount"`
	Timestamp uint64 `json:"timestamp"`
}
