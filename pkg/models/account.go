package models

// Account is the stored per-owner record. The owner identity (the verified
// sender address) is the storage key; the handle is the public name.
type Account struct {
	Owner       string `json:"owner"`
	Handle      string `json:"handle"`
	Description string `json:"description"`
}

// Profile is the public view of an account, readable without authentication.
type Profile struct {
	Handle        string `json:"handle"`
	Description   string `json:"description"`
	Thumbnail     []byte `json:"thumbnail,omitempty"`
	FollowerCount uint32 `json:"follower_count"`
	Active        bool   `json:"active"`
}
