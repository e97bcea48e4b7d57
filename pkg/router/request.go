package router

import "bundlenet/pkg/config"

// Env is the host-supplied context of one call: the verified sender identity,
// funds attached to the call, the monotonic logical clock, and
// caller-attributable entropy. The core never reads the wall clock or an
// unseeded random source; everything nondeterministic arrives here.
type Env struct {
	Sender  string
	Funds   uint64
	Clock   uint64
	Entropy []byte
}

// Mutation is the closed set of state-changing requests. Adding an operation
// means adding a variant here and a case to the dispatch switch; the compiler
// keeps the two in sync.
type Mutation interface{ isMutation() }

// Query is the closed set of read-only requests.
type Query interface{ isQuery() }

// mutationBase carries the wire tag and the optional padding field. Padding
// is accepted and ignored on every mutation so request sizes can be equalized
// against traffic observers.
type mutationBase struct {
	Type    string `json:"type"`
	Padding string `json:"padding,omitempty"`
}

func (mutationBase) isMutation() {}

type queryBase struct {
	Type string `json:"type"`
}

func (queryBase) isQuery() {}

// --- mutations ---

type Register struct {
	mutationBase
	Handle      string `json:"handle"`
	Description string `json:"description,omitempty"`
}

type SetDescription struct {
	mutationBase
	Description string `json:"description"`
}

type SetThumbnail struct {
	mutationBase
	Thumbnail []byte `json:"thumbnail"`
}

type GenerateViewingKey struct {
	mutationBase
}

type SetViewingKey struct {
	mutationBase
	Key string `json:"key"`
}

type Deactivate struct{ mutationBase }
type Reactivate struct{ mutationBase }

type Follow struct {
	mutationBase
	Handle string `json:"handle"`
}

type Unfollow struct {
	mutationBase
	Handle string `json:"handle"`
}

type Block struct {
	mutationBase
	Handle string `json:"handle"`
}

type Unblock struct {
	mutationBase
	Handle string `json:"handle"`
}

type CreateBundle struct {
	mutationBase
	PublicMessage string `json:"public_message"`
	ContentsText  string `json:"contents_text,omitempty"`
	ExternalRef   string `json:"external_ref,omitempty"`
	Passphrase    string `json:"passphrase,omitempty"`
	Cost          uint64 `json:"cost"`
}

type SealBundle struct {
	mutationBase
	BundleID uint64 `json:"bundle_id"`
}

type HideBundle struct {
	mutationBase
	BundleID uint64 `json:"bundle_id"`
}

type UnhideBundle struct {
	mutationBase
	BundleID uint64 `json:"bundle_id"`
}

type UnlockBundle struct {
	mutationBase
	BundleID uint64 `json:"bundle_id"`
}

type Rate struct {
	mutationBase
	BundleID uint64 `json:"bundle_id"`
	Up       bool   `json:"up"`
}

type Unrate struct {
	mutationBase
	BundleID uint64 `json:"bundle_id"`
}

type Comment struct {
	mutationBase
	BundleID uint64 `json:"bundle_id"`
	Text     string `json:"text"`
	Rating   *bool  `json:"rating,omitempty"`
}

type DeleteComment struct {
	mutationBase
	BundleID uint64 `json:"bundle_id"`
	Index    uint32 `json:"comment_idx"`
}

// --- administrative mutations ---

type SetConstants struct {
	mutationBase
	Limits config.Limits `json:"limits"`
}

type ChangeAdmin struct {
	mutationBase
	Address string `json:"address"`
}

type Freeze struct{ mutationBase }
type Unfreeze struct{ mutationBase }

type Ban struct {
	mutationBase
	Handle string `json:"handle"`
}

type Unban struct {
	mutationBase
	Handle string `json:"handle"`
}

type RemoveBundle struct {
	mutationBase
	BundleID uint64 `json:"bundle_id"`
}

type UnremoveBundle struct {
	mutationBase
	BundleID uint64 `json:"bundle_id"`
}

// --- queries ---

type HandleAvailable struct {
	queryBase
	Handle string `json:"handle"`
}

type GetProfile struct {
	queryBase
	Handle string `json:"handle"`
}

type GetBundle struct {
	queryBase
	BundleID uint64 `json:"bundle_id"`
	Address  string `json:"address,omitempty"`
	Key      string `json:"viewing_key,omitempty"`
}

type ListBundles struct {
	queryBase
	Handle   string `json:"handle"`
	Page     uint32 `json:"page"`
	PageSize uint32 `json:"page_size"`
}

type ListComments struct {
	queryBase
	BundleID uint64 `json:"bundle_id"`
	Page     uint32 `json:"page"`
	PageSize uint32 `json:"page_size"`
}

type ListFollowing struct {
	queryBase
	Address  string `json:"address"`
	Key      string `json:"viewing_key"`
	Page     uint32 `json:"page"`
	PageSize uint32 `json:"page_size"`
}

type ListFollowers struct {
	queryBase
	Address  string `json:"address"`
	Key      string `json:"viewing_key"`
	Page     uint32 `json:"page"`
	PageSize uint32 `json:"page_size"`
}

type IsFollowing struct {
	queryBase
	Address string `json:"address"`
	Key     string `json:"viewing_key"`
	Handle  string `json:"handle"`
}

type ListUnlocked struct {
	queryBase
	Address  string `json:"address"`
	Key      string `json:"viewing_key"`
	Page     uint32 `json:"page"`
	PageSize uint32 `json:"page_size"`
}

type ListSales struct {
	queryBase
	Address  string `json:"address"`
	Key      string `json:"viewing_key"`
	Page     uint32 `json:"page"`
	PageSize uint32 `json:"page_size"`
}

type ListPurchases struct {
	queryBase
	Address  string `json:"address"`
	Key      string `json:"viewing_key"`
	Page     uint32 `json:"page"`
	PageSize uint32 `json:"page_size"`
}

type GetRating struct {
	queryBase
	Address  string `json:"address"`
	Key      string `json:"viewing_key"`
	BundleID uint64 `json:"bundle_id"`
}
