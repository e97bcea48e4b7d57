package kvstore

import "encoding/binary"

// Persisted state is organized as independent namespaced regions. Each key is
// the region name followed by zero or more parts, all joined with a 0x00
// separator. Numeric parts are big-endian encoded so lexicographic key order
// matches numeric order.
const (
	// global configuration
	RegionConfig = "config"

	// accounts and handles
	RegionAccount     = "account"
	RegionAccountImg  = "account-img"
	RegionHandle      = "handle"
	RegionViewingKey  = "vkey"
	RegionDeactivated = "deactivated"
	RegionBanned      = "banned"

	// bundles
	RegionBundle      = "bundle"
	RegionBundleByID  = "id-to-bundle"
	RegionBundleCount = "bundle-count"
	RegionSealed      = "sealed"
	RegionHidden      = "hidden"
	RegionRemoved     = "removed"

	// unlocks
	RegionUnlocked     = "unlocked"
	RegionUnlockedByID = "id-to-unlocked"

	// ratings and comments
	RegionUpvotes        = "upvotes"
	RegionDownvotes      = "downvotes"
	RegionRated          = "rated"
	RegionComments       = "comments"
	RegionDeletedComment = "del-comment"

	// follow graph; the -idx regions map member address to list index so
	// membership checks avoid scanning the lists
	RegionFollowing     = "following"
	RegionFollowingIdx  = "following-idx"
	RegionFollowers     = "followers"
	RegionFollowersIdx  = "followers-idx"
	RegionFollowerCount = "follower-count"
	RegionBlocked       = "blocked"

	// transaction logs
	RegionSaleTx     = "sale-tx"
	RegionPurchaseTx = "purchase-tx"
)

const keySeparator = 0x00

// Key builds a namespaced key from a region name and key parts.
func Key(region string, parts ...[]byte) []byte {
	size := len(region)
	for _, p := range parts {
		size += 1 + len(p)
	}
	key := make([]byte, 0, size)
	key = append(key, region...)
	for _, p := range parts {
		key = append(key, keySeparator)
		key = append(key, p...)
	}
	return key
}

// U64Key encodes a numeric id as a fixed-width big-endian key part.
func U64Key(id uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return b[:]
}

// U32Key encodes a 32-bit index as a fixed-width big-endian key part.
func U32Key(idx uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], idx)
	return b[:]
}
