package models

// Comment is one stored entry in a bundle's append-only comment list.
type Comment struct {
	Commenter string `json:"commenter"`
	Text      string `json:"text"`
	Timestamp uint64 `json:"timestamp"`
}

// CommentView is the listed form: the author appears by handle, never by
// address, and Index is the stable position usable for deletion.
type CommentView struct {
	Index     uint32 `json:"index"`
	Handle    string `json:"handle"`
	Text      string `json:"text"`
	Timestamp uint64 `json:"timestamp"`
}
