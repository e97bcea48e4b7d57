package router

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The wire envelope is a flat JSON object tagged by "type". Decoding is
// strict: an unknown type or an unknown field rejects the request before any
// state is touched.

var mutationTypes = map[string]func() Mutation{
	"register":             func() Mutation { return &Register{} },
	"set_description":      func() Mutation { return &SetDescription{} },
	"set_thumbnail":        func() Mutation { return &SetThumbnail{} },
	"generate_viewing_key": func() Mutation { return &GenerateViewingKey{} },
	"set_viewing_key":      func() Mutation { return &SetViewingKey{} },
	"deactivate":           func() Mutation { return &Deactivate{} },
	"reactivate":           func() Mutation { return &Reactivate{} },
	"follow":               func() Mutation { return &Follow{} },
	"unfollow":             func() Mutation { return &Unfollow{} },
	"block":                func() Mutation { return &Block{} },
	"unblock":              func() Mutation { return &Unblock{} },
	"create_bundle":        func() Mutation { return &CreateBundle{} },
	"seal_bundle":          func() Mutation { return &SealBundle{} },
	"hide_bundle":          func() Mutation { return &HideBundle{} },
	"unhide_bundle":        func() Mutation { return &UnhideBundle{} },
	"unlock_bundle":        func() Mutation { return &UnlockBundle{} },
	"rate":                 func() Mutation { return &Rate{} },
	"unrate":               func() Mutation { return &Unrate{} },
	"comment":              func() Mutation { return &Comment{} },
	"delete_comment":       func() Mutation { return &DeleteComment{} },
	"set_constants":        func() Mutation { return &SetConstants{} },
	"change_admin":         func() Mutation { return &ChangeAdmin{} },
	"freeze":               func() Mutation { return &Freeze{} },
	"unfreeze":             func() Mutation { return &Unfreeze{} },
	"ban":                  func() Mutation { return &Ban{} },
	"unban":                func() Mutation { return &Unban{} },
	"remove_bundle":        func() Mutation { return &RemoveBundle{} },
	"unremove_bundle":      func() Mutation { return &UnremoveBundle{} },
}

var queryTypes = map[string]func() Query{
	"handle_available": func() Query { return &HandleAvailable{} },
	"get_profile":      func() Query { return &GetProfile{} },
	"get_bundle":       func() Query { return &GetBundle{} },
	"list_bundles":     func() Query { return &ListBundles{} },
	"list_comments":    func() Query { return &ListComments{} },
	"list_following":   func() Query { return &ListFollowing{} },
	"list_followers":   func() Query { return &ListFollowers{} },
	"is_following":     func() Query { return &IsFollowing{} },
	"list_unlocked":    func() Query { return &ListUnlocked{} },
	"list_sales":       func() Query { return &ListSales{} },
	"list_purchases":   func() Query { return &ListPurchases{} },
	"get_rating":       func() Query { return &GetRating{} },
}

func peekType(raw []byte) (string, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if env.Type == "" {
		return "", fmt.Errorf("%w: missing type", ErrBadRequest)
	}
	return env.Type, nil
}

func decodeStrict(raw []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// DecodeMutation parses a mutating request envelope.
func DecodeMutation(raw []byte) (Mutation, error) {
	t, err := peekType(raw)
	if err != nil {
		return nil, err
	}
	build, ok := mutationTypes[t]
	if !ok {
		return nil, fmt.Errorf("%w: unknown mutation type %q", ErrBadRequest, t)
	}
	m := build()
	if err := decodeStrict(raw, m); err != nil {
		return nil, err
	}
	return m, nil
}

// DecodeQuery parses a read-only request envelope.
func DecodeQuery(raw []byte) (Query, error) {
	t, err := peekType(raw)
	if err != nil {
		return nil, err
	}
	build, ok := queryTypes[t]
	if !ok {
		return nil, fmt.Errorf("%w: unknown query type %q", ErrBadRequest, t)
	}
	q := build()
	if err := decodeStrict(raw, q); err != nil {
		return nil, err
	}
	return q, nil
}
