package bundle

import (
	"encoding/json"
	"fmt"
)

func encodeJSON(v interface{}) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}

func decodeJSON(raw []byte, out interface{}) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode bundle record: %w", err)
	}
	return nil
}
