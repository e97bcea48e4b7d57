package social

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
)

func mustEncode(m member) []byte {
	raw, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	return raw
}

func decodeMember(raw []byte) (member, error) {
	var m member
	if err := json.Unmarshal(raw, &m); err != nil {
		return member{}, fmt.Errorf("decode follow entry: %w", err)
	}
	return m, nil
}

func decodeU32(raw []byte) uint32 {
	return binary.BigEndian.Uint32(raw)
}
