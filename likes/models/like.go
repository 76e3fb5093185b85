// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

// Toggle operation codes. The wire format uses the raw counter delta.
const (
	OpAdd    = 1
	OpRemove = -1
)

// IsValidOp reports whether op is a known toggle operation.
func IsValidOp(op int) bool {
	return op == OpAdd || op == OpRemove
}

// Like is the membership document stored at <postDocPath>/likes/<actor>.
// Its existence is the source of truth for "actor has liked this post".
type Like struct {
	LikeTime int64 `json:"likeTime"`
}
