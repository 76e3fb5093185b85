// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

// Toggle operation codes. The wire format uses the raw counter delta.
const (
	OpFollow   = 1
	OpUnfollow = -1
)

// IsValidOp reports whether op is a known toggle operation.
func IsValidOp(op int) bool {
	return op == OpFollow || op == OpUnfollow
}
