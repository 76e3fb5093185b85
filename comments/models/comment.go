// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

// Comment is the document stored at <postDocPath>/comments/<key>. The key
// embeds the sender, the creation tick and a random disambiguator, so
// comments sort roughly by author and time without a dedicated index.
type Comment struct {
	Comment               string `json:"comment"`
	CommentSenderUsername string `json:"commentSenderUsername"`
	CreationTime          int64  `json:"creationTime"`
}
