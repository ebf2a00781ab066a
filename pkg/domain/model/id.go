package model

import (
	"encoding/base64"
	"unicode/utf8"
)

// DecodedID is the result of decoding an opaque GraphQL id
type DecodedID struct {
	Value string
	// Fallback is true when the input was not valid base64 text and Value is the input itself
	Fallback bool
}

// DecodeID decodes a base64-wrapped GraphQL id into its plain form. Input that is not
// standard base64 of UTF-8 text is returned unchanged with Fallback set.
func DecodeID(s string) DecodedID {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil || !utf8.Valid(raw) {
		return DecodedID{Value: s, Fallback: true}
	}
	return DecodedID{Value: string(raw)}
}

// EncodeID is the inverse of DecodeID
func EncodeID(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}
