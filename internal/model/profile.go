package model

import "time"

// PlaceholderValue marks profile fields that have no upstream source yet.
// It is a deliberate explicit marker carried through to the response, not
// an error state.
const PlaceholderValue = "No active Logic"

// PlatformUser is the raw Roblox user record as returned by the profile
// endpoint. Created is kept as the upstream's raw string; parsing happens
// during aggregation so a malformed timestamp only costs the age field.
type PlatformUser struct {
	PlatformID  int64
	Username    string
	DisplayName string
	Created     string
	Description string
}

// Profile is the merged result of one lookup. It is always structurally
// complete: fields whose source call failed hold their zero value and are
// rendered as explicit sentinels at the API boundary, never omitted.
type Profile struct {
	PlatformID  int64
	Username    string
	DisplayName string
	Description string

	// Created is the raw upstream timestamp; CreatedAt is its parsed UTC
	// form, zero when Created was missing or unparseable.
	Created   string
	CreatedAt time.Time

	// AccountAgeDays and FriendsCount are nil when their source was
	// unavailable.
	AccountAgeDays *int
	FriendsCount   *int

	// Avatar URLs are empty strings when the thumbnail fetch failed.
	AvatarURL     string
	AvatarBustURL string
}
