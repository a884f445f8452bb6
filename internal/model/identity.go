package model

import "fmt"

// DefaultDiscriminator is used when the identity provider omits the
// discriminator field (newer Discord accounts have none).
const DefaultDiscriminator = "0000"

// ExternalIdentity is the Discord identity resolved for one authentication
// event. It is immutable once resolved and is never persisted beyond the
// session that carries it.
type ExternalIdentity struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	AvatarHash    string `json:"avatar,omitempty"`
	Locale        string `json:"locale,omitempty"`
}

// Tag returns the username#discriminator form used in login notifications.
func (i ExternalIdentity) Tag() string {
	disc := i.Discriminator
	if disc == "" {
		disc = DefaultDiscriminator
	}
	return fmt.Sprintf("%s#%s", i.Username, disc)
}

// AvatarURL returns the CDN URL for the identity's avatar, or an empty
// string when no avatar hash is set.
func (i ExternalIdentity) AvatarURL() string {
	if i.AvatarHash == "" {
		return ""
	}
	return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", i.ID, i.AvatarHash)
}
