package service

// AvatarResolver turns a stored avatar reference into a URL a browser can load.
type AvatarResolver interface {
	AvatarURL(avatar string) string
}
