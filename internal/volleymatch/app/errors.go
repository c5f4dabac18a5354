package app

import "errors"

// Ошибки сценариев.
var (
	ErrPlayerExists     = errors.New("user already has a player")
	ErrNoAvatar         = errors.New("player has no avatar")
	ErrUnsupportedImage = errors.New("unsupported image content type")
)
