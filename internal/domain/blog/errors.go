package blog

import "errors"

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrNotAuthor        = errors.New("only the author can modify this post")
	ErrNoImages         = errors.New("no images were uploaded")
	ErrTooManyImages    = errors.New("too many images")
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrImageNotFound    = errors.New("image not found")
)
