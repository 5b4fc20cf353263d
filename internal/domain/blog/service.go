package blog

import (
	"context"
	"io"
)

type BlogService interface {
	List(ctx context.Context, filter ListPostsFilter) (ListPostsResponse, error)
	Get(ctx context.Context, id int64, viewer int) (PostResponse, error)
	Create(ctx context.Context, req CreatePostRequest) (PostResponse, error)
	Update(ctx context.Context, req UpdatePostRequest) (PostResponse, error)
	Delete(ctx context.Context, id int64, employeeNumber int) error
	Like(ctx context.Context, id int64, employeeNumber int) (LikeResponse, error)
	Unlike(ctx context.Context, id int64, employeeNumber int) (LikeResponse, error)

	// UploadImages re-encodes each upload as WebP and returns the stored names.
	UploadImages(ctx context.Context, req UploadImagesRequest) (UploadImagesResponse, error)
	// OpenImage streams a stored image.
	OpenImage(ctx context.Context, name string) (io.ReadCloser, string, error)
}
