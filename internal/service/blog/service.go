package blog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/blog"
	"github.com/cmlabs-hris/hr-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hr-portal-go/internal/service/file"
)

// ImageStore is the part of file.ImageService the feed needs.
type ImageStore interface {
	StoreImage(ctx context.Context, r io.Reader) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, keys ...string)
	URL(key string) string
}

type BlogServiceImpl struct {
	blog.PostRepository
	employees employee.EmployeeRepository
	images    ImageStore
}

func NewBlogService(postRepo blog.PostRepository, employeeRepo employee.EmployeeRepository, images ImageStore) blog.BlogService {
	return &BlogServiceImpl{
		PostRepository: postRepo,
		employees:      employeeRepo,
		images:         images,
	}
}

// List implements blog.BlogService.
func (s *BlogServiceImpl) List(ctx context.Context, filter blog.ListPostsFilter) (blog.ListPostsResponse, error) {
	if err := filter.Validate(); err != nil {
		return blog.ListPostsResponse{}, err
	}

	posts, total, err := s.PostRepository.List(ctx, filter)
	if err != nil {
		return blog.ListPostsResponse{}, fmt.Errorf("failed to list posts: %w", err)
	}

	liked, err := s.likedBy(ctx, filter.ViewerNumber, posts...)
	if err != nil {
		return blog.ListPostsResponse{}, err
	}

	out := make([]blog.PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, blog.ToResponse(p, filter.ViewerNumber, liked[p.ID], s.images.URL))
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}

	return blog.ListPostsResponse{
		Posts:      out,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Get implements blog.BlogService.
func (s *BlogServiceImpl) Get(ctx context.Context, id int64, viewer int) (blog.PostResponse, error) {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return blog.PostResponse{}, err
	}
	return s.render(ctx, post, viewer)
}

// Create implements blog.BlogService.
func (s *BlogServiceImpl) Create(ctx context.Context, req blog.CreatePostRequest) (blog.PostResponse, error) {
	if err := req.Validate(); err != nil {
		return blog.PostResponse{}, err
	}
	if err := s.checkImages(ctx, req.Images); err != nil {
		return blog.PostResponse{}, err
	}

	authorName := ""
	author, err := s.employees.GetByNumber(ctx, req.AuthorNumber)
	switch {
	case err == nil:
		authorName = author.FullName()
	case !errors.Is(err, employee.ErrEmployeeNotFound):
		return blog.PostResponse{}, fmt.Errorf("failed to get author: %w", err)
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}

	created, err := s.PostRepository.Create(ctx, blog.Post{
		Title:        req.Title,
		Description:  req.Description,
		Tag:          req.Tag,
		Images:       images,
		VideoURL:     req.VideoURL,
		AuthorNumber: req.AuthorNumber,
		AuthorName:   authorName,
	})
	if err != nil {
		return blog.PostResponse{}, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("Blog post created", "id", created.ID, "author_number", created.AuthorNumber)
	return blog.ToResponse(created, req.AuthorNumber, false, s.images.URL), nil
}

// Update implements blog.BlogService.
func (s *BlogServiceImpl) Update(ctx context.Context, req blog.UpdatePostRequest) (blog.PostResponse, error) {
	if err := req.Validate(); err != nil {
		return blog.PostResponse{}, err
	}

	post, err := s.getPost(ctx, req.ID)
	if err != nil {
		return blog.PostResponse{}, err
	}
	if !post.IsAuthor(req.EditorNumber) {
		return blog.PostResponse{}, blog.ErrNotAuthor
	}

	previous := post.Images
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Description != nil {
		post.Description = *req.Description
	}
	if req.Tag != nil {
		post.Tag = *req.Tag
	}
	if req.ClearVideo {
		post.VideoURL = nil
	} else if req.VideoURL != nil {
		post.VideoURL = req.VideoURL
	}
	if req.Images != nil {
		if err := s.checkImages(ctx, added(previous, *req.Images)); err != nil {
			return blog.PostResponse{}, err
		}
		post.Images = *req.Images
	}

	updated, err := s.PostRepository.Update(ctx, post)
	if err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			return blog.PostResponse{}, err
		}
		return blog.PostResponse{}, fmt.Errorf("failed to update post: %w", err)
	}

	if removed := added(updated.Images, previous); len(removed) > 0 {
		s.deleteUnreferenced(ctx, removed)
	}

	slog.Info("Blog post updated", "id", updated.ID, "editor_number", req.EditorNumber)
	return s.render(ctx, updated, req.EditorNumber)
}

// Delete implements blog.BlogService.
func (s *BlogServiceImpl) Delete(ctx context.Context, id int64, employeeNumber int) error {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return err
	}
	if !post.IsAuthor(employeeNumber) {
		return blog.ErrNotAuthor
	}

	if err := s.PostRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}
	s.deleteUnreferenced(ctx, post.Images)

	slog.Info("Blog post deleted", "id", id, "employee_number", employeeNumber)
	return nil
}

// Like implements blog.BlogService.
func (s *BlogServiceImpl) Like(ctx context.Context, id int64, employeeNumber int) (blog.LikeResponse, error) {
	likes, err := s.PostRepository.Like(ctx, id, employeeNumber)
	if err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			return blog.LikeResponse{}, err
		}
		return blog.LikeResponse{}, fmt.Errorf("failed to like post: %w", err)
	}
	return blog.LikeResponse{PostID: id, Likes: likes, LikedByMe: true}, nil
}

// Unlike implements blog.BlogService.
func (s *BlogServiceImpl) Unlike(ctx context.Context, id int64, employeeNumber int) (blog.LikeResponse, error) {
	likes, err := s.PostRepository.Unlike(ctx, id, employeeNumber)
	if err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			return blog.LikeResponse{}, err
		}
		return blog.LikeResponse{}, fmt.Errorf("failed to unlike post: %w", err)
	}
	return blog.LikeResponse{PostID: id, Likes: likes, LikedByMe: false}, nil
}

// UploadImages implements blog.BlogService. Either every file is stored or
// none is.
func (s *BlogServiceImpl) UploadImages(ctx context.Context, req blog.UploadImagesRequest) (blog.UploadImagesResponse, error) {
	if len(req.Files) == 0 {
		return blog.UploadImagesResponse{}, blog.ErrNoImages
	}
	if len(req.Files) > blog.MaxImagesPerPost {
		return blog.UploadImagesResponse{}, blog.ErrTooManyImages
	}

	stored := make([]string, 0, len(req.Files))
	for _, fh := range req.Files {
		key, err := s.storeUpload(ctx, fh)
		if err != nil {
			s.images.Delete(ctx, stored...)
			slog.Warn("Image upload rejected", "filename", fh.Filename, "size", fh.Size, "error", err)
			return blog.UploadImagesResponse{}, err
		}
		stored = append(stored, key)
	}

	return blog.UploadImagesResponse{Images: stored}, nil
}

func (s *BlogServiceImpl) storeUpload(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	key, err := s.images.StoreImage(ctx, src)
	if err != nil {
		if errors.Is(err, file.ErrUnsupportedFormat) {
			return "", fmt.Errorf("%w: %w", blog.ErrUnsupportedImage, err)
		}
		return "", err
	}
	return key, nil
}

// OpenImage implements blog.BlogService.
func (s *BlogServiceImpl) OpenImage(ctx context.Context, name string) (io.ReadCloser, string, error) {
	rc, err := s.images.Open(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidPath) {
			return nil, "", blog.ErrImageNotFound
		}
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	return rc, file.ContentTypeWebP, nil
}

func (s *BlogServiceImpl) getPost(ctx context.Context, id int64) (blog.Post, error) {
	post, err := s.PostRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			return blog.Post{}, err
		}
		return blog.Post{}, fmt.Errorf("failed to get post %d: %w", id, err)
	}
	return post, nil
}

func (s *BlogServiceImpl) render(ctx context.Context, post blog.Post, viewer int) (blog.PostResponse, error) {
	liked, err := s.likedBy(ctx, viewer, post)
	if err != nil {
		return blog.PostResponse{}, err
	}
	return blog.ToResponse(post, viewer, liked[post.ID], s.images.URL), nil
}

func (s *BlogServiceImpl) likedBy(ctx context.Context, viewer int, posts ...blog.Post) (map[int64]bool, error) {
	if viewer <= 0 || len(posts) == 0 {
		return map[int64]bool{}, nil
	}
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	liked, err := s.PostRepository.LikedBy(ctx, viewer, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}
	return liked, nil
}

// checkImages makes sure every referenced name was uploaded first.
func (s *BlogServiceImpl) checkImages(ctx context.Context, names []string) error {
	for _, name := range names {
		ok, err := s.images.Exists(ctx, name)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidPath) {
				return fmt.Errorf("%w: %s", blog.ErrImageNotFound, name)
			}
			return fmt.Errorf("failed to check image %s: %w", name, err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", blog.ErrImageNotFound, name)
		}
	}
	return nil
}

// added returns the names in next that are not in prev.
func added(prev, next []string) []string {
	seen := make(map[string]struct{}, len(prev))
	for _, name := range prev {
		seen[name] = struct{}{}
	}
	var out []string
	for _, name := range next {
		if _, ok := seen[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

// deleteUnreferenced removes the stored files among keys that no post lists
// any more. When the check fails the files are kept.
func (s *BlogServiceImpl) deleteUnreferenced(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	inUse, err := s.PostRepository.ImagesInUse(ctx, keys)
	if err != nil {
		slog.Error("Failed to check image references, keeping files", "images", keys, "error", err)
		return
	}

	orphans := make([]string, 0, len(keys))
	for _, k := range keys {
		if !inUse[k] {
			orphans = append(orphans, k)
		}
	}
	if len(orphans) > 0 {
		s.images.Delete(ctx, orphans...)
	}
}
