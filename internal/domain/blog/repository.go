package blog

import "context"

type PostRepository interface {
	// List returns a page of posts, newest first, and the total count.
	List(ctx context.Context, filter ListPostsFilter) ([]Post, int64, error)
	GetByID(ctx context.Context, id int64) (Post, error)
	Create(ctx context.Context, p Post) (Post, error)
	Update(ctx context.Context, p Post) (Post, error)
	Delete(ctx context.Context, id int64) error

	// Like records the employee's like once and returns the new count.
	Like(ctx context.Context, postID int64, employeeNumber int) (int, error)
	// Unlike removes the employee's like if present; the count never drops below zero.
	Unlike(ctx context.Context, postID int64, employeeNumber int) (int, error)
	// LikedBy reports which of postIDs the employee has liked.
	LikedBy(ctx context.Context, employeeNumber int, postIDs []int64) (map[int64]bool, error)
	// ImagesInUse returns the subset of keys some post still lists.
	ImagesInUse(ctx context.Context, keys []string) (map[string]bool, error)
}
