package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/hr-portal-go/internal/domain/blog"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/database"
)

type postRepositoryImpl struct {
	db *database.DB
}

func NewPostRepository(db *database.DB) blog.PostRepository {
	return &postRepositoryImpl{db: db}
}

const postColumns = `id, title, description, tag, images, video_url, author_number,
	author_name, likes, created_at, updated_at`

func scanPost(row pgx.Row) (blog.Post, error) {
	var p blog.Post
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Tag, &p.Images, &p.VideoURL,
		&p.AuthorNumber, &p.AuthorName, &p.Likes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return blog.Post{}, err
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, nil
}

// List implements blog.PostRepository.
func (r *postRepositoryImpl) List(ctx context.Context, filter blog.ListPostsFilter) ([]blog.Post, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := ""
	args := []any{}
	if filter.Tag != nil && *filter.Tag != "" {
		where = "WHERE tag = $1"
		args = append(args, *filter.Tag)
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM blog_posts "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM blog_posts %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, postColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []blog.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetByID implements blog.PostRepository.
func (r *postRepositoryImpl) GetByID(ctx context.Context, id int64) (blog.Post, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPost(q.QueryRow(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return blog.Post{}, blog.ErrPostNotFound
		}
		return blog.Post{}, fmt.Errorf("failed to get post %d: %w", id, err)
	}
	return p, nil
}

// Create implements blog.PostRepository.
func (r *postRepositoryImpl) Create(ctx context.Context, p blog.Post) (blog.Post, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO blog_posts (title, description, tag, images, video_url, author_number, author_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + postColumns

	created, err := scanPost(q.QueryRow(ctx, query,
		p.Title, p.Description, p.Tag, p.Images, p.VideoURL, p.AuthorNumber, p.AuthorName,
	))
	if err != nil {
		return blog.Post{}, fmt.Errorf("failed to insert post: %w", err)
	}
	return created, nil
}

// Update implements blog.PostRepository.
func (r *postRepositoryImpl) Update(ctx context.Context, p blog.Post) (blog.Post, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE blog_posts
		SET title = $2, description = $3, tag = $4, images = $5, video_url = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + postColumns

	updated, err := scanPost(q.QueryRow(ctx, query,
		p.ID, p.Title, p.Description, p.Tag, p.Images, p.VideoURL,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return blog.Post{}, blog.ErrPostNotFound
		}
		return blog.Post{}, fmt.Errorf("failed to update post %d: %w", p.ID, err)
	}
	return updated, nil
}

// Delete implements blog.PostRepository. Likes go with the post (ON DELETE CASCADE).
func (r *postRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return blog.ErrPostNotFound
	}
	return nil
}

// Like implements blog.PostRepository.
func (r *postRepositoryImpl) Like(ctx context.Context, postID int64, employeeNumber int) (int, error) {
	var likes int
	err := WithTransaction(ctx, r.db, func(txCtx context.Context, tx pgx.Tx) error {
		if err := lockPost(txCtx, tx, postID, &likes); err != nil {
			return err
		}

		tag, err := tx.Exec(txCtx, `
			INSERT INTO blog_likes (post_id, employee_number) VALUES ($1, $2)
			ON CONFLICT (post_id, employee_number) DO NOTHING
		`, postID, employeeNumber)
		if err != nil {
			return fmt.Errorf("failed to insert like: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		return tx.QueryRow(txCtx, `
			UPDATE blog_posts SET likes = likes + 1 WHERE id = $1 RETURNING likes
		`, postID).Scan(&likes)
	})
	return likes, err
}

// Unlike implements blog.PostRepository.
func (r *postRepositoryImpl) Unlike(ctx context.Context, postID int64, employeeNumber int) (int, error) {
	var likes int
	err := WithTransaction(ctx, r.db, func(txCtx context.Context, tx pgx.Tx) error {
		if err := lockPost(txCtx, tx, postID, &likes); err != nil {
			return err
		}

		tag, err := tx.Exec(txCtx, `
			DELETE FROM blog_likes WHERE post_id = $1 AND employee_number = $2
		`, postID, employeeNumber)
		if err != nil {
			return fmt.Errorf("failed to delete like: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		return tx.QueryRow(txCtx, `
			UPDATE blog_posts SET likes = GREATEST(likes - 1, 0) WHERE id = $1 RETURNING likes
		`, postID).Scan(&likes)
	})
	return likes, err
}

func lockPost(ctx context.Context, tx pgx.Tx, postID int64, likes *int) error {
	err := tx.QueryRow(ctx, `SELECT likes FROM blog_posts WHERE id = $1 FOR UPDATE`, postID).Scan(likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return blog.ErrPostNotFound
		}
		return fmt.Errorf("failed to lock post %d: %w", postID, err)
	}
	return nil
}

// ImagesInUse implements blog.PostRepository.
func (r *postRepositoryImpl) ImagesInUse(ctx context.Context, keys []string) (map[string]bool, error) {
	inUse := make(map[string]bool, len(keys))
	if len(keys) == 0 {
		return inUse, nil
	}

	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT DISTINCT img
		FROM blog_posts, unnest(images) AS img
		WHERE images && $1::text[] AND img = ANY($1::text[])
	`, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to query image references: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		inUse[key] = true
	}
	return inUse, rows.Err()
}

// LikedBy implements blog.PostRepository.
func (r *postRepositoryImpl) LikedBy(ctx context.Context, employeeNumber int, postIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}

	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT post_id FROM blog_likes
		WHERE employee_number = $1 AND post_id = ANY($2)
	`, employeeNumber, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		liked[id] = true
	}
	return liked, rows.Err()
}
