package blog

import (
	"mime/multipart"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/validator"
)

type CreatePostRequest struct {
	AuthorNumber int      `json:"-" validate:"gt=0"`
	Title        string   `json:"title" validate:"required,max=200"`
	Description  string   `json:"description" validate:"max=5000"`
	Tag          string   `json:"tag" validate:"max=50"`
	Images       []string `json:"images" validate:"max=10,dive,required,max=255"`
	VideoURL     *string  `json:"video_url" validate:"omitempty,url"`
}

func (r *CreatePostRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Tag = strings.TrimSpace(r.Tag)
	return validator.Struct(r)
}

// UpdatePostRequest only touches the fields that are set.
type UpdatePostRequest struct {
	ID           int64     `json:"-" validate:"gt=0"`
	EditorNumber int       `json:"-" validate:"gt=0"`
	Title        *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string   `json:"description" validate:"omitempty,max=5000"`
	Tag          *string   `json:"tag" validate:"omitempty,max=50"`
	Images       *[]string `json:"images" validate:"omitempty,max=10,dive,required,max=255"`
	VideoURL     *string   `json:"video_url" validate:"omitempty,url"`
	ClearVideo   bool      `json:"-"`
}

// Validate treats an empty video_url as a request to remove the video.
func (r *UpdatePostRequest) Validate() error {
	if r.VideoURL != nil && strings.TrimSpace(*r.VideoURL) == "" {
		r.VideoURL = nil
		r.ClearVideo = true
	}
	return validator.Struct(r)
}

type ListPostsFilter struct {
	Tag          *string `json:"tag,omitempty"`
	ViewerNumber int     `json:"-"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
}

func (f *ListPostsFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Limit < 0 || f.Limit > 50 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be between 1 and 50",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = 10
	}
	return nil
}

func (f ListPostsFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type UploadImagesRequest struct {
	Files []*multipart.FileHeader
}

type PostResponse struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Tag          string   `json:"tag"`
	Images       []string `json:"images"`
	VideoURL     *string  `json:"video_url"`
	VideoEmbedID string   `json:"video_embed_id,omitempty"`
	AuthorNumber int      `json:"author_number"`
	AuthorName   string   `json:"author_name"`
	Likes        int      `json:"likes"`
	LikedByMe    bool     `json:"liked_by_me"`
	CanEdit      bool     `json:"can_edit"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type ListPostsResponse struct {
	Posts      []PostResponse `json:"posts"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

type LikeResponse struct {
	PostID    int64 `json:"post_id"`
	Likes     int   `json:"likes"`
	LikedByMe bool  `json:"liked_by_me"`
}

type UploadImagesResponse struct {
	Images []string `json:"images"`
}

// ToResponse renders p for viewer; imageURL turns a stored name into a URL.
func ToResponse(p Post, viewer int, liked bool, imageURL func(string) string) PostResponse {
	images := make([]string, 0, len(p.Images))
	for _, name := range p.Images {
		images = append(images, imageURL(name))
	}

	var embedID string
	if p.VideoURL != nil {
		embedID = validator.YouTubeID(*p.VideoURL)
	}

	return PostResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Tag:          p.Tag,
		Images:       images,
		VideoURL:     p.VideoURL,
		VideoEmbedID: embedID,
		AuthorNumber: p.AuthorNumber,
		AuthorName:   p.AuthorName,
		Likes:        p.Likes,
		LikedByMe:    liked,
		CanEdit:      p.IsAuthor(viewer),
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.Format(time.RFC3339),
	}
}
