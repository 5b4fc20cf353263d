package blog

import "time"

// Post is one entry of the internal blog feed.
type Post struct {
	ID           int64
	Title        string
	Description  string
	Tag          string
	Images       []string // stored image names, served under /api/v1/images/
	VideoURL     *string
	AuthorNumber int
	AuthorName   string
	Likes        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p Post) IsAuthor(employeeNumber int) bool {
	return p.AuthorNumber == employeeNumber
}

// MaxImagesPerPost caps both uploads and the images a post may reference.
const MaxImagesPerPost = 10
