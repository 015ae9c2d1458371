package model

import "time"

// PostStatus is the publication state of a blog post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

var PostStatuses = []PostStatus{PostStatusDraft, PostStatusPublished, PostStatusArchived}

func (s PostStatus) Valid() bool {
	for _, known := range PostStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// BlogPost represents a row in the blog_posts table.
type BlogPost struct {
	ID            int64
	Title         string
	Slug          string
	Content       string
	Excerpt       string
	Status        PostStatus
	FeaturedImage string // relative path, empty when none
	PublishedAt   *time.Time
	AuthorID      int64
	CategoryIDs   []int64
	CreatedAt     time.Time
}

// Category represents a row in the blog_categories table.
type Category struct {
	ID   int64
	Name string
	Slug string
}

// ImageUpload is an uploaded file as received from the form.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// BlogPostInput is the add-blog-post form payload. The json tags carry the
// form field names; validation errors are keyed by them.
type BlogPostInput struct {
	Title         string       `json:"title"`
	Content       string       `json:"content"`
	Excerpt       string       `json:"excerpt"`
	Status        string       `json:"status"`
	FeaturedImage *ImageUpload `json:"featured_image"`
	CategoryIDs   []string     `json:"category_ids"`
}

// BlogPostResult reports the created post. UploadWarning is set when the
// image could not be stored but the post itself was saved.
type BlogPostResult struct {
	Post          BlogPost
	UploadWarning error
}
