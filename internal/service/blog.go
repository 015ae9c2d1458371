package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/estatehub/estatehub-admin/internal/derive"
	"github.com/estatehub/estatehub-admin/internal/model"
	"github.com/estatehub/estatehub-admin/internal/repository"
	"github.com/estatehub/estatehub-admin/internal/upload"
)

const (
	featuredImageDir = "blog"
	maxSlugAttempts  = 10

	msgSlugExhausted = "Too many posts already use this title, please choose a different one"
)

// BlogService creates blog posts from the add-post screen.
type BlogService struct {
	db           *sql.DB
	posts        *repository.BlogRepository
	storage      upload.Storage
	maxImageSize int64
	now          func() time.Time
}

// NewBlogService creates a new BlogService.
func NewBlogService(db *sql.DB, posts *repository.BlogRepository, storage upload.Storage, maxImageSize int64) *BlogService {
	return &BlogService{
		db:           db,
		posts:        posts,
		storage:      storage,
		maxImageSize: maxImageSize,
		now:          time.Now,
	}
}

// Categories lists the categories offered on the form.
func (s *BlogService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.posts.ListCategories(ctx)
}

// CreateBlogPost validates the submission, stores the optional featured
// image and writes the post with its category links in one transaction.
//
// An image that cannot be stored does not stop the post from being saved;
// the failure is returned as result.UploadWarning. If the post cannot be
// saved the result may still carry that warning next to the error.
func (s *BlogService) CreateBlogPost(ctx context.Context, actor model.Actor, in model.BlogPostInput) (model.BlogPostResult, error) {
	in = normalizePost(in)

	violations, err := validatePost(in)
	if err != nil {
		return model.BlogPostResult{}, err
	}

	var mimeType string
	if in.FeaturedImage != nil {
		mimeType, err = upload.Check(in.FeaturedImage.Filename, in.FeaturedImage.Data, s.maxImageSize)
		if err != nil {
			violations = append(violations, Violation{Field: "featured_image", Message: imageMessage(err)})
		}
	}

	categoryIDs := categorySet(in.CategoryIDs)
	if len(categoryIDs) > 0 {
		found, err := s.posts.ExistingCategoryIDs(ctx, categoryIDs)
		if err != nil {
			return model.BlogPostResult{}, &StorageError{Op: "check categories", Err: err}
		}
		for _, id := range categoryIDs {
			if !found[id] {
				violations = append(violations, Violation{
					Field:   "category_ids",
					Message: fmt.Sprintf("Category %d does not exist", id),
				})
			}
		}
	}

	if len(violations) > 0 {
		sortViolations(violations, postFieldOrder)
		return model.BlogPostResult{}, &ValidationError{Violations: violations}
	}

	post := model.BlogPost{
		Title:       in.Title,
		Slug:        derive.Slug(in.Title),
		Content:     in.Content,
		Excerpt:     in.Excerpt,
		Status:      model.PostStatus(in.Status),
		AuthorID:    actor.UserID,
		CategoryIDs: categoryIDs,
	}
	if post.Excerpt == "" {
		post.Excerpt = derive.Excerpt(in.Content, excerptLength)
	}

	var result model.BlogPostResult
	if in.FeaturedImage != nil {
		name := upload.FileName(in.FeaturedImage.Filename)
		path, err := s.storage.Store(ctx, featuredImageDir, name, in.FeaturedImage.Data, mimeType)
		if err != nil {
			log.Warn().Err(err).Str("file", in.FeaturedImage.Filename).Msg("featured image upload failed")
			result.UploadWarning = &UploadError{Err: err}
		} else {
			post.FeaturedImage = path
		}
	}

	now := s.now()
	if post.Status == model.PostStatusPublished {
		publishedAt := now
		post.PublishedAt = &publishedAt
	}

	err = repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		slug, err := s.uniqueSlug(ctx, tx, post.Slug, now)
		if err != nil {
			return fmt.Errorf("resolve slug: %w", err)
		}
		post.Slug = slug

		if err := s.posts.Create(ctx, tx, &post); err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
		if err := s.posts.AttachCategories(ctx, tx, post.ID, post.CategoryIDs); err != nil {
			return fmt.Errorf("insert post categories: %w", err)
		}
		return nil
	})
	if err != nil {
		if post.FeaturedImage != "" {
			if rmErr := s.storage.Remove(ctx, post.FeaturedImage); rmErr != nil {
				log.Warn().Err(rmErr).Str("path", post.FeaturedImage).Msg("removing orphaned featured image failed")
			}
		}
		if errors.Is(err, ErrSlugTaken) {
			return result, &ConflictError{Field: "title", Message: msgSlugExhausted, Err: err}
		}
		return result, writeError("create blog post", "title", "A post with this title was just created, please retry", err)
	}

	log.Info().
		Int64("post_id", post.ID).
		Str("slug", post.Slug).
		Str("status", string(post.Status)).
		Int("categories", len(post.CategoryIDs)).
		Int64("author_id", actor.UserID).
		Msg("blog post created")

	result.Post = post
	return result, nil
}

// uniqueSlug keeps slug when it is free, otherwise appends the submission
// timestamp, counting up from it until a free slug is found. It gives up with
// ErrSlugTaken after maxSlugAttempts suffixes.
func (s *BlogService) uniqueSlug(ctx context.Context, q repository.DBTX, slug string, now time.Time) (string, error) {
	taken, err := s.posts.SlugExists(ctx, q, slug)
	if err != nil || !taken {
		return slug, err
	}

	suffix := now.Unix()
	for i := 0; i < maxSlugAttempts; i++ {
		candidate := derive.UniqueSlug(slug, suffix+int64(i))
		taken, err := s.posts.SlugExists(ctx, q, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrSlugTaken
}

func imageMessage(err error) string {
	switch {
	case errors.Is(err, upload.ErrExtensionNotAllowed):
		return "Featured image must be a jpg, jpeg, png, gif or webp file"
	case errors.Is(err, upload.ErrTooLarge):
		return "Featured image is too large"
	case errors.Is(err, upload.ErrEmptyFile):
		return "Featured image is empty"
	default:
		return "Featured image is not a valid image"
	}
}
