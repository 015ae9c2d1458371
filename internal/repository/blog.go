package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/estatehub/estatehub-admin/internal/model"
)

// BlogRepository handles blog post and category persistence.
type BlogRepository struct {
	db *sql.DB
}

// NewBlogRepository creates a new BlogRepository.
func NewBlogRepository(db *sql.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// SlugExists reports whether a post already uses slug.
func (r *BlogRepository) SlugExists(ctx context.Context, q DBTX, slug string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_posts WHERE slug = ?`, slug).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a blog post and sets the generated ID on the post struct.
func (r *BlogRepository) Create(ctx context.Context, q DBTX, post *model.BlogPost) error {
	query := `INSERT INTO blog_posts (title, slug, content, excerpt, status, featured_image, published_at, author_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	var publishedAt sql.NullTime
	if post.PublishedAt != nil {
		publishedAt = sql.NullTime{Time: *post.PublishedAt, Valid: true}
	}

	result, err := q.ExecContext(ctx, query,
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		string(post.Status),
		nullString(post.FeaturedImage),
		publishedAt,
		post.AuthorID,
	)
	if err != nil {
		return classify(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	post.ID = id
	return nil
}

// AttachCategories inserts one post_has_categories row per category.
func (r *BlogRepository) AttachCategories(ctx context.Context, q DBTX, postID int64, categoryIDs []int64) error {
	query := `INSERT INTO post_has_categories (post_id, category_id) VALUES (?, ?)`

	for _, categoryID := range categoryIDs {
		if _, err := q.ExecContext(ctx, query, postID, categoryID); err != nil {
			return fmt.Errorf("attach category %d: %w", categoryID, classify(err))
		}
	}
	return nil
}

// ListCategories returns every blog category ordered by name.
func (r *BlogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug FROM blog_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// ExistingCategoryIDs returns the subset of ids present in blog_categories.
func (r *BlogRepository) ExistingCategoryIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	found := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id FROM blog_categories WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}

	return found, rows.Err()
}
