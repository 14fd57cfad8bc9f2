// Package posts provides database operations for blog posts.
package posts

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/avasilenko/scribe/internal/entities"
)

// ErrNotFound is returned when no post matches the lookup key.
var ErrNotFound = errors.New("post not found")

// Repository handles all post database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new posts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new post. Posts are immutable once created.
func (r *Repository) Create(title, content string, authorID uint) (*entities.Post, error) {
	post := &entities.Post{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
	}

	if err := r.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}

// ListAll returns every post in insertion order.
func (r *Repository) ListAll() ([]entities.Post, error) {
	var posts []entities.Post
	err := r.db.Order("id asc").Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// GetByID retrieves a post by primary key.
func (r *Repository) GetByID(id uint) (*entities.Post, error) {
	var post entities.Post
	err := r.db.First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// FindByTitle returns the first post with the given title. Titles are
// not unique; oldest wins.
func (r *Repository) FindByTitle(title string) (*entities.Post, error) {
	var post entities.Post
	err := r.db.Where("title = ?", title).Order("id asc").First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Count returns the number of posts.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Post{}).Count(&count).Error
	return count, err
}
