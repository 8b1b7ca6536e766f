package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"inkwell/models"
)

var (
	ErrNotFound            = errors.New("post not found")
	ErrConstraintViolation = errors.New("post title already exists")
	ErrIncompletePost      = errors.New("post is missing required fields")
)

// PostStore persists blog posts. Every call is a single statement or a single
// transaction, so concurrent requests never observe a half-applied write.
type PostStore struct {
	db *gorm.DB
}

func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// Create inserts post and returns the id the database assigned to it.
// Any ID already set on post is ignored.
func (s *PostStore) Create(ctx context.Context, post models.BlogPost) (uint, error) {
	if err := checkComplete(post.Fields()); err != nil {
		return 0, err
	}
	if strings.TrimSpace(post.Date) == "" {
		return 0, fmt.Errorf("%w: date", ErrIncompletePost)
	}

	post.ID = 0
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return 0, translateWriteError("create post", err)
	}
	return post.ID, nil
}

func (s *PostStore) GetByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return &post, nil
}

// ListAll returns every post in insertion order.
func (s *PostStore) ListAll(ctx context.Context) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Update replaces the mutable columns of post id. The date column is never
// written here.
func (s *PostStore) Update(ctx context.Context, id uint, fields models.PostFields) error {
	if err := checkComplete(fields); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.BlogPost
		if err := tx.Select("id").First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("post %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("update post %d: %w", id, err)
		}

		updates := map[string]interface{}{
			"title":    fields.Title,
			"subtitle": fields.Subtitle,
			"body":     fields.Body,
			"author":   fields.Author,
			"img_url":  fields.ImgURL,
		}
		if err := tx.Model(&models.BlogPost{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return translateWriteError(fmt.Sprintf("update post %d", id), err)
		}
		return nil
	})
}

func (s *PostStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.BlogPost{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete post %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	return nil
}

// Ping reports whether the underlying connection answers.
func (s *PostStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func checkComplete(f models.PostFields) error {
	var missing []string
	for _, col := range []struct{ name, value string }{
		{"title", f.Title},
		{"subtitle", f.Subtitle},
		{"body", f.Body},
		{"author", f.Author},
		{"img_url", f.ImgURL},
	} {
		if strings.TrimSpace(col.value) == "" {
			missing = append(missing, col.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrIncompletePost, strings.Join(missing, ", "))
	}
	return nil
}

func translateWriteError(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, ErrConstraintViolation)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isUniqueViolation catches driver errors when gorm's error translation is off.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
