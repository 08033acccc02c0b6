package repository

import (
	"errors"
	"fmt"
	"log"

	"galaxykiro/models"

	"gorm.io/gorm"
)

// ContentRepository defines the interface for the member content library.
type ContentRepository interface {
	CreateArticle(article *models.ContentArticle) error
	GetArticleBySlug(slug string) (*models.ContentArticle, error)
	ListArticles(category string, includeMembersOnly bool) ([]*models.ContentArticle, error)
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new instance of ContentRepository.
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

// CreateArticle inserts a new content article.
func (r *contentRepository) CreateArticle(article *models.ContentArticle) error {
	if article.Slug == "" || article.Title == "" {
		return errors.New("article title and slug are required")
	}
	if err := r.db.Create(article).Error; err != nil {
		log.Printf("ERROR: [ContentRepository] Failed to create article '%s': %v", article.Slug, err)
		return fmt.Errorf("failed to create article '%s': %w", article.Slug, err)
	}
	log.Printf("INFO: [ContentRepository] Created article ID %d ('%s').", article.ID, article.Slug)
	return nil
}

// GetArticleBySlug retrieves one article.
// Returns (nil, nil) when the slug is unknown.
func (r *contentRepository) GetArticleBySlug(slug string) (*models.ContentArticle, error) {
	if slug == "" {
		return nil, errors.New("slug cannot be empty")
	}
	var article models.ContentArticle
	err := r.db.First(&article, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [ContentRepository] Failed to fetch article '%s': %v", slug, err)
		return nil, fmt.Errorf("failed to fetch article '%s': %w", slug, err)
	}
	return &article, nil
}

// ListArticles returns articles, optionally filtered by category.
// Members-only articles are excluded unless includeMembersOnly is set.
func (r *contentRepository) ListArticles(category string, includeMembersOnly bool) ([]*models.ContentArticle, error) {
	query := r.db.Model(&models.ContentArticle{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if !includeMembersOnly {
		query = query.Where("members_only = ?", false)
	}

	var articles []*models.ContentArticle
	if err := query.Order("created_at DESC").Find(&articles).Error; err != nil {
		log.Printf("ERROR: [ContentRepository] Failed to list articles (category '%s'): %v", category, err)
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}
