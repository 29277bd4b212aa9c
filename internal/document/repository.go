package document

import (
	"context"
	"strings"

	"compliance-portal/internal/domain"
	"compliance-portal/internal/utils"

	"gorm.io/gorm"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *domain.Document) error
	List(ctx context.Context, query ListQuery, page, pageSize int) ([]domain.Document, utils.PageMeta, error)
	FindByID(ctx context.Context, id string) (*domain.Document, error)
	Delete(ctx context.Context, id string) error
	Recent(ctx context.Context, limit int) ([]domain.Document, error)
	Count(ctx context.Context) (int64, error)
}

// ListQuery narrows the document list. Search matches the name ignoring case,
// Type is a substring of the MIME type and "all" disables it.
type ListQuery struct {
	Search string
	Type   string
}

type DocumentRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new document repository
func NewRepository(db *gorm.DB) DocumentRepository {
	return &DocumentRepositoryImpl{db: db}
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, document *domain.Document) error {
	return r.db.WithContext(ctx).Create(document).Error
}

func (r *DocumentRepositoryImpl) filtered(ctx context.Context, query ListQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&domain.Document{})
	if query.Search != "" {
		tx = tx.Where("name ILIKE ?", likePattern(query.Search))
	}
	if query.Type != "" && query.Type != "all" {
		tx = tx.Where("type LIKE ?", likePattern(query.Type))
	}
	return tx
}

func (r *DocumentRepositoryImpl) List(ctx context.Context, query ListQuery, page, pageSize int) ([]domain.Document, utils.PageMeta, error) {
	var documents []domain.Document
	var totalRecords int64

	// Count total records
	if err := r.filtered(ctx, query).Count(&totalRecords).Error; err != nil {
		return documents, utils.PageMeta{}, err
	}

	offset := (page - 1) * pageSize
	err := r.filtered(ctx, query).
		Order("uploaded_at DESC, id").
		Offset(offset).
		Limit(pageSize).
		Find(&documents).Error

	return documents, utils.NewPageMeta(totalRecords, page, pageSize), err
}

func (r *DocumentRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Delete removes exactly the document with id.
func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Document{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DocumentRepositoryImpl) Recent(ctx context.Context, limit int) ([]domain.Document, error) {
	var documents []domain.Document
	err := r.db.WithContext(ctx).
		Order("uploaded_at DESC, id").
		Limit(limit).
		Find(&documents).Error
	return documents, err
}

func (r *DocumentRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Document{}).Count(&n).Error
	return n, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern matches s anywhere, with LIKE wildcards in s taken literally.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
