package repository

import (
	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"gorm.io/gorm"
)

// GormIssueLinkRepository is a GORM implementation of IssueLinkRepository
type GormIssueLinkRepository struct {
	db *gorm.DB
}

// NewIssueLinkRepository creates a new IssueLinkRepository
func NewIssueLinkRepository(db *gorm.DB) IssueLinkRepository {
	return &GormIssueLinkRepository{db: db}
}

// Find finds the link for a context
func (r *GormIssueLinkRepository) Find(kind models.IssueContextKind, ref uint64) (*models.ExternalIssueLink, error) {
	var link models.ExternalIssueLink
	if err := r.db.Where("context_kind = ? AND context_ref = ?", kind, ref).
		First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// Create stores a new link. The unique index on the context rejects duplicates.
func (r *GormIssueLinkRepository) Create(link *models.ExternalIssueLink) error {
	return r.db.Create(link).Error
}
