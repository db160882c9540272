package repository

import (
	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"gorm.io/gorm"
)

// GormProductRepository is a GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

// FindProduct finds a product by ID
func (r *GormProductRepository) FindProduct(id uint64) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindSprint finds a sprint by ID with optional preloading
func (r *GormProductRepository) FindSprint(id uint64, preload ...string) (*models.Sprint, error) {
	var sprint models.Sprint
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&sprint, id).Error; err != nil {
		return nil, err
	}
	return &sprint, nil
}

// ListSprints lists the sprints of a product, newest first
func (r *GormProductRepository) ListSprints(productID uint64) ([]models.Sprint, error) {
	var sprints []models.Sprint
	if err := r.db.Where("product_id = ?", productID).
		Order("start_date DESC").
		Find(&sprints).Error; err != nil {
		return nil, err
	}
	return sprints, nil
}

// ListSprintMembers lists a sprint's team with their employee record
func (r *GormProductRepository) ListSprintMembers(sprintID uint64) ([]models.SprintMember, error) {
	var members []models.SprintMember
	if err := r.db.Preload("Employee").
		Where("sprint_id = ?", sprintID).
		Order("employee_id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListProductMembers lists every employee on any sprint of the product,
// once each, ordered by ID
func (r *GormProductRepository) ListProductMembers(productID uint64) ([]models.Employee, error) {
	team := r.db.Model(&models.SprintMember{}).
		Select("sprint_members.employee_id").
		Joins("JOIN sprints ON sprints.id = sprint_members.sprint_id").
		Where("sprints.product_id = ?", productID)

	var employees []models.Employee
	if err := r.db.Where("id IN (?)", team).
		Order("id ASC").
		Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// ListBacklog lists a product's backlog items with their user stories
func (r *GormProductRepository) ListBacklog(productID uint64) ([]models.BacklogItem, error) {
	var items []models.BacklogItem
	if err := r.db.Preload("UserStories").
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindUserStories returns the user stories with the given IDs
func (r *GormProductRepository) FindUserStories(ids []uint64) ([]models.UserStory, error) {
	stories := []models.UserStory{}
	if len(ids) == 0 {
		return stories, nil
	}
	if err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&stories).Error; err != nil {
		return nil, err
	}
	return stories, nil
}
