package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"github.com/yukikurage/meeting-scheduler-api/internal/repository"
	"gorm.io/gorm"
)

// ProductService serves the sprint and backlog lookups used by the
// scheduling form
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// GetSprint returns a sprint with its product
func (s *ProductService) GetSprint(sprintID uint64) (*models.Sprint, error) {
	sprint, err := s.productRepo.FindSprint(sprintID, "Product")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSprintNotFound
		}
		return nil, fmt.Errorf("failed to find sprint: %w", err)
	}
	return sprint, nil
}

// ListSprintMembers returns the sprint team
func (s *ProductService) ListSprintMembers(sprintID uint64) ([]models.SprintMember, error) {
	if _, err := s.GetSprint(sprintID); err != nil {
		return nil, err
	}

	members, err := s.productRepo.ListSprintMembers(sprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprint members: %w", err)
	}
	return members, nil
}

// ListSprints returns the sprints of a product
func (s *ProductService) ListSprints(productID uint64) ([]models.Sprint, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}

	sprints, err := s.productRepo.ListSprints(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprints: %w", err)
	}
	return sprints, nil
}

// ListProductMembers returns everyone on any of the product's sprint teams
func (s *ProductService) ListProductMembers(productID uint64) ([]models.Employee, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}

	members, err := s.productRepo.ListProductMembers(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list product members: %w", err)
	}
	return members, nil
}

// ListBacklog returns a product's backlog items with their user stories
func (s *ProductService) ListBacklog(productID uint64) ([]models.BacklogItem, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}

	items, err := s.productRepo.ListBacklog(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list backlog: %w", err)
	}
	return items, nil
}

func (s *ProductService) ensureProduct(productID uint64) error {
	if _, err := s.productRepo.FindProduct(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to find product: %w", err)
	}
	return nil
}
