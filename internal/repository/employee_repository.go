package repository

import (
	"strconv"
	"strings"

	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"gorm.io/gorm"
)

// GormEmployeeRepository is a GORM implementation of EmployeeRepository
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// Create creates a new employee
func (r *GormEmployeeRepository) Create(employee *models.Employee) error {
	return r.db.Create(employee).Error
}

// FindByID finds an employee by ID
func (r *GormEmployeeRepository) FindByID(id uint64) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.First(&employee, id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindByUsername finds an employee by username
func (r *GormEmployeeRepository) FindByUsername(username string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.Where("username = ?", username).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindByIDs returns the employees with the given IDs, ordered by ID
func (r *GormEmployeeRepository) FindByIDs(ids []uint64) ([]models.Employee, error) {
	employees := []models.Employee{}
	if len(ids) == 0 {
		return employees, nil
	}
	if err := r.db.Where("id IN ?", ids).Order("id").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// ResolveTokens maps selection tokens to employees in token order. Numeric
// tokens are IDs, tokens containing "@" are emails and anything else matches
// a username or first name (lowest ID wins when several match).
func (r *GormEmployeeRepository) ResolveTokens(tokens []string) ([]models.Employee, []string, error) {
	var ids []uint64
	var emails, names []string

	cleaned := make([]string, 0, len(tokens))
	for _, raw := range tokens {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		cleaned = append(cleaned, token)

		if id, err := strconv.ParseUint(token, 10, 64); err == nil {
			ids = append(ids, id)
		} else if strings.Contains(token, "@") {
			emails = append(emails, strings.ToLower(token))
		} else {
			names = append(names, token)
		}
	}

	var candidates []models.Employee
	if len(ids) > 0 || len(emails) > 0 || len(names) > 0 {
		query := r.db.Model(&models.Employee{})
		conds := r.db.Where("1 = 0")
		if len(ids) > 0 {
			conds = conds.Or("id IN ?", ids)
		}
		if len(emails) > 0 {
			conds = conds.Or("LOWER(email) IN ?", emails)
		}
		if len(names) > 0 {
			conds = conds.Or("username IN ?", names).Or("first_name IN ?", names)
		}
		if err := query.Where(conds).Order("id").Find(&candidates).Error; err != nil {
			return nil, nil, err
		}
	}

	byID := make(map[uint64]models.Employee, len(candidates))
	byEmail := make(map[string]models.Employee, len(candidates))
	byName := make(map[string]models.Employee, len(candidates))
	for _, e := range candidates {
		byID[e.ID] = e
		byEmail[strings.ToLower(e.Email)] = e
		// Candidates are ordered by ID, so the first match is kept
		if _, ok := byName[e.Username]; !ok {
			byName[e.Username] = e
		}
		if _, ok := byName[e.FirstName]; !ok {
			byName[e.FirstName] = e
		}
	}

	resolved := make([]models.Employee, 0, len(cleaned))
	unresolved := make([]string, 0)
	seen := make(map[uint64]struct{}, len(cleaned))
	for _, token := range cleaned {
		var (
			e  models.Employee
			ok bool
		)
		if id, err := strconv.ParseUint(token, 10, 64); err == nil {
			e, ok = byID[id]
		} else if strings.Contains(token, "@") {
			e, ok = byEmail[strings.ToLower(token)]
		} else {
			e, ok = byName[token]
		}

		if !ok {
			unresolved = append(unresolved, token)
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		resolved = append(resolved, e)
	}

	return resolved, unresolved, nil
}
