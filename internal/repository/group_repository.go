package repository

import (
	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"github.com/yukikurage/meeting-scheduler-api/internal/scheduling"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGroupRepository is a GORM implementation of GroupRepository
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &GormGroupRepository{db: db}
}

// Create creates a group with its initial members
func (r *GormGroupRepository) Create(group *models.Group, memberIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		return addGroupMembers(tx, group.ID, memberIDs)
	})
}

// FindByID finds a group by ID
func (r *GormGroupRepository) FindByID(id uint64) (*models.Group, error) {
	var group models.Group
	if err := r.db.First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// ListByOwner lists the groups owned by an employee
func (r *GormGroupRepository) ListByOwner(ownerID uint64) ([]models.Group, error) {
	var groups []models.Group
	if err := r.db.Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// UpdateWithRoster saves the group and applies the roster plan atomically
func (r *GormGroupRepository) UpdateWithRoster(group *models.Group, plan scheduling.RosterPlan) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(group).Error; err != nil {
			return err
		}

		if err := addGroupMembers(tx, group.ID, plan.Insert); err != nil {
			return err
		}

		if len(plan.SoftDelete) > 0 {
			if err := tx.Where("group_id = ? AND employee_id IN ?", group.ID, plan.SoftDelete).
				Delete(&models.GroupMember{}).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete soft deletes a group and its members in a transaction
func (r *GormGroupRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Group{}, id).Error
	})
}

// ActiveMemberIDs returns the active member IDs of the given groups
func (r *GormGroupRepository) ActiveMemberIDs(groupIDs ...uint64) ([]uint64, error) {
	ids := []uint64{}
	if len(groupIDs) == 0 {
		return ids, nil
	}

	// Members of a deleted group are soft-deleted with it, so no join is needed
	if err := r.db.Model(&models.GroupMember{}).
		Where("group_id IN ?", groupIDs).
		Order("group_id ASC, created_at ASC, employee_id ASC").
		Pluck("employee_id", &ids).Error; err != nil {
		return nil, err
	}
	return scheduling.Unique(ids), nil
}

// ListMembers lists the group's active members with their employee record
func (r *GormGroupRepository) ListMembers(groupID uint64) ([]models.GroupMember, error) {
	var members []models.GroupMember
	if err := r.db.Preload("Employee").
		Where("group_id = ?", groupID).
		Order("employee_id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// addGroupMembers inserts membership rows, reactivating soft-deleted ones
func addGroupMembers(tx *gorm.DB, groupID uint64, employeeIDs []uint64) error {
	if len(employeeIDs) == 0 {
		return nil
	}

	members := make([]models.GroupMember, len(employeeIDs))
	for i, employeeID := range employeeIDs {
		members[i] = models.GroupMember{
			GroupID:    groupID,
			EmployeeID: employeeID,
		}
	}

	return tx.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_id"}, {Name: "employee_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"deleted_at": gorm.Expr("NULL")}),
		}).
		Create(&members).Error
}
