package dto

import "github.com/yukikurage/meeting-scheduler-api/internal/models"

// EmployeeDTO represents an employee in API responses
type EmployeeDTO struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
}

// ToEmployeeDTO converts an Employee model to EmployeeDTO
func ToEmployeeDTO(employee models.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:        employee.ID,
		Username:  employee.Username,
		Email:     employee.Email,
		FirstName: employee.FirstName,
		LastName:  employee.LastName,
		Name:      employee.DisplayName(),
	}
}
