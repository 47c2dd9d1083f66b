package employee

type CreateEmployeeRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	BaseSalary int64  `json:"base_salary" binding:"gte=0"`
	Role       string `json:"role"`
}

// UpdateEmployeeRequest carries only the fields to change; nil fields keep
// their stored value.
type UpdateEmployeeRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	BaseSalary *int64  `json:"base_salary" binding:"omitempty,gte=0"`
	Role       *string `json:"role"`
	Status     *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type EmployeeResponse struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	BaseSalary int64  `json:"base_salary"`
	Role       string `json:"role"`
	Status     string `json:"status"`
}

type EmployeeOptionResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
