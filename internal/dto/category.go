package dto

// CategoryRequest creates or replaces a rating category. Weight is in percentage points.
type CategoryRequest struct {
	Keyword     string   `json:"keyword" validate:"required,max=64"`
	Name        string   `json:"name" validate:"required,max=120"`
	Icon        string   `json:"icon" validate:"max=64"`
	Description string   `json:"description" validate:"max=1000"`
	Weight      int      `json:"weight" validate:"required,min=1,max=100"`
	Examples    []string `json:"examples" validate:"dive,max=200"`
	IsActive    *bool    `json:"isActive"`
	Departments []string `json:"departments" validate:"dive,max=200"`
	ImpactAreas []string `json:"impactAreas" validate:"dive,max=200"`
}
