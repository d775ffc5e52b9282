package dto

// SubmitNomineeRequest creates a nominee pending verification.
type SubmitNomineeRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	Title         string `json:"title" validate:"required,max=200"`
	Evidence      string `json:"evidence" validate:"required"`
	Position      string `json:"position" validate:"required,max=200"`
	District      string `json:"district" validate:"required,max=200"`
	InstitutionID int64  `json:"institutionId" validate:"omitempty,gt=0"`
	Institution   string `json:"institution" validate:"max=200"`
}

// SubmitInstitutionRequest registers an institution.
type SubmitInstitutionRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Type string `json:"type" validate:"required,oneof=GOVERNMENT PARASTATAL AGENCY CORPORATION"`
}

// SubmitRatingRequest rates a nominee or institution in one category.
type SubmitRatingRequest struct {
	RatingCategoryID int64  `json:"ratingCategoryId" validate:"required,gt=0"`
	Score            int    `json:"score" validate:"required,min=1,max=5"`
	Severity         int    `json:"severity" validate:"required,min=1,max=5"`
	Evidence         string `json:"evidence" validate:"max=5000"`
}

// SubmitCommentRequest attaches a comment to a nominee or institution.
type SubmitCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}
