package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/johnquangdev/call-insight/internal/usecase/review"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance with the review tags registered:
//
//	page_size  int, one of 25, 50, 100
//	bucket     review.EligibilityBucket or review.StatusBucket value
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("page_size", validatePageSize)
	_ = v.RegisterValidation("bucket", validateBucket)
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

func validatePageSize(fl validator.FieldLevel) bool {
	return review.ValidPageSize(int(fl.Field().Int()))
}

func validateBucket(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case review.EligibilityBucket:
		return review.Bucket{Eligibility: v, Status: review.StatusTodas}.Validate() == nil
	case review.StatusBucket:
		return review.Bucket{Eligibility: review.BucketTodas, Status: v}.Validate() == nil
	}
	return false
}
