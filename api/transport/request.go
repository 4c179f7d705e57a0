package transport

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pathcraft/backend/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations under the JSON field names clients actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type StepRequest struct {
	ID                string   `json:"id"`
	Title             string   `json:"title" validate:"required,max=200"`
	Description       string   `json:"description" validate:"required,max=1000"`
	Resources         []string `json:"resources" validate:"omitempty,dive,url"`
	EstimatedDuration string   `json:"estimated_duration"`
	Order             int      `json:"order" validate:"min=0"`
}

type PathRequest struct {
	Title       string        `json:"title" validate:"required,min=3,max=200"`
	Description string        `json:"description" validate:"required,min=10,max=2000"`
	Category    string        `json:"category" validate:"required"`
	Difficulty  string        `json:"difficulty" validate:"required,oneof=Beginner Intermediate Advanced"`
	Steps       []StepRequest `json:"steps" validate:"required,min=1,max=50,dive"`
	IsPublic    *bool         `json:"is_public"`
	Tags        []string      `json:"tags"`
}

// ToDomain converts the request into a domain path. New steps keep empty IDs;
// the use case assigns them.
func (r *PathRequest) ToDomain() *domain.Path {
	steps := make([]domain.Step, len(r.Steps))
	for i, s := range r.Steps {
		steps[i] = domain.Step{
			ID:                s.ID,
			Title:             s.Title,
			Description:       s.Description,
			Resources:         s.Resources,
			EstimatedDuration: s.EstimatedDuration,
			Order:             s.Order,
		}
	}

	isPublic := true
	if r.IsPublic != nil {
		isPublic = *r.IsPublic
	}

	return &domain.Path{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Difficulty:  r.Difficulty,
		Steps:       steps,
		IsPublic:    isPublic,
		Tags:        r.Tags,
	}
}

type UpdateProfileRequest struct {
	Name   string  `json:"name" validate:"required,min=2,max=50"`
	Avatar *string `json:"avatar" validate:"omitempty,max=500"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=100"`
}

type ToggleStepRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

type ProgressStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active completed archived"`
}

// Validate runs struct validation and flattens violations into field-level
// details for the response envelope.
func Validate(req interface{}) []FieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	details := make([]FieldError, 0, len(verrs))
	for _, ve := range verrs {
		details = append(details, FieldError{
			Field:   fieldName(ve.Namespace()),
			Message: violationMessage(ve),
		})
	}
	return details
}

func fieldName(namespace string) string {
	// Trim the root struct name: "PathRequest.Steps[0].Title" -> "steps[0].title".
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	return strings.ToLower(namespace)
}

func violationMessage(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "is too short or too small (min " + ve.Param() + ")"
	case "max":
		return "is too long or too large (max " + ve.Param() + ")"
	case "oneof":
		return "must be one of: " + ve.Param()
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid (" + ve.Tag() + ")"
	}
}
