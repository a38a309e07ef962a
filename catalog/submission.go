package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/camden-git/moviearchive/models"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	minReleaseYear = 1895
	maxReleaseYear = 2100
)

var maxBudget = decimal.New(1, 11)

// Submission is an incoming request to register a movie.
type Submission struct {
	Title        string             `json:"title" validate:"notblank,max=200"`
	Rating       float64            `json:"rating" validate:"gte=0,lte=10"`
	ReleaseDate  *models.Date       `json:"releaseDate"`
	AgeRating    *models.AgeRating  `json:"ageRating"`
	Plot         string             `json:"plot" validate:"notblank,max=10000"`
	Runtime      int                `json:"runtime" validate:"gte=0"`
	Budget       *decimal.Decimal   `json:"budget,omitempty"`
	Genres       []GenreInput       `json:"genres" validate:"min=1,dive"`
	Involvements []InvolvementInput `json:"involvements" validate:"min=1,dive"`
}

// GenreInput references a genre by name.
type GenreInput struct {
	Name string `json:"name" validate:"notblank,max=200"`
}

// InvolvementInput names a person and the roles they held on the movie.
type InvolvementInput struct {
	FirstName string             `json:"firstName" validate:"notblank,max=200"`
	LastName  string             `json:"lastName" validate:"notblank,max=200"`
	Roles     []models.MovieRole `json:"roles" validate:"min=1"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate checks every field of s and returns a *ValidationError listing all
// violations. A well-formed submission naming a role outside the role set
// fails with ErrUnknownRole. It never touches the store.
func (s Submission) Validate() error {
	verr := &ValidationError{}

	if err := validate.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating submission: %w", err)
		}
		for _, fe := range fieldErrs {
			verr.add(fieldPath(fe), CodeInvalid, describe(fe))
		}
	}

	if s.ReleaseDate == nil {
		verr.add("releaseDate", CodeMissing, "release date is required")
	} else if y := s.ReleaseDate.Year(); y < minReleaseYear || y > maxReleaseYear {
		verr.add("releaseDate", CodeInvalid, fmt.Sprintf("year must be between %d and %d", minReleaseYear, maxReleaseYear))
	}

	if s.AgeRating == nil {
		verr.add("ageRating", CodeMissing, "age rating is required")
	} else if !s.AgeRating.Valid() {
		verr.add("ageRating", CodeInvalid, fmt.Sprintf("unknown age rating %s", s.AgeRating))
	}

	if s.Budget != nil && (s.Budget.IsNegative() || s.Budget.GreaterThan(maxBudget)) {
		verr.add("budget", CodeInvalid, fmt.Sprintf("must be between 0 and %s", maxBudget))
	}

	if len(verr.Fields) > 0 {
		return verr
	}

	for _, inv := range s.Involvements {
		for _, role := range inv.Roles {
			if !role.Valid() {
				return fmt.Errorf("%w: %s for %s %s", ErrUnknownRole, role, inv.FirstName, inv.LastName)
			}
		}
	}
	return nil
}

// fieldPath drops the root struct name from the validator namespace,
// e.g. "Submission.genres[0].name" becomes "genres[0].name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return "must not be blank"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
