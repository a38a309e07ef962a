package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AgeRating is a USK age classification. The numeric value is the minimum age.
type AgeRating int

const (
	AgeRatingUSK0  AgeRating = 0
	AgeRatingUSK6  AgeRating = 6
	AgeRatingUSK12 AgeRating = 12
	AgeRatingUSK16 AgeRating = 16
	AgeRatingUSK18 AgeRating = 18
)

var ageRatingNames = map[AgeRating]string{
	AgeRatingUSK0:  "USK0",
	AgeRatingUSK6:  "USK6",
	AgeRatingUSK12: "USK12",
	AgeRatingUSK16: "USK16",
	AgeRatingUSK18: "USK18",
}

// Valid reports whether a is one of the five USK classes.
func (a AgeRating) Valid() bool {
	_, ok := ageRatingNames[a]
	return ok
}

func (a AgeRating) String() string {
	if name, ok := ageRatingNames[a]; ok {
		return name
	}
	return strconv.Itoa(int(a))
}

// ParseAgeRating accepts a name such as "USK12" (case-insensitive) or a number.
func ParseAgeRating(s string) (AgeRating, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return AgeRating(n), nil
	}
	for rating, name := range ageRatingNames {
		if strings.EqualFold(name, s) {
			return rating, nil
		}
	}
	return 0, fmt.Errorf("unknown age rating %q", s)
}

func (a AgeRating) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *AgeRating) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*a = AgeRating(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("age rating must be a name or number: %w", err)
	}
	parsed, err := ParseAgeRating(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
