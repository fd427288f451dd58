package policy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rohits-web03/devfolio/internal/apperrors"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("simpleemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// object decodes body as a JSON object keyed by field name, so callers can
// tell an absent field from a zero one.
func object(body []byte) (map[string]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, apperrors.Validation("Request body is required")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, apperrors.Validation("Invalid input: expected a JSON object")
	}
	return fields, nil
}

// onlyKeys rejects keys outside allowed.
func onlyKeys(fields map[string]json.RawMessage, allowed ...string) error {
	var unknown []string
	for k := range fields {
		if !slices.Contains(allowed, k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return apperrors.Validationf("Unknown field(s): %s", strings.Join(unknown, ", "))
	}
	return nil
}

// field decodes fields[key] into dst. It reports whether the key was present.
func field(fields map[string]json.RawMessage, key string, dst any) (bool, error) {
	raw, ok := fields[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, typeError(key, err)
	}
	return true, nil
}

func typeError(key string, err error) error {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return apperrors.Wrap(apperrors.KindValidation, fmt.Sprintf("%s must be of type %s", key, describe(te.Type.Kind().String())), err)
	}
	return apperrors.Wrap(apperrors.KindValidation, fmt.Sprintf("%s is malformed", key), err)
}

func describe(kind string) string {
	switch kind {
	case "slice":
		return "array"
	case "struct", "map":
		return "object"
	case "int", "int64", "float64":
		return "number"
	default:
		return kind
	}
}

func requireText(key string, value *string) error {
	if value == nil || strings.TrimSpace(*value) == "" {
		return apperrors.Validationf("%s is required", key)
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email, then checks its format.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if err := validate.Var(email, "required,simpleemail,max=254"); err != nil {
		return "", apperrors.Wrap(apperrors.KindValidation, "Please provide a valid email", err)
	}
	return email, nil
}

func checkURL(key, value string) error {
	if value == "" {
		return nil
	}
	if err := validate.Var(value, "url"); err != nil {
		return apperrors.Wrap(apperrors.KindValidation, fmt.Sprintf("%s must be a valid URL", key), err)
	}
	return nil
}

// keyed pairs a JSON key with a value so checks run in a fixed order.
type keyed[T any] struct {
	key string
	val T
}

// DecodeSkills accepts {"skills": [...]} with at least one non-blank string.
func DecodeSkills(body []byte) ([]string, error) {
	fields, err := object(body)
	if err != nil {
		return nil, err
	}
	var skills []string
	present, err := field(fields, "skills", &skills)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "Skills must be an array of strings", err)
	}
	if !present || skills == nil {
		return nil, apperrors.Validation("Skills must be an array of strings")
	}
	skills = NormalizeSkills(skills)
	if len(skills) == 0 {
		return nil, apperrors.Validation("Skills array cannot be empty")
	}
	return skills, nil
}

// NormalizeSkills trims entries and drops blanks and duplicates, keeping order.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
