package contact

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator"
)

var (
	nameRe   = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	handleRe = regexp.MustCompile(`^@?[a-zA-Z0-9._]+$`)
	phoneRe  = regexp.MustCompile(`^\+?[\d\s()-]{10,20}$`)
)

// Validator validates raw submissions against the form schemas and
// normalizes the accepted ones. Validation always runs on the raw values;
// trimming and case-folding happen only after the whole struct passes, so
// an invalid value is never partially transformed.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "alpha_space", func(fl validator.FieldLevel) bool {
		return nameRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "ig_handle", func(fl validator.FieldLevel) bool {
		return handleRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("contact: registering %q validation: %v", tag, err))
	}
}

// ValidateContact returns the normalized submission, or a *FieldError
// naming the first invalid field in declared order.
func (v *Validator) ValidateContact(raw Submission) (Submission, error) {
	if err := v.validate.Struct(raw); err != nil {
		return Submission{}, firstFieldError(err, contactMessage)
	}
	return raw.normalized(), nil
}

// ValidateWaitlist is ValidateContact for the narrower waitlist schema.
func (v *Validator) ValidateWaitlist(raw WaitlistSubmission) (WaitlistSubmission, error) {
	if err := v.validate.Struct(raw); err != nil {
		return WaitlistSubmission{}, firstFieldError(err, waitlistMessage)
	}
	return raw.normalized(), nil
}

func firstFieldError(err error, message func(field, tag string) string) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return &FieldError{Message: "Validation failed"}
	}

	first := errs[0]
	return &FieldError{
		Field:   first.Field(),
		Message: message(first.Field(), first.Tag()),
	}
}

func contactMessage(field, tag string) string {
	switch field {
	case "name":
		switch tag {
		case "required":
			return "Name is required"
		case "min":
			return "Name must be at least 2 characters"
		case "max":
			return "Name must be less than 50 characters"
		default:
			return "Name can only contain letters and spaces"
		}
	case "email":
		if tag == "max" {
			return "Email address is too long"
		}
		return "Please enter a valid email address"
	case "message":
		switch tag {
		case "max":
			return "Message must be less than 1000 characters"
		default:
			return "Message must be at least 10 characters"
		}
	case "instagramUsername":
		switch tag {
		case "required":
			return "Instagram username is required"
		case "max":
			return "Instagram username must be less than 30 characters"
		default:
			return "Invalid Instagram username format"
		}
	case "monthlyRevenue":
		return "Please select your monthly revenue range"
	case "currentSetters":
		return "Please select your current setter situation"
	case "biggestChallenge":
		return "Please select your biggest challenge"
	case "timeline":
		return "Please select your timeline"
	case "companyName":
		return "Company name must be less than 100 characters"
	case "phoneNumber":
		return "Please enter a valid phone number"
	}
	return "Validation failed"
}

func waitlistMessage(field, tag string) string {
	switch field {
	case "name":
		if tag == "max" {
			return "Name must be less than 50 characters"
		}
		return "Name is required"
	case "email":
		return "Invalid email address"
	case "instagramUsername":
		if tag == "ig_handle" {
			return "Invalid Instagram username format"
		}
		return "Instagram username is required"
	}
	return "Validation failed"
}

// normalized applies the post-validation transforms: whitespace trimming,
// email case-folding and instagram handle canonicalization (leading "@"
// stripped, lowercased). Applying it twice yields the same result.
func (s Submission) normalized() Submission {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.Message = strings.TrimSpace(s.Message)
	s.InstagramUsername = normalizeHandle(s.InstagramUsername)
	s.CompanyName = strings.TrimSpace(s.CompanyName)
	s.PhoneNumber = strings.TrimSpace(s.PhoneNumber)
	return s
}

func (s WaitlistSubmission) normalized() WaitlistSubmission {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.InstagramUsername = normalizeHandle(s.InstagramUsername)
	return s
}

func normalizeHandle(handle string) string {
	handle = strings.TrimSpace(handle)
	handle = strings.TrimPrefix(handle, "@")
	return strings.ToLower(handle)
}
