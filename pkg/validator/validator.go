package validator

import (
	"net/mail"
	"slices"
	"strings"

	"github.com/vedran77/lawnpool/internal/domain"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

// Err converts the collected messages into a domain validation error, or nil.
// Messages are joined in field order so the summary is stable.
func (v ValidationErrors) Err() error {
	if !v.HasErrors() {
		return nil
	}
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	slices.Sort(fields)

	messages := make([]string, len(fields))
	for i, f := range fields {
		messages[i] = v[f]
	}
	return domain.InvalidFields(strings.Join(messages, "; "), v)
}

const minPasswordLen = 8

func ValidateRegister(name, email, password, userType string) ValidationErrors {
	errs := make(ValidationErrors)

	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "Name is required")
	} else if len(name) > 100 {
		errs.Add("name", "Name is too long")
	}

	validateEmail(email, errs)

	if password == "" {
		errs.Add("password", "Password is required")
	} else if len(password) < minPasswordLen {
		errs.Add("password", "Password must be at least 8 characters")
	}

	if userType != "" && !domain.ValidRole(userType) {
		errs.Add("userType", "User type must be homeowner or provider")
	}

	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(email) == "" {
		errs.Add("email", "Email is required")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidateGroup(name, zip string) ValidationErrors {
	errs := make(ValidationErrors)

	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "Group name is required")
	} else if len(name) > 100 {
		errs.Add("name", "Group name is too long")
	}

	if strings.TrimSpace(zip) == "" {
		errs.Add("zip", "A ZIP code or an address containing one is required")
	}

	return errs
}

// ValidateOffer checks an offer after numeric coercion.
func ValidateOffer(o *domain.Offer) ValidationErrors {
	errs := make(ValidationErrors)

	title := strings.TrimSpace(o.Title)
	if title == "" {
		errs.Add("title", "Title is required")
	} else if len(title) > 200 {
		errs.Add("title", "Title is too long")
	}

	if o.MinHomes < 1 {
		errs.Add("minHomes", "Minimum homes must be at least 1")
	}
	if o.MaxHomes < o.MinHomes {
		errs.Add("maxHomes", "Maximum homes must not be below minimum homes")
	}
	if o.BasePrice < 0 {
		errs.Add("basePrice", "Base price must not be negative")
	}
	if o.PricePerHome < 0 {
		errs.Add("pricePerHome", "Price per home must not be negative")
	}
	if o.AreaCoverage < 0 {
		errs.Add("areaCoverage", "Area coverage must not be negative")
	}

	for _, a := range o.Amenities {
		if !domain.ValidAmenity(a) {
			errs.Add("amenities", "Unknown amenity: "+a)
			break
		}
	}

	return errs
}

func ValidateMessage(content string) ValidationErrors {
	errs := make(ValidationErrors)

	content = strings.TrimSpace(content)
	if content == "" {
		errs.Add("content", "Message content is required")
	} else if len(content) > 4000 {
		errs.Add("content", "Message is too long")
	}

	return errs
}

func validateEmail(email string, errs ValidationErrors) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}
}
