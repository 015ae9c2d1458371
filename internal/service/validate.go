package service

import (
	"errors"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/estatehub/estatehub-admin/internal/derive"
	"github.com/estatehub/estatehub-admin/internal/model"
)

const (
	MinPasswordLength = 8
	excerptLength     = 160
)

var (
	agentFieldOrder = []string{"first_name", "last_name", "email", "phone", "password",
		"license_number", "brokerage", "experience_years", "specialties"}
	userFieldOrder = []string{"first_name", "last_name", "email", "phone", "user_type",
		"password", "confirm_password"}
	postFieldOrder = []string{"title", "content", "excerpt", "status", "featured_image", "category_ids"}
)

// normalizeAgent trims every field and lower-cases the email.
func normalizeAgent(in model.AgentInput) model.AgentInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.LicenseNumber = strings.TrimSpace(in.LicenseNumber)
	in.Brokerage = strings.TrimSpace(in.Brokerage)
	in.ExperienceYears = strings.TrimSpace(in.ExperienceYears)
	in.Specialties = strings.TrimSpace(in.Specialties)
	return in
}

func normalizeUser(in model.UserInput) model.UserInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.UserType = strings.ToLower(strings.TrimSpace(in.UserType))
	return in
}

// normalizePost trims text fields, defaults the status to draft and drops
// blank category ids.
func normalizePost(in model.BlogPostInput) model.BlogPostInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	if in.Status == "" {
		in.Status = string(model.PostStatusDraft)
	}

	ids := make([]string, 0, len(in.CategoryIDs))
	for _, id := range in.CategoryIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	in.CategoryIDs = ids
	return in
}

// validateAgent checks an add-agent submission. It has no side effects.
func validateAgent(in model.AgentInput) ([]Violation, error) {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.FirstName,
			validation.Required.Error("First name is required"),
			validation.RuneLength(0, 100).Error("First name must be at most 100 characters"),
		),
		validation.Field(&in.LastName,
			validation.Required.Error("Last name is required"),
			validation.RuneLength(0, 100).Error("Last name must be at most 100 characters"),
		),
		validation.Field(&in.Email,
			validation.Required.Error("Email is required"),
			is.EmailFormat.Error("Email address is not valid"),
		),
		validation.Field(&in.Phone,
			validation.RuneLength(0, 32).Error("Phone must be at most 32 characters"),
		),
		validation.Field(&in.LicenseNumber,
			validation.Required.Error("License number is required"),
			validation.RuneLength(0, 64).Error("License number must be at most 64 characters"),
		),
		validation.Field(&in.Brokerage,
			validation.RuneLength(0, 255).Error("Brokerage must be at most 255 characters"),
		),
		validation.Field(&in.ExperienceYears,
			validation.By(experienceRule),
		),
	)
	return violationsFrom(err, agentFieldOrder...)
}

// validateUser checks an add-user submission except for email uniqueness,
// which needs the database.
func validateUser(in model.UserInput) ([]Violation, error) {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.FirstName,
			validation.Required.Error("First name is required"),
			validation.RuneLength(0, 100).Error("First name must be at most 100 characters"),
		),
		validation.Field(&in.LastName,
			validation.Required.Error("Last name is required"),
			validation.RuneLength(0, 100).Error("Last name must be at most 100 characters"),
		),
		validation.Field(&in.Email,
			validation.Required.Error("Email is required"),
			is.EmailFormat.Error("Email address is not valid"),
		),
		validation.Field(&in.Phone,
			validation.RuneLength(0, 32).Error("Phone must be at most 32 characters"),
		),
		validation.Field(&in.UserType,
			validation.Required.Error("User type is required"),
			validation.By(userTypeRule),
		),
		validation.Field(&in.Password,
			validation.Required.Error("Password is required"),
			validation.RuneLength(MinPasswordLength, 0).Error("Password must be at least 8 characters"),
		),
		validation.Field(&in.ConfirmPassword,
			validation.By(func(value interface{}) error {
				if value.(string) != in.Password {
					return errors.New("Passwords do not match")
				}
				return nil
			}),
		),
	)
	return violationsFrom(err, userFieldOrder...)
}

// validatePost checks an add-post submission except for category existence
// and the image payload.
func validatePost(in model.BlogPostInput) ([]Violation, error) {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title,
			validation.Required.Error("Title is required"),
			validation.RuneLength(0, 255).Error("Title must be at most 255 characters"),
			validation.By(func(value interface{}) error {
				if derive.Slug(value.(string)) == "" {
					return errors.New("Title must contain at least one letter or digit")
				}
				return nil
			}),
		),
		validation.Field(&in.Content,
			validation.Required.Error("Content is required"),
		),
		validation.Field(&in.Status,
			validation.By(statusRule),
		),
		validation.Field(&in.CategoryIDs,
			validation.Each(validation.By(categoryIDRule)),
		),
	)
	return violationsFrom(err, postFieldOrder...)
}

// parseExperience converts the experience field, empty meaning zero.
func parseExperience(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < model.MinExperienceYears || n > model.MaxExperienceYears {
		return 0, errors.New("Experience must be a whole number of years between 0 and 60")
	}
	return n, nil
}

func experienceRule(value interface{}) error {
	_, err := parseExperience(value.(string))
	return err
}

func userTypeRule(value interface{}) error {
	if !model.UserType(value.(string)).Valid() {
		return errors.New("User type must be client, agent or admin")
	}
	return nil
}

func statusRule(value interface{}) error {
	if !model.PostStatus(value.(string)).Valid() {
		return errors.New("Status must be draft, published or archived")
	}
	return nil
}

func categoryIDRule(value interface{}) error {
	if _, err := parseCategoryID(value.(string)); err != nil {
		return err
	}
	return nil
}

func parseCategoryID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("Category is not valid")
	}
	return id, nil
}

// categorySet parses already validated ids, dropping duplicates and keeping
// first-seen order.
func categorySet(raw []string) []int64 {
	seen := make(map[int64]bool, len(raw))
	ids := make([]int64, 0, len(raw))
	for _, s := range raw {
		id, err := parseCategoryID(s)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
