package registration

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"collabhub/models"
)

// Step identifies one page of the registration wizard.
type Step int

const (
	StepBasicInfo Step = iota + 1
	StepProfile
	StepPreferences
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepBasicInfo:
		return "basic-info"
	case StepProfile:
		return "profile"
	case StepPreferences:
		return "preferences"
	case StepReview:
		return "review"
	}
	return "unknown"
}

// StepErrors maps a field name to its error message. Empty means valid.
type StepErrors map[string]string

func (e StepErrors) Valid() bool { return len(e) == 0 }

// Field names used as StepErrors keys.
const (
	FieldEmail               = "email"
	FieldFullName            = "fullName"
	FieldPassword            = "password"
	FieldPasswordConfirm     = "passwordConfirm"
	FieldProfessionalTitle   = "professionalTitle"
	FieldSkills              = "skills"
	FieldExperienceLevel     = "experienceLevel"
	FieldProjectPreferences  = "projectPreferences"
	FieldCollaborationStyles = "collaborationStyles"
	FieldLanguages           = "languages"
	FieldCountry             = "country"
	FieldWeeklyAvailability  = "weeklyAvailability"
	FieldSubmit              = "submit"
)

const (
	minPasswordLength = 8
	specialCharacters = "!@#$%^&*"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upperPattern = regexp.MustCompile(`[A-Z]`)
	lowerPattern = regexp.MustCompile(`[a-z]`)
	digitPattern = regexp.MustCompile(`[0-9]`)
)

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// ValidateEmail returns an error message, or "" when the address is acceptable.
func ValidateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required"
	}
	if !emailPattern.MatchString(email) {
		return "Please enter a valid email address"
	}
	return ""
}

// ValidatePassword returns a single message covering the length shortfall and
// every missing character category, or "" when the password is acceptable.
// Categories are listed in the order uppercase, lowercase, number, special.
func ValidatePassword(pw string) string {
	if pw == "" {
		return "Password is required"
	}

	var missing []string
	if !upperPattern.MatchString(pw) {
		missing = append(missing, "uppercase")
	}
	if !lowerPattern.MatchString(pw) {
		missing = append(missing, "lowercase")
	}
	if !digitPattern.MatchString(pw) {
		missing = append(missing, "number")
	}
	if !strings.ContainsAny(pw, specialCharacters) {
		missing = append(missing, "special")
	}
	short := utf8.RuneCountInString(pw) < minPasswordLength

	switch {
	case short && len(missing) > 0:
		return "Password must be at least 8 characters and include: " + strings.Join(missing, ", ")
	case short:
		return "Password must be at least 8 characters"
	case len(missing) > 0:
		return "Password must include: " + strings.Join(missing, ", ")
	}
	return ""
}

// Validate checks only the fields owned by step. It is pure: the same step
// and record always yield the same result.
func Validate(step Step, r models.RegistrationRecord) StepErrors {
	errs := StepErrors{}

	switch step {
	case StepBasicInfo:
		if msg := ValidateEmail(r.Email); msg != "" {
			errs[FieldEmail] = msg
		}
		if blank(r.FullName) {
			errs[FieldFullName] = "Full name is required"
		}
		if msg := ValidatePassword(r.Password); msg != "" {
			errs[FieldPassword] = msg
		}
		switch {
		case r.PasswordConfirm == "":
			errs[FieldPasswordConfirm] = "Please confirm your password"
		case r.PasswordConfirm != r.Password:
			errs[FieldPasswordConfirm] = "Passwords do not match"
		}

	case StepProfile:
		if blank(r.ProfessionalTitle) {
			errs[FieldProfessionalTitle] = "Professional title is required"
		}
		if len(r.Skills) == 0 {
			errs[FieldSkills] = "Add at least one skill"
		}
		if r.ExperienceLevel == "" {
			errs[FieldExperienceLevel] = "Experience level is required"
		}

	case StepPreferences:
		if len(r.ProjectPreferences) == 0 {
			errs[FieldProjectPreferences] = "Select at least one project type"
		}
		if len(r.CollaborationStyles) == 0 {
			errs[FieldCollaborationStyles] = "Select at least one collaboration style"
		}
		if len(r.Languages) == 0 {
			errs[FieldLanguages] = "Select at least one language"
		}
		if blank(r.Country) {
			errs[FieldCountry] = "Country is required"
		}
		if r.WeeklyAvailability < 1 {
			errs[FieldWeeklyAvailability] = "Weekly availability must be at least 1 hour"
		}
	}
	return errs
}
