package models

// RegistrationRecord accumulates the registration form across the wizard steps.
// Every field is optional until the final step.
type RegistrationRecord struct {
	// Step 1: identity.
	Email           string `json:"email"`
	FullName        string `json:"fullName"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`

	// Step 2: profile.
	ProfessionalTitle string   `json:"professionalTitle"`
	Bio               string   `json:"bio"`
	Skills            []string `json:"skills"`
	ExperienceLevel   string   `json:"experienceLevel"`
	YearsOfExperience int      `json:"yearsOfExperience"`
	ProfilePicture    string   `json:"profilePicture"`
	ProfileEmoji      string   `json:"profileEmoji"`
	ProfileColor      string   `json:"profileColor"`

	// Step 3: preferences.
	ProjectPreferences  []string `json:"projectPreferences"`
	CollaborationStyles []string `json:"collaborationStyles"`
	Languages           []string `json:"languages"`
	Country             string   `json:"country"`
	WeeklyAvailability  int      `json:"weeklyAvailability"`
}

// Clone returns a deep copy of r.
func (r RegistrationRecord) Clone() RegistrationRecord {
	out := r
	out.Skills = cloneStrings(r.Skills)
	out.ProjectPreferences = cloneStrings(r.ProjectPreferences)
	out.CollaborationStyles = cloneStrings(r.CollaborationStyles)
	out.Languages = cloneStrings(r.Languages)
	return out
}

// Redacted returns a copy safe to send back to clients.
func (r RegistrationRecord) Redacted() RegistrationRecord {
	out := r.Clone()
	out.Password = ""
	out.PasswordConfirm = ""
	return out
}

// RegistrationPatch carries a partial update; nil fields are left untouched.
type RegistrationPatch struct {
	Email           *string `json:"email,omitempty"`
	FullName        *string `json:"fullName,omitempty"`
	Password        *string `json:"password,omitempty"`
	PasswordConfirm *string `json:"passwordConfirm,omitempty"`

	ProfessionalTitle *string   `json:"professionalTitle,omitempty"`
	Bio               *string   `json:"bio,omitempty"`
	Skills            *[]string `json:"skills,omitempty"`
	ExperienceLevel   *string   `json:"experienceLevel,omitempty"`
	YearsOfExperience *int      `json:"yearsOfExperience,omitempty"`
	ProfilePicture    *string   `json:"profilePicture,omitempty"`
	ProfileEmoji      *string   `json:"profileEmoji,omitempty"`
	ProfileColor      *string   `json:"profileColor,omitempty"`

	ProjectPreferences  *[]string `json:"projectPreferences,omitempty"`
	CollaborationStyles *[]string `json:"collaborationStyles,omitempty"`
	Languages           *[]string `json:"languages,omitempty"`
	Country             *string   `json:"country,omitempty"`
	WeeklyAvailability  *int      `json:"weeklyAvailability,omitempty"`
}

// Apply merges the present fields of p into r.
func (p RegistrationPatch) Apply(r *RegistrationRecord) {
	setString(&r.Email, p.Email)
	setString(&r.FullName, p.FullName)
	setString(&r.Password, p.Password)
	setString(&r.PasswordConfirm, p.PasswordConfirm)

	setString(&r.ProfessionalTitle, p.ProfessionalTitle)
	setString(&r.Bio, p.Bio)
	setStrings(&r.Skills, p.Skills)
	setString(&r.ExperienceLevel, p.ExperienceLevel)
	setInt(&r.YearsOfExperience, p.YearsOfExperience)
	setString(&r.ProfilePicture, p.ProfilePicture)
	setString(&r.ProfileEmoji, p.ProfileEmoji)
	setString(&r.ProfileColor, p.ProfileColor)

	setStrings(&r.ProjectPreferences, p.ProjectPreferences)
	setStrings(&r.CollaborationStyles, p.CollaborationStyles)
	setStrings(&r.Languages, p.Languages)
	setString(&r.Country, p.Country)
	setInt(&r.WeeklyAvailability, p.WeeklyAvailability)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setStrings(dst *[]string, src *[]string) {
	if src != nil {
		*dst = cloneStrings(*src)
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
