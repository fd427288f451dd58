package policy

import (
	"strings"
	"time"

	"github.com/rohits-web03/devfolio/internal/apperrors"
	"github.com/rohits-web03/devfolio/internal/auth"
	"github.com/rohits-web03/devfolio/internal/models"
	"gorm.io/datatypes"
)

const MinYear = 1900

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DecodeRegistration checks name, email format and the password policy.
func DecodeRegistration(body []byte) (Registration, error) {
	fields, err := object(body)
	if err != nil {
		return Registration{}, err
	}
	var in struct {
		Name, Email, Password *string
	}
	for _, f := range []keyed[any]{{"name", &in.Name}, {"email", &in.Email}, {"password", &in.Password}} {
		if _, err := field(fields, f.key, f.val); err != nil {
			return Registration{}, err
		}
	}
	if in.Name == nil || in.Email == nil || in.Password == nil {
		return Registration{}, apperrors.Validation("Please enter all fields")
	}
	if err := requireText("name", in.Name); err != nil {
		return Registration{}, err
	}
	email, err := NormalizeEmail(*in.Email)
	if err != nil {
		return Registration{}, err
	}
	if err := auth.ValidatePassword(*in.Password); err != nil {
		return Registration{}, err
	}
	return Registration{Name: strings.TrimSpace(*in.Name), Email: email, Password: *in.Password}, nil
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func DecodeLogin(body []byte) (Credentials, error) {
	fields, err := object(body)
	if err != nil {
		return Credentials{}, err
	}
	var email, password string
	if _, err := field(fields, "email", &email); err != nil {
		return Credentials{}, err
	}
	if _, err := field(fields, "password", &password); err != nil {
		return Credentials{}, err
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return Credentials{}, apperrors.Validation("Please enter Email & Password")
	}
	return Credentials{Email: strings.ToLower(strings.TrimSpace(email)), Password: password}, nil
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// DecodePasswordChange only checks shape and the policy of the new password.
// Matching the current password is the caller's job.
func DecodePasswordChange(body []byte) (PasswordChange, error) {
	fields, err := object(body)
	if err != nil {
		return PasswordChange{}, err
	}
	if err := onlyKeys(fields, "currentPassword", "newPassword"); err != nil {
		return PasswordChange{}, err
	}
	var in PasswordChange
	if _, err := field(fields, "currentPassword", &in.CurrentPassword); err != nil {
		return PasswordChange{}, err
	}
	if _, err := field(fields, "newPassword", &in.NewPassword); err != nil {
		return PasswordChange{}, err
	}
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return PasswordChange{}, apperrors.Validation("currentPassword and newPassword are required")
	}
	if err := auth.ValidatePassword(in.NewPassword); err != nil {
		return PasswordChange{}, err
	}
	return in, nil
}

// ProfileUpdate carries the fields present in a generic profile update.
type ProfileUpdate struct {
	Name      *string
	Email     *string
	Education *[]models.Education
	Skills    *[]string
	Work      *[]models.Work
	Links     *models.ProfileLinks
}

// Columns lists the store columns touched by the update.
func (u ProfileUpdate) Columns() []string {
	var cols []string
	if u.Name != nil {
		cols = append(cols, "name")
	}
	if u.Email != nil {
		cols = append(cols, "email")
	}
	if u.Education != nil {
		cols = append(cols, "education")
	}
	if u.Skills != nil {
		cols = append(cols, "skills")
	}
	if u.Work != nil {
		cols = append(cols, "work")
	}
	if u.Links != nil {
		cols = append(cols, "links")
	}
	return cols
}

func (u ProfileUpdate) Apply(p *models.Profile) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Education != nil {
		p.Education = *u.Education
	}
	if u.Skills != nil {
		p.Skills = *u.Skills
	}
	if u.Work != nil {
		p.Work = *u.Work
	}
	if u.Links != nil {
		p.Links = datatypes.NewJSONType(*u.Links)
	}
}

var profileUpdateKeys = []string{"name", "email", "education", "skills", "work", "links"}

// DecodeProfileUpdate guards the generic profile update. The password can only
// be changed through the dedicated route.
func DecodeProfileUpdate(body []byte) (ProfileUpdate, error) {
	fields, err := object(body)
	if err != nil {
		return ProfileUpdate{}, err
	}
	if _, ok := fields["password"]; ok {
		return ProfileUpdate{}, apperrors.Validation("Password cannot be updated via this route")
	}
	if err := onlyKeys(fields, profileUpdateKeys...); err != nil {
		return ProfileUpdate{}, err
	}

	var u ProfileUpdate
	var name, email string
	if ok, err := field(fields, "name", &name); err != nil {
		return ProfileUpdate{}, err
	} else if ok {
		if err := requireText("name", &name); err != nil {
			return ProfileUpdate{}, err
		}
		name = strings.TrimSpace(name)
		u.Name = &name
	}
	if ok, err := field(fields, "email", &email); err != nil {
		return ProfileUpdate{}, err
	} else if ok {
		if email, err = NormalizeEmail(email); err != nil {
			return ProfileUpdate{}, err
		}
		u.Email = &email
	}

	var education []models.Education
	if ok, err := field(fields, "education", &education); err != nil {
		return ProfileUpdate{}, err
	} else if ok {
		if education == nil {
			education = []models.Education{}
		}
		for _, e := range education {
			if err := checkEducation(e, time.Now().Year()); err != nil {
				return ProfileUpdate{}, err
			}
		}
		u.Education = &education
	}

	var skills []string
	if ok, err := field(fields, "skills", &skills); err != nil {
		return ProfileUpdate{}, err
	} else if ok {
		skills = NormalizeSkills(skills)
		u.Skills = &skills
	}

	var work []models.Work
	if ok, err := field(fields, "work", &work); err != nil {
		return ProfileUpdate{}, err
	} else if ok {
		if work == nil {
			work = []models.Work{}
		}
		for _, w := range work {
			if err := checkWork(w); err != nil {
				return ProfileUpdate{}, err
			}
		}
		u.Work = &work
	}

	var links models.ProfileLinks
	if ok, err := field(fields, "links", &links); err != nil {
		return ProfileUpdate{}, err
	} else if ok {
		if err := checkProfileLinks(links); err != nil {
			return ProfileUpdate{}, err
		}
		u.Links = &links
	}
	return u, nil
}

func checkEducation(e models.Education, currentYear int) error {
	if strings.TrimSpace(e.Degree) == "" || strings.TrimSpace(e.Institution) == "" || e.StartYear == 0 {
		return apperrors.Validation("Degree, institution, and start year are required")
	}
	if e.StartYear < MinYear || e.StartYear > currentYear {
		return apperrors.Validationf("startYear must be between %d and %d", MinYear, currentYear)
	}
	if e.EndYear != nil && *e.EndYear < MinYear {
		return apperrors.Validationf("endYear must be %d or later", MinYear)
	}
	return nil
}

// DecodeEducation guards one education entry appended to a profile.
func DecodeEducation(body []byte, now time.Time) (models.Education, error) {
	fields, err := object(body)
	if err != nil {
		return models.Education{}, err
	}
	if err := onlyKeys(fields, "degree", "institution", "startYear", "endYear", "description"); err != nil {
		return models.Education{}, err
	}
	var e models.Education
	for _, f := range []keyed[any]{
		{"degree", &e.Degree}, {"institution", &e.Institution}, {"startYear", &e.StartYear},
		{"endYear", &e.EndYear}, {"description", &e.Description},
	} {
		if _, err := field(fields, f.key, f.val); err != nil {
			return models.Education{}, err
		}
	}
	e.Degree = strings.TrimSpace(e.Degree)
	e.Institution = strings.TrimSpace(e.Institution)
	if err := checkEducation(e, now.Year()); err != nil {
		return models.Education{}, err
	}
	return e, nil
}

func checkWork(w models.Work) error {
	if strings.TrimSpace(w.Company) == "" || strings.TrimSpace(w.Role) == "" || strings.TrimSpace(w.StartDate) == "" {
		return apperrors.Validation("Company, role, and start date are required")
	}
	return nil
}

// DecodeWork guards one work entry appended to a profile.
func DecodeWork(body []byte) (models.Work, error) {
	fields, err := object(body)
	if err != nil {
		return models.Work{}, err
	}
	if err := onlyKeys(fields, "company", "role", "location", "startDate", "endDate", "description"); err != nil {
		return models.Work{}, err
	}
	var w models.Work
	for _, f := range []keyed[any]{
		{"company", &w.Company}, {"role", &w.Role}, {"location", &w.Location},
		{"startDate", &w.StartDate}, {"endDate", &w.EndDate}, {"description", &w.Description},
	} {
		if _, err := field(fields, f.key, f.val); err != nil {
			return models.Work{}, err
		}
	}
	w.Company = strings.TrimSpace(w.Company)
	w.Role = strings.TrimSpace(w.Role)
	if err := checkWork(w); err != nil {
		return models.Work{}, err
	}
	return w, nil
}

func checkProfileLinks(l models.ProfileLinks) error {
	for _, link := range []keyed[string]{{"github", l.Github}, {"linkedin", l.Linkedin}, {"portfolio", l.Portfolio}, {"resume", l.Resume}} {
		if err := checkURL(link.key, link.val); err != nil {
			return err
		}
	}
	return nil
}

// ProfileLinksPatch holds the link keys present in a patch. An empty string
// clears a link.
type ProfileLinksPatch struct {
	Github, Linkedin, Portfolio, Resume *string
}

func (p ProfileLinksPatch) Merge(l models.ProfileLinks) models.ProfileLinks {
	if p.Github != nil {
		l.Github = *p.Github
	}
	if p.Linkedin != nil {
		l.Linkedin = *p.Linkedin
	}
	if p.Portfolio != nil {
		l.Portfolio = *p.Portfolio
	}
	if p.Resume != nil {
		l.Resume = *p.Resume
	}
	return l
}

func DecodeProfileLinks(body []byte) (ProfileLinksPatch, error) {
	fields, err := object(body)
	if err != nil {
		return ProfileLinksPatch{}, err
	}
	if err := onlyKeys(fields, "github", "linkedin", "portfolio", "resume"); err != nil {
		return ProfileLinksPatch{}, err
	}
	var p ProfileLinksPatch
	for _, link := range []keyed[**string]{{"github", &p.Github}, {"linkedin", &p.Linkedin}, {"portfolio", &p.Portfolio}, {"resume", &p.Resume}} {
		key, dst := link.key, link.val
		if _, err := field(fields, key, dst); err != nil {
			return ProfileLinksPatch{}, err
		}
		if *dst != nil {
			trimmed := strings.TrimSpace(**dst)
			if err := checkURL(key, trimmed); err != nil {
				return ProfileLinksPatch{}, err
			}
			*dst = &trimmed
		}
	}
	return p, nil
}
