package validation

import (
	"strings"

	"github.com/rpupo63/devsearch-backend/models"
)

// ProfileUpdate is a partial update of the editable profile fields.
type ProfileUpdate struct {
	FirstName  Field[string] `json:"first_name"`
	LastName   Field[string] `json:"last_name"`
	Location   Field[string] `json:"location"`
	ShortIntro Field[string] `json:"short_intro"`
	Bio        Field[string] `json:"bio"`
	Github     Field[string] `json:"github"`
	X          Field[string] `json:"x"`
	Linkedin   Field[string] `json:"linkedin"`
	Youtube    Field[string] `json:"youtube"`
	Website    Field[string] `json:"website"`
}

func (u ProfileUpdate) Validate() Errors {
	problems := Errors{}
	maxLen(problems, "first_name", u.FirstName, 50)
	maxLen(problems, "last_name", u.LastName, 50)
	maxLen(problems, "location", u.Location, 200)
	maxLen(problems, "short_intro", u.ShortIntro, 200)
	for name, f := range map[string]Field[string]{
		"github": u.Github, "x": u.X, "linkedin": u.Linkedin, "youtube": u.Youtube, "website": u.Website,
	} {
		maxLen(problems, name, f, 200)
	}
	return problems
}

// Apply merges the update into p and returns the columns that were present in the payload.
func (u ProfileUpdate) Apply(p *models.Profile) []string {
	var columns []string
	merge := func(column string, f Field[string], dst **string) {
		if f.Set {
			MergeNullable(f, dst)
			columns = append(columns, column)
		}
	}
	merge("first_name", u.FirstName, &p.FirstName)
	merge("last_name", u.LastName, &p.LastName)
	merge("location", u.Location, &p.Location)
	merge("short_intro", u.ShortIntro, &p.ShortIntro)
	merge("bio", u.Bio, &p.Bio)
	merge("github", u.Github, &p.Github)
	merge("x", u.X, &p.X)
	merge("linkedin", u.Linkedin, &p.Linkedin)
	merge("youtube", u.Youtube, &p.Youtube)
	merge("website", u.Website, &p.Website)
	return columns
}

// ProjectInput creates a project. Tags is a space separated list of tag names.
type ProjectInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DemoLink    *string `json:"demo_link"`
	SourceCode  *string `json:"source_code"`
	Tags        string  `json:"tags"`
}

func (in ProjectInput) Validate() Errors {
	problems := Errors{}
	problems.Check("title", strings.TrimSpace(in.Title), "min=2,max=200", "Title must be between 2 and 200 characters.")
	if in.DemoLink != nil {
		problems.Check("demo_link", *in.DemoLink, "max=2000", "Demo link is too long.")
	}
	if in.SourceCode != nil {
		problems.Check("source_code", *in.SourceCode, "max=2000", "Source code link is too long.")
	}
	checkTags(problems, in.Tags)
	return problems
}

func (in ProjectInput) Project() models.Project {
	return models.Project{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		DemoLink:    in.DemoLink,
		SourceCode:  in.SourceCode,
	}
}

const MaxTagLength = 200

// ValidTagName reports whether name fits the tags.name column.
func ValidTagName(name string) bool {
	return name != "" && len(name) <= MaxTagLength
}

// checkTags reports every tag in a space separated list that is too long.
func checkTags(problems Errors, raw string) {
	for _, name := range strings.Fields(raw) {
		if !ValidTagName(name) {
			problems.Add("tags", "Tag names must be at most 200 characters.")
			return
		}
	}
}

// TagNames splits a space separated tag list, dropping duplicates. Lengths are checked by Validate.
func TagNames(raw string) []string {
	seen := map[string]bool{}
	var names []string
	for _, name := range strings.Fields(raw) {
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// ProjectUpdate is a partial update of a project. Title may be omitted but never null.
type ProjectUpdate struct {
	Title       Field[string] `json:"title"`
	Description Field[string] `json:"description"`
	DemoLink    Field[string] `json:"demo_link"`
	SourceCode  Field[string] `json:"source_code"`
	Tags        string        `json:"tags"`
}

func (u ProjectUpdate) Validate() Errors {
	problems := Errors{}
	if u.Title.Set {
		if u.Title.Null {
			problems.Add("title", "Title may not be null.")
		} else {
			problems.Check("title", strings.TrimSpace(u.Title.Value), "min=2,max=200", "Title must be between 2 and 200 characters.")
		}
	}
	maxLen(problems, "demo_link", u.DemoLink, 2000)
	maxLen(problems, "source_code", u.SourceCode, 2000)
	checkTags(problems, u.Tags)
	return problems
}

func (u ProjectUpdate) Apply(p *models.Project) []string {
	var columns []string
	if u.Title.Set && !u.Title.Null {
		p.Title = strings.TrimSpace(u.Title.Value)
		columns = append(columns, "title")
	}
	for _, m := range []struct {
		column string
		f      Field[string]
		dst    **string
	}{
		{"description", u.Description, &p.Description},
		{"demo_link", u.DemoLink, &p.DemoLink},
		{"source_code", u.SourceCode, &p.SourceCode},
	} {
		if m.f.Set {
			MergeNullable(m.f, m.dst)
			columns = append(columns, m.column)
		}
	}
	return columns
}

type SkillInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (in SkillInput) Validate() Errors {
	problems := Errors{}
	problems.Check("name", strings.TrimSpace(in.Name), "required,max=200", "Name is required and must not exceed 200 characters.")
	return problems
}

// SkillUpdate is a partial skill update; name may be omitted but never null.
type SkillUpdate struct {
	Name        Field[string] `json:"name"`
	Description Field[string] `json:"description"`
}

func (u SkillUpdate) Validate() Errors {
	problems := Errors{}
	if u.Name.Set {
		if u.Name.Null {
			problems.Add("name", "Name may not be null.")
		} else {
			problems.Check("name", strings.TrimSpace(u.Name.Value), "required,max=200", "Name is required and must not exceed 200 characters.")
		}
	}
	return problems
}

func (u SkillUpdate) Apply(s *models.Skill) {
	if u.Name.Set && !u.Name.Null {
		s.Name = strings.TrimSpace(u.Name.Value)
	}
	MergeNullable(u.Description, &s.Description)
}

type ReviewInput struct {
	Value models.ReviewValue `json:"value"`
	Body  *string            `json:"body"`
}

func (in ReviewInput) Validate() Errors {
	problems := Errors{}
	if !in.Value.Valid() {
		problems.Add("value", "Value must be 'up' or 'down'.")
	}
	return problems
}

type ReviewUpdate struct {
	Value Field[models.ReviewValue] `json:"value"`
	Body  Field[string]             `json:"body"`
}

func (u ReviewUpdate) Validate() Errors {
	problems := Errors{}
	if u.Value.Set && (u.Value.Null || !u.Value.Value.Valid()) {
		problems.Add("value", "Value must be 'up' or 'down'.")
	}
	return problems
}

func (u ReviewUpdate) Apply(r *models.Review) {
	MergeRequired(u.Value, &r.Value)
	MergeNullable(u.Body, &r.Body)
}

// MessageInput is a new message. Name and Email are required only from anonymous senders.
type MessageInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (in MessageInput) Validate(anonymous bool) Errors {
	problems := Errors{}
	problems.Check("subject", strings.TrimSpace(in.Subject), "required,max=200", "Subject is required and must not exceed 200 characters.")
	problems.Check("body", strings.TrimSpace(in.Body), "required", "Body is required.")
	if anonymous {
		problems.Check("name", strings.TrimSpace(in.Name), "required,max=200", "Name is required and must not exceed 200 characters.")
		if !ValidEmail(in.Email) {
			problems.Add("email", "value is not a valid email address")
		}
	}
	return problems
}

func maxLen(problems Errors, field string, f Field[string], n int) {
	if f.Set && !f.Null && len([]rune(f.Value)) > n {
		problems.Add(field, "Must not exceed "+itoa(n)+" characters.")
	}
}
