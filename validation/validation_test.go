package validation

import (
	"context"
	"encoding/json"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/rpupo63/devsearch-backend/errs"
	"github.com/rpupo63/devsearch-backend/models"
)

type fakeLookup struct {
	usernames map[string]bool
	emails    map[string]bool
}

func (f fakeLookup) UsernameTaken(_ context.Context, username string) (bool, error) {
	return f.usernames[username], nil
}

func (f fakeLookup) EmailTaken(_ context.Context, email string) (bool, error) {
	return f.emails[email], nil
}

func ptr(s string) *string { return &s }

func TestPasswordProblems(t *testing.T) {
	tests := []struct {
		password string
		want     []string
	}{
		{"Sup3r$ecret", nil},
		{"Ab1$", []string{"Password must be at least 8 characters."}},
		{"abcdefg1$", []string{"Password must contain at least one uppercase letter."}},
		{"ABCDEFG1$", []string{"Password must contain at least one lowercase letter."}},
		{"Abcdefgh$", []string{"Password must contain at least one digit."}},
		{"Abcdefg1 $", []string{"Password must not contain spaces."}},
		{"Abcdefgh1", []string{"Password must contain at least one symbol."}},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			got := PasswordProblems(tt.password)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PasswordProblems(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestRegistrationCollectsEveryProblem(t *testing.T) {
	lookup := fakeLookup{usernames: map[string]bool{"ada": true}, emails: map[string]bool{}}
	reg := Registration{Username: "ada", Email: "not-an-email", Password: "short", Confirmation: ptr("other")}

	problems, err := reg.Validate(context.Background(), lookup)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	for _, field := range []string{"username", "email", "password", "password_2"} {
		if len(problems[field]) == 0 {
			t.Errorf("expected a problem for %q, got %v", field, problems)
		}
	}
	if problems["username"][0] != "Username used before!" {
		t.Errorf("username message = %q", problems["username"][0])
	}

	verr := problems.Err()
	if errs.Status(verr) != 422 {
		t.Errorf("status = %d, want 422", errs.Status(verr))
	}
}

func TestRegistrationTakenEmail(t *testing.T) {
	lookup := fakeLookup{emails: map[string]bool{"ada@example.com": true}}
	reg := Registration{Username: "grace", Email: "ada@example.com", Password: "Sup3r$ecret"}

	problems, err := reg.Validate(context.Background(), lookup)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := problems["email"]; len(got) != 1 || got[0] != "Email used before!" {
		t.Errorf("email problems = %v", got)
	}
	if len(problems) != 1 {
		t.Errorf("unexpected problems: %v", problems)
	}
}

func TestProfileUpdateNullClears(t *testing.T) {
	var update ProfileUpdate
	if err := json.Unmarshal([]byte(`{"bio": null, "location": "Lisbon"}`), &update); err != nil {
		t.Fatal(err)
	}
	p := models.Profile{Username: "ada", Bio: ptr("old bio"), ShortIntro: ptr("intro")}

	columns := update.Apply(&p)

	if p.Bio != nil {
		t.Errorf("Bio = %q, want nil", *p.Bio)
	}
	if p.Location == nil || *p.Location != "Lisbon" {
		t.Errorf("Location = %v", p.Location)
	}
	if p.ShortIntro == nil || *p.ShortIntro != "intro" {
		t.Error("absent field should be left alone")
	}
	if p.Username != "ada" {
		t.Errorf("Username = %q", p.Username)
	}
	if !reflect.DeepEqual(columns, []string{"location", "bio"}) {
		t.Errorf("columns = %v", columns)
	}
}

func TestProjectUpdateRejectsNullTitle(t *testing.T) {
	var update ProjectUpdate
	if err := json.Unmarshal([]byte(`{"title": null}`), &update); err != nil {
		t.Fatal(err)
	}
	if problems := update.Validate(); len(problems["title"]) == 0 {
		t.Error("null title should fail validation")
	}

	update = ProjectUpdate{Title: Some("x")}
	if problems := update.Validate(); len(problems["title"]) == 0 {
		t.Error("one character title should fail validation")
	}
}

func TestReviewInput(t *testing.T) {
	if problems := (ReviewInput{Value: "sideways"}).Validate(); problems.Empty() {
		t.Error("unknown vote value accepted")
	}
	if problems := (ReviewInput{Value: models.VoteDown}).Validate(); !problems.Empty() {
		t.Errorf("down vote rejected: %v", problems)
	}
}

func TestMessageInput(t *testing.T) {
	in := MessageInput{Subject: "Hi", Body: "Hello"}
	if problems := in.Validate(false); !problems.Empty() {
		t.Errorf("member message rejected: %v", problems)
	}
	problems := in.Validate(true)
	if len(problems["name"]) == 0 || len(problems["email"]) == 0 {
		t.Errorf("anonymous message without name and email accepted: %v", problems)
	}
}

func TestFormString(t *testing.T) {
	values := url.Values{"bio": {""}, "location": {"Porto"}}
	if f := FormString(values, "bio"); !f.Set || !f.Null {
		t.Errorf("empty value = %+v, want null", f)
	}
	if f := FormString(values, "location"); f.Value != "Porto" || f.Null {
		t.Errorf("location = %+v", f)
	}
	if f := FormString(values, "github"); f.Set {
		t.Errorf("absent key = %+v, want unset", f)
	}
}

func TestTagNames(t *testing.T) {
	got := TagNames("  go  python go rust ")
	want := []string{"go", "python", "rust"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TagNames() = %v, want %v", got, want)
	}
}

func TestProjectTagsAreChecked(t *testing.T) {
	long := strings.Repeat("x", MaxTagLength+1)

	tests := []struct {
		name     string
		problems Errors
		wantTags bool
	}{
		{"create with short tags", ProjectInput{Title: "Devsearch", Tags: "go rust"}.Validate(), false},
		{"create with long tag", ProjectInput{Title: "Devsearch", Tags: "go " + long}.Validate(), true},
		{"update with long tag", ProjectUpdate{Tags: long}.Validate(), true},
		{"update without tags", ProjectUpdate{}.Validate(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, got := tt.problems["tags"]; got != tt.wantTags {
				t.Errorf("tags error = %v, want %v (%v)", got, tt.wantTags, tt.problems)
			}
		})
	}

	if got := TagNames("go " + long); len(got) != 2 {
		t.Errorf("TagNames() = %d names, want both kept for Validate to report", len(got))
	}
}
