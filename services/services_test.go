package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/auth"
	"github.com/rpupo63/devsearch-backend/database"
	"github.com/rpupo63/devsearch-backend/errs"
	"github.com/rpupo63/devsearch-backend/media"
	"github.com/rpupo63/devsearch-backend/models"
	"github.com/rpupo63/devsearch-backend/testutil"
	"github.com/rpupo63/devsearch-backend/validation"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type sentMail struct{ to, subject, body string }

type captureMailer struct{ sent []sentMail }

func (m *captureMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

func setup(t *testing.T) (database.Database, *Services, *captureMailer) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	mailer := &captureMailer{}
	images := media.NewIngestor(media.NewLocalStore(t.TempDir(), "/static"), zerolog.Nop())
	return db, New(db, auth.NewIssuer(testutil.TestSecret), images, mailer, "http://localhost:8080"), mailer
}

func ptr(s string) *string { return &s }

func voteState(t *testing.T, db database.Database, id uuid.UUID) (int, float64) {
	t.Helper()
	project, err := db.ProjectRepo().FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	return project.VoteTotal, project.VoteRatio
}

func TestVoteRatioFollowsReviews(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()

	owner := testutil.CreateTestProfile(t, db, "owner")
	ada := testutil.CreateTestProfile(t, db, "ada")
	grace := testutil.CreateTestProfile(t, db, "grace")
	project := testutil.CreateTestProject(t, db, owner, "Compiler")

	adaReview, err := svc.Reviews.Create(ctx, ada.ID, project.ID, validation.ReviewInput{Value: models.VoteUp})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	steps := []struct {
		name      string
		do        func() error
		wantTotal int
		wantRatio float64
	}{
		{"first up vote", func() error { return nil }, 1, 100},
		{"second vote down", func() error {
			_, err := svc.Reviews.Create(ctx, grace.ID, project.ID, validation.ReviewInput{Value: models.VoteDown, Body: ptr("meh")})
			return err
		}, 2, 50},
		{"up vote flipped", func() error {
			_, err := svc.Reviews.Update(ctx, ada.ID, adaReview.ID, validation.ReviewUpdate{Value: validation.Some(models.VoteDown)})
			return err
		}, 2, 0},
		{"flipped back", func() error {
			_, err := svc.Reviews.Update(ctx, ada.ID, adaReview.ID, validation.ReviewUpdate{Value: validation.Some(models.VoteUp)})
			return err
		}, 2, 50},
		{"down vote deleted", func() error {
			mine, err := svc.Reviews.Mine(ctx, grace.ID, project.ID)
			if err != nil {
				return err
			}
			return svc.Reviews.Delete(ctx, grace.ID, mine.ID)
		}, 1, 100},
		{"last vote deleted", func() error { return svc.Reviews.Delete(ctx, ada.ID, adaReview.ID) }, 0, 0},
	}

	for _, step := range steps {
		if err := step.do(); err != nil {
			t.Fatalf("%s: error = %v", step.name, err)
		}
		total, ratio := voteState(t, db, project.ID)
		if total != step.wantTotal || math.Abs(ratio-step.wantRatio) > 1e-9 {
			t.Errorf("%s: total=%d ratio=%v, want total=%d ratio=%v", step.name, total, ratio, step.wantTotal, step.wantRatio)
		}
	}
}

func TestReviewRules(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()

	owner := testutil.CreateTestProfile(t, db, "owner")
	ada := testutil.CreateTestProfile(t, db, "ada")
	grace := testutil.CreateTestProfile(t, db, "grace")
	project := testutil.CreateTestProject(t, db, owner, "Compiler")

	if _, err := svc.Reviews.Create(ctx, owner.ID, project.ID, validation.ReviewInput{Value: models.VoteUp}); !errs.IsForbidden(err) {
		t.Errorf("own project review error = %v, want Forbidden", err)
	}

	review, err := svc.Reviews.Create(ctx, ada.ID, project.ID, validation.ReviewInput{Value: models.VoteUp})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Reviews.Create(ctx, ada.ID, project.ID, validation.ReviewInput{Value: models.VoteDown}); !errs.IsConflict(err) {
		t.Errorf("duplicate review error = %v, want Conflict", err)
	}
	if total, _ := voteState(t, db, project.ID); total != 1 {
		t.Errorf("vote_total = %d after rejected duplicate, want 1", total)
	}

	if err := svc.Reviews.Delete(ctx, grace.ID, review.ID); !errs.IsForbidden(err) {
		t.Errorf("deleting someone else's review error = %v, want Forbidden", err)
	}
	if _, err := svc.Reviews.Create(ctx, ada.ID, uuid.New(), validation.ReviewInput{Value: models.VoteUp}); !errs.IsNotFound(err) {
		t.Errorf("review of missing project error = %v, want NotFound", err)
	}
	if _, err := svc.Reviews.Create(ctx, grace.ID, project.ID, validation.ReviewInput{Value: "sideways"}); !errs.IsValidation(err) {
		t.Errorf("invalid value error = %v, want validation failure", err)
	}

	reviewed, err := svc.Reviews.HasReviewed(ctx, ada.ID, project.ID)
	if err != nil || !reviewed {
		t.Errorf("HasReviewed() = %v, %v", reviewed, err)
	}
}

func TestTagAssociation(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()

	owner := testutil.CreateTestProfile(t, db, "owner")
	stranger := testutil.CreateTestProfile(t, db, "stranger")
	first := testutil.CreateTestProject(t, db, owner, "First")
	second := testutil.CreateTestProject(t, db, owner, "Second", "go")

	goTag, err := svc.Tags.Add(ctx, owner.ID, first.ID, "go")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := svc.Tags.Add(ctx, owner.ID, first.ID, "go"); err != nil {
		t.Fatalf("second Add() error = %v", err)
	}
	tags, _ := svc.Tags.ForProject(ctx, first.ID)
	if len(tags) != 1 || tags[0].ID != goTag.ID {
		t.Errorf("tags after repeated add = %+v, want the one shared tag", tags)
	}

	if _, err := svc.Tags.Add(ctx, stranger.ID, first.ID, "rust"); !errs.IsForbidden(err) {
		t.Errorf("stranger Add() error = %v, want Forbidden", err)
	}
	if err := svc.Tags.Remove(ctx, stranger.ID, first.ID, goTag.ID); !errs.IsForbidden(err) {
		t.Errorf("stranger Remove() error = %v, want Forbidden", err)
	}

	// still used by the second project
	if err := svc.Tags.Remove(ctx, owner.ID, first.ID, goTag.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := db.TagRepo().FindByID(ctx, goTag.ID); err != nil {
		t.Errorf("shared tag was deleted: %v", err)
	}
	if err := svc.Tags.Remove(ctx, owner.ID, first.ID, goTag.ID); !errs.IsNotFound(err) {
		t.Errorf("Remove() of detached tag error = %v, want NotFound", err)
	}

	if err := svc.Tags.Remove(ctx, owner.ID, second.ID, goTag.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := db.TagRepo().FindByID(ctx, goTag.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("unused tag still present: %v", err)
	}
}

func TestProjectLifecycle(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()

	owner := testutil.CreateTestProfile(t, db, "owner")
	stranger := testutil.CreateTestProfile(t, db, "stranger")
	other := testutil.CreateTestProject(t, db, owner, "Other", "python")

	project, err := svc.Projects.Create(ctx, owner.ID, validation.ProjectInput{
		Title:       "Devsearch",
		Description: ptr("portfolio site"),
		Tags:        "go python go",
	}, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(project.Tags) != 2 || project.FeaturedImage != models.DefaultProjectImage {
		t.Errorf("created project = %+v", project)
	}

	var update validation.ProjectUpdate
	if err := json.Unmarshal([]byte(`{"description": null, "demo_link": "https://example.com"}`), &update); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Projects.Update(ctx, stranger.ID, project.ID, update); !errs.IsForbidden(err) {
		t.Errorf("stranger Update() error = %v, want Forbidden", err)
	}
	updated, err := svc.Projects.Update(ctx, owner.ID, project.ID, update)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Description != nil || updated.DemoLink == nil || updated.Title != "Devsearch" {
		t.Errorf("updated project = %+v", updated)
	}

	if err := svc.Projects.Delete(ctx, owner.ID, project.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Projects.Get(ctx, project.ID); !errs.IsNotFound(err) {
		t.Errorf("Get() after delete error = %v", err)
	}
	if _, err := db.TagRepo().FindByName(ctx, "go"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("orphaned tag kept: %v", err)
	}
	if _, err := db.TagRepo().FindByName(ctx, "python"); err != nil {
		t.Errorf("tag still used by %q was deleted: %v", other.Title, err)
	}
}

func TestProjectUpdateRejectsBadImageBeforeWriting(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()

	owner := testutil.CreateTestProfile(t, db, "owner")
	project := testutil.CreateTestProject(t, db, owner, "Compiler", "go")

	update := validation.ProjectUpdate{Title: validation.Some("Changed"), Tags: "go rust"}
	bad := &media.Upload{Filename: "bad.jpg", Size: 19, Body: strings.NewReader("not an image at all")}
	if _, err := svc.Projects.UpdateWithImage(ctx, owner.ID, project.ID, update, bad); !errs.IsBadRequest(err) {
		t.Fatalf("UpdateWithImage() error = %v, want BadRequest", err)
	}

	stored, err := svc.Projects.Get(ctx, project.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Title != "Compiler" || stored.HasTagNamed("rust") {
		t.Errorf("project changed by rejected update: %+v", stored)
	}

	updated, err := svc.Projects.UpdateWithImage(ctx, owner.ID, project.ID, update, nil)
	if err != nil {
		t.Fatalf("UpdateWithImage() without image error = %v", err)
	}
	if updated.Title != "Changed" || !updated.HasTagNamed("go") || !updated.HasTagNamed("rust") || len(updated.Tags) != 2 {
		t.Errorf("updated project = %+v", updated)
	}
}

func TestProjectSearch(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()

	owner := testutil.CreateTestProfile(t, db, "owner")
	testutil.CreateTestProject(t, db, owner, "Go Compiler", "go", "golang")
	testutil.CreateTestProject(t, db, owner, "Blog", "Django")
	testutil.CreateTestProject(t, db, owner, "Untagged goodies")

	tests := []struct {
		term string
		want int
	}{
		{"go", 3},
		{"GOLANG", 1},
		{"django", 1},
		{"", 3},
		{"nothing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			projects, page, err := svc.Projects.Search(ctx, tt.term, 1, 9)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(projects) != tt.want || page.Total != int64(tt.want) {
				t.Errorf("Search(%q) = %d projects, total %d; want %d", tt.term, len(projects), page.Total, tt.want)
			}
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()
	testutil.CreateTestProfile(t, db, "taken")

	_, err := svc.Accounts.Register(ctx, validation.Registration{
		Username: "taken", Email: "broken", Password: "weak", Confirmation: ptr("other"),
	})
	fields, ok := errs.AsValidation(err)
	if !ok {
		t.Fatalf("Register() error = %v, want validation failure", err)
	}
	for _, field := range []string{"username", "email", "password", "password_2"} {
		if len(fields[field]) == 0 {
			t.Errorf("missing %q in %v", field, fields)
		}
	}

	profile, err := svc.Accounts.Register(ctx, validation.Registration{
		Username: "ada", Email: "ada@example.com", Password: testutil.TestPassword, Confirmation: ptr(testutil.TestPassword),
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if profile.ProfileImage != models.DefaultProfileImage || profile.IsVerified {
		t.Errorf("registered profile = %+v", profile)
	}

	for _, identifier := range []string{"ada", "ada@example.com"} {
		pair, _, err := svc.Accounts.Login(ctx, identifier, testutil.TestPassword)
		if err != nil {
			t.Fatalf("Login(%q) error = %v", identifier, err)
		}
		refreshed, err := svc.Accounts.Refresh(ctx, pair.RefreshToken)
		if err != nil || refreshed.AccessToken == "" {
			t.Errorf("Refresh() = %+v, %v", refreshed, err)
		}
		if _, err := svc.Accounts.Refresh(ctx, pair.AccessToken); !errs.IsUnauthorized(err) {
			t.Errorf("Refresh() with an access token error = %v", err)
		}
	}

	if _, _, err := svc.Accounts.Login(ctx, "ada", "Wr0ng$pass"); !errs.IsUnauthorized(err) {
		t.Errorf("wrong password error = %v", err)
	}
	if _, _, err := svc.Accounts.Login(ctx, "nobody", testutil.TestPassword); !errs.IsUnauthorized(err) {
		t.Errorf("unknown user error = %v", err)
	}
}

func tokenFrom(t *testing.T, body, marker string) string {
	t.Helper()
	i := strings.Index(body, marker)
	if i < 0 {
		t.Fatalf("mail body has no %q link: %q", marker, body)
	}
	return strings.TrimSpace(body[i+len(marker):])
}

func TestPasswordReset(t *testing.T) {
	db, svc, mailer := setup(t)
	ctx := context.Background()
	ada := testutil.CreateTestProfile(t, db, "ada")

	if err := svc.Accounts.RequestPasswordReset(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("unknown address error = %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("mail sent for unknown address: %+v", mailer.sent)
	}

	if err := svc.Accounts.RequestPasswordReset(ctx, ada.Email); err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].to != ada.Email {
		t.Fatalf("sent = %+v", mailer.sent)
	}
	token := tokenFrom(t, mailer.sent[0].body, "/change-password/")

	mismatch := validation.PasswordChange{Password: "N3w$ecret!", Confirmation: "other"}
	if err := svc.Accounts.ResetPassword(ctx, token, mismatch); !errs.IsValidation(err) {
		t.Errorf("mismatched confirmation error = %v", err)
	}

	change := validation.PasswordChange{Password: "N3w$ecret!", Confirmation: "N3w$ecret!"}
	if err := svc.Accounts.ResetPassword(ctx, "garbage", change); !errs.IsUnauthorized(err) {
		t.Errorf("bad token error = %v", err)
	}
	if err := svc.Accounts.ResetPassword(ctx, token, change); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}
	if _, _, err := svc.Accounts.Login(ctx, "ada", "N3w$ecret!"); err != nil {
		t.Errorf("login with new password error = %v", err)
	}
}

func TestEmailVerification(t *testing.T) {
	db, svc, mailer := setup(t)
	ctx := context.Background()
	ada := testutil.CreateTestProfile(t, db, "ada")

	if err := svc.Accounts.SendVerification(ctx, ada.ID); err != nil {
		t.Fatalf("SendVerification() error = %v", err)
	}
	token := tokenFrom(t, mailer.sent[0].body, "/verify-email/")

	if err := svc.Accounts.VerifyEmail(ctx, token); err != nil {
		t.Fatalf("VerifyEmail() error = %v", err)
	}
	profile, _ := svc.Profiles.Get(ctx, ada.ID)
	if !profile.IsVerified {
		t.Error("profile not verified")
	}
	if err := svc.Accounts.SendVerification(ctx, ada.ID); !errs.IsBadRequest(err) {
		t.Errorf("second SendVerification() error = %v", err)
	}
}

func TestMessages(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()

	ada := testutil.CreateTestProfile(t, db, "ada")
	grace := testutil.CreateTestProfile(t, db, "grace")
	eve := testutil.CreateTestProfile(t, db, "eve")

	if _, err := svc.Messages.SendAnonymous(ctx, ada.ID, validation.MessageInput{Subject: "hi", Body: "hello"}); !errs.IsValidation(err) {
		t.Errorf("anonymous message without name error = %v", err)
	}
	anon, err := svc.Messages.SendAnonymous(ctx, ada.ID, validation.MessageInput{Name: "Bob", Email: "bob@example.com", Subject: "hi", Body: "hello"})
	if err != nil {
		t.Fatalf("SendAnonymous() error = %v", err)
	}
	msg, err := svc.Messages.Send(ctx, grace.ID, ada.ID, validation.MessageInput{Subject: "collab", Body: "want to pair?"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if msg.Name != "grace" || msg.Email != grace.Email {
		t.Errorf("sender details = %q %q", msg.Name, msg.Email)
	}

	inbox, unread, err := svc.Messages.Received(ctx, ada.ID)
	if err != nil || len(inbox) != 2 || unread != 2 {
		t.Fatalf("Received() = %d messages, %d unread, %v", len(inbox), unread, err)
	}

	if _, err := svc.Messages.Open(ctx, eve.ID, msg.ID); !errs.IsNotFound(err) {
		t.Errorf("stranger Open() error = %v, want NotFound", err)
	}
	if opened, _ := svc.Messages.Open(ctx, grace.ID, msg.ID); opened.IsRead {
		t.Error("sender opening a message marked it read")
	}
	if opened, _ := svc.Messages.Open(ctx, ada.ID, anon.ID); !opened.IsRead {
		t.Error("recipient opening a message did not mark it read")
	}
	inbox, unread, _ = svc.Messages.Received(ctx, ada.ID)
	if unread != 1 || inbox[0].IsRead {
		t.Errorf("inbox order = %+v, unread %d; want unread first", inbox, unread)
	}

	if err := svc.Messages.Delete(ctx, ada.ID, msg.ID); err != nil {
		t.Fatalf("recipient Delete() error = %v", err)
	}
	sent, _ := svc.Messages.Sent(ctx, grace.ID)
	if len(sent) != 1 {
		t.Errorf("sender lost the message when the recipient deleted it: %d", len(sent))
	}
	if err := svc.Messages.Delete(ctx, grace.ID, msg.ID); err != nil {
		t.Fatalf("sender Delete() error = %v", err)
	}
	if _, err := db.MessageRepo().FindByID(ctx, msg.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("message with no sides left still exists: %v", err)
	}
}

func TestProfileUpdateAndDelete(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()

	ada := testutil.CreateTestProfile(t, db, "ada")
	grace := testutil.CreateTestProfile(t, db, "grace")
	project := testutil.CreateTestProject(t, db, ada, "Analytical Engine")

	if _, err := svc.Profiles.Update(ctx, ada.ID, validation.ProfileUpdate{Bio: validation.Some("math"), Location: validation.Some("London")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	var clear validation.ProfileUpdate
	if err := json.Unmarshal([]byte(`{"bio": null}`), &clear); err != nil {
		t.Fatal(err)
	}
	updated, err := svc.Profiles.Update(ctx, ada.ID, clear)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	stored, _ := svc.Profiles.Get(ctx, ada.ID)
	if stored.Bio != nil || stored.Location == nil || *stored.Location != "London" || updated.Username != "ada" {
		t.Errorf("stored profile = %+v", stored)
	}

	skill, err := svc.Skills.Create(ctx, ada.ID, validation.SkillInput{Name: "Go"})
	if err != nil {
		t.Fatalf("Skills.Create() error = %v", err)
	}
	if _, err := svc.Skills.Update(ctx, grace.ID, skill.ID, validation.SkillUpdate{Name: validation.Some("Rust")}); !errs.IsForbidden(err) {
		t.Errorf("stranger skill update error = %v", err)
	}
	if _, err := svc.Reviews.Create(ctx, grace.ID, project.ID, validation.ReviewInput{Value: models.VoteUp}); err != nil {
		t.Fatalf("Reviews.Create() error = %v", err)
	}
	if _, err := svc.Messages.SendAnonymous(ctx, ada.ID, validation.MessageInput{Name: "Bob", Email: "bob@example.com", Subject: "s", Body: "b"}); err != nil {
		t.Fatal(err)
	}
	kept, err := svc.Messages.Send(ctx, grace.ID, ada.ID, validation.MessageInput{Subject: "s", Body: "b"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Profiles.Delete(ctx, ada.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := db.SkillRepo().FindByID(ctx, skill.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("skill survived its owner: %v", err)
	}
	orphan, err := db.ProjectRepo().FindByID(ctx, project.ID)
	if err != nil || orphan.OwnerID != nil {
		t.Errorf("project after owner delete = %+v, %v", orphan, err)
	}
	received, _, _ := svc.Messages.Received(ctx, ada.ID)
	if len(received) != 0 {
		t.Errorf("deleted profile still has %d messages", len(received))
	}
	sent, _ := svc.Messages.Sent(ctx, grace.ID)
	if len(sent) != 1 || sent[0].ID != kept.ID || sent[0].RecipientID != nil {
		t.Errorf("sender copy = %+v", sent)
	}
}
