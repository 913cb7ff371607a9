package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpupo63/devsearch-backend/database"
	"github.com/rpupo63/devsearch-backend/models"
	"github.com/rpupo63/devsearch-backend/testutil"
	"gorm.io/gorm"
)

func TestVoteTriggers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	owner := testutil.CreateTestProfile(t, db, "owner")
	voter := testutil.CreateTestProfile(t, db, "voter")
	project := testutil.CreateTestProject(t, db, owner, "Engine")

	review := &models.Review{Value: models.VoteUp, ProjectID: project.ID, OwnerID: &voter.ID}
	if err := db.ReviewRepo().Add(ctx, review); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if total, err := db.ProjectRepo().VoteTotal(ctx, project.ID); err != nil || total != 1 {
		t.Errorf("VoteTotal() after insert = %d, %v", total, err)
	}

	duplicate := &models.Review{Value: models.VoteDown, ProjectID: project.ID, OwnerID: &voter.ID}
	if err := db.ReviewRepo().Add(ctx, duplicate); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("duplicate Add() error = %v, want ErrDuplicatedKey", err)
	}

	if err := db.ReviewRepo().Delete(ctx, review.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if total, _ := db.ProjectRepo().VoteTotal(ctx, project.ID); total != 0 {
		t.Errorf("VoteTotal() after delete = %d", total)
	}
}

func TestAttachIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	owner := testutil.CreateTestProfile(t, db, "owner")
	project := testutil.CreateTestProject(t, db, owner, "Engine", "go")
	tag, err := db.TagRepo().FindByName(ctx, "go")
	if err != nil {
		t.Fatal(err)
	}

	if err := db.TagRepo().Attach(ctx, project.ID, tag.ID); err != nil {
		t.Fatalf("second Attach() error = %v", err)
	}
	ids, _ := db.TagRepo().TagIDsForProject(ctx, project.ID)
	if len(ids) != 1 {
		t.Errorf("project has %d tag rows, want 1", len(ids))
	}

	removed, err := db.TagRepo().Detach(ctx, project.ID, tag.ID)
	if err != nil || !removed {
		t.Errorf("Detach() = %v, %v", removed, err)
	}
	if removed, _ := db.TagRepo().Detach(ctx, project.ID, tag.ID); removed {
		t.Error("second Detach() reported a removal")
	}
}

func TestProfileSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	ada := testutil.CreateTestProfile(t, db, "ada")
	testutil.CreateTestProfile(t, db, "adam")
	testutil.CreateTestProfile(t, db, "grace")
	for _, name := range []string{"Go", "Rust"} {
		if err := db.SkillRepo().Add(ctx, &models.Skill{Name: name, OwnerID: ada.ID}); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name   string
		filter database.ProfileFilter
		want   int64
	}{
		{"everyone", database.ProfileFilter{}, 3},
		{"substring", database.ProfileFilter{Query: "AD"}, 2},
		{"skill", database.ProfileFilter{Skill: "Go"}, 1},
		{"both", database.ProfileFilter{Query: "gr", Skill: "Go"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles, total, err := db.ProfileRepo().Search(ctx, tt.filter, 0, 10)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if total != tt.want || int64(len(profiles)) != tt.want {
				t.Errorf("Search() = %d rows, total %d; want %d", len(profiles), total, tt.want)
			}
		})
	}

	profiles, total, _ := db.ProfileRepo().Search(ctx, database.ProfileFilter{}, 2, 2)
	if total != 3 || len(profiles) != 1 {
		t.Errorf("second page = %d rows, total %d", len(profiles), total)
	}
}

func TestColumnReportMatchesSchema(t *testing.T) {
	db := testutil.SetupTestDB(t)
	if n := models.GenerateColumnMismatchReport(db.DB()); n != 0 {
		t.Errorf("GenerateColumnMismatchReport() = %d mismatches on a fresh schema", n)
	}
}
