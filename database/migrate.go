package database

import (
	"fmt"

	"github.com/rpupo63/devsearch-backend/models"
	"gorm.io/gorm"
)

// Migrate creates or updates every table and installs the review vote triggers.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Project{}, "Tags", &models.ProjectTag{}); err != nil {
		return fmt.Errorf("setup project_tags join table: %w", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := installVoteTriggers(db); err != nil {
		return fmt.Errorf("install vote triggers: %w", err)
	}
	return nil
}

// projects.vote_total is owned by these triggers; application code never writes it.
var sqliteVoteTriggers = []string{
	`CREATE TRIGGER IF NOT EXISTS reviews_vote_total_insert
	AFTER INSERT ON reviews FOR EACH ROW
	BEGIN
		UPDATE projects SET vote_total = vote_total + 1 WHERE id = NEW.project_id;
	END`,
	`CREATE TRIGGER IF NOT EXISTS reviews_vote_total_delete
	AFTER DELETE ON reviews FOR EACH ROW
	BEGIN
		UPDATE projects SET vote_total = vote_total - 1 WHERE id = OLD.project_id;
	END`,
}

var postgresVoteTriggers = []string{
	`CREATE OR REPLACE FUNCTION reviews_vote_total() RETURNS trigger AS $$
	BEGIN
		IF TG_OP = 'INSERT' THEN
			UPDATE projects SET vote_total = vote_total + 1 WHERE id = NEW.project_id;
			RETURN NEW;
		END IF;
		UPDATE projects SET vote_total = vote_total - 1 WHERE id = OLD.project_id;
		RETURN OLD;
	END;
	$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS reviews_vote_total_insert ON reviews`,
	`CREATE TRIGGER reviews_vote_total_insert AFTER INSERT ON reviews
	FOR EACH ROW EXECUTE FUNCTION reviews_vote_total()`,
	`DROP TRIGGER IF EXISTS reviews_vote_total_delete ON reviews`,
	`CREATE TRIGGER reviews_vote_total_delete AFTER DELETE ON reviews
	FOR EACH ROW EXECUTE FUNCTION reviews_vote_total()`,
}

func installVoteTriggers(db *gorm.DB) error {
	var statements []string
	switch name := db.Dialector.Name(); name {
	case "sqlite":
		statements = sqliteVoteTriggers
	case "postgres":
		statements = postgresVoteTriggers
	default:
		return fmt.Errorf("no vote triggers for dialect %q", name)
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
