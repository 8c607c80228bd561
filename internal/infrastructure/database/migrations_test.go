package database

import (
	"strings"
	"testing"
)

func TestEmbeddedMigrations(t *testing.T) {
	found, err := Migrations().FindMigrations()
	if err != nil {
		t.Fatalf("find migrations: %v", err)
	}
	if len(found) == 0 {
		t.Fatal("expected at least one embedded migration")
	}

	first := found[0]
	if len(first.Up) == 0 || len(first.Down) == 0 {
		t.Fatalf("migration %s must define up and down sections", first.Id)
	}
	up := strings.Join(first.Up, "\n")
	for _, table := range []string{"issues", "meeting_items", "zendesk_tickets", "email_drafts"} {
		if !strings.Contains(up, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Fatalf("expected %s table in %s", table, first.Id)
		}
	}
}
