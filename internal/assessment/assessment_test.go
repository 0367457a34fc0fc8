package assessment

import (
	"context"
	"testing"

	"github.com/aitutor/tutor-api/internal/db/dbtest"
)

func TestUpsertKeepsOneRowWithLatestLevel(t *testing.T) {
	a := dbtest.Open(t)
	dbtest.InsertUser(t, a, "u1", "u1@example.com", "student")
	s := NewStore(a)
	ctx := context.Background()

	if err := s.Upsert(ctx, "u1", "Science", "Light", "beginner"); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(ctx, "u1", "Science", "Light", "expert"); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(ctx, "u1", "Science", "Acids", "intermediate"); err != nil {
		t.Fatal(err)
	}

	got, err := s.List(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2", len(got))
	}
	var light *SelfAssessment
	for i := range got {
		if got[i].Topic == "Light" {
			light = &got[i]
		}
	}
	if light == nil || light.Level != "expert" {
		t.Fatalf("light = %+v", light)
	}
	if light.UpdatedAt < light.CreatedAt {
		t.Fatalf("updated_at %s before created_at %s", light.UpdatedAt, light.CreatedAt)
	}
}

func TestValidLevel(t *testing.T) {
	for _, l := range Levels {
		if !ValidLevel(l) {
			t.Errorf("%s should be valid", l)
		}
	}
	if ValidLevel("advanced") {
		t.Error("advanced is not a self-assessment level")
	}
}
