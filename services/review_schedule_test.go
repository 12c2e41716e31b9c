package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"peer-review-api/models"
)

func makeTeams(n int) []models.Team {
	teams := make([]models.Team, n)
	for i := range teams {
		teams[i] = models.Team{
			TeamID:    i + 1,
			IsLocked:  true,
			CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
		}
	}
	return teams
}

func TestGenerateAssignmentsNeverSelfReview(t *testing.T) {
	for n := 2; n <= 6; n++ {
		for sprints := 1; sprints <= 8; sprints++ {
			reviews, err := GenerateAssignments(makeTeams(n), sprints)
			if err != nil {
				t.Fatalf("n=%d sprints=%d: unexpected error: %v", n, sprints, err)
			}
			for _, r := range reviews {
				if r.ReviewingTeamID == r.ReviewedTeamID {
					t.Fatalf("n=%d sprint=%d: team %d assigned to review itself", n, r.Sprint, r.ReviewingTeamID)
				}
			}
		}
	}
}

func TestGenerateAssignmentsDeterministic(t *testing.T) {
	teams := makeTeams(5)

	first, err := GenerateAssignments(teams, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := GenerateAssignments(teams, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("record %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGenerateAssignmentsCardinality(t *testing.T) {
	const n, sprints = 4, 5

	reviews, err := GenerateAssignments(makeTeams(n), sprints)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(reviews) != n*sprints {
		t.Fatalf("expected %d records, got %d", n*sprints, len(reviews))
	}

	perSprint := make(map[int]map[int]int)
	for _, r := range reviews {
		if perSprint[r.Sprint] == nil {
			perSprint[r.Sprint] = make(map[int]int)
		}
		perSprint[r.Sprint][r.ReviewingTeamID]++
	}

	if len(perSprint) != sprints {
		t.Fatalf("expected %d sprints, got %d", sprints, len(perSprint))
	}
	for sprint, reviewers := range perSprint {
		if len(reviewers) != n {
			t.Fatalf("sprint %d: expected %d reviewing teams, got %d", sprint, n, len(reviewers))
		}
		for teamID, count := range reviewers {
			if count != 1 {
				t.Fatalf("sprint %d: team %d reviews %d times", sprint, teamID, count)
			}
		}
	}
}

func TestGenerateAssignmentsThreeTeamsTwoSprints(t *testing.T) {
	reviews, err := GenerateAssignments(makeTeams(3), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// sprint 1: shift (1 mod 2)+1 = 2; sprint 2: shift (2 mod 2)+1 = 1
	expected := []struct {
		sprint    int
		reviewing int
		reviewed  int
	}{
		{1, 1, 3},
		{1, 2, 1},
		{1, 3, 2},
		{2, 1, 2},
		{2, 2, 3},
		{2, 3, 1},
	}

	if len(reviews) != len(expected) {
		t.Fatalf("expected %d records, got %d", len(expected), len(reviews))
	}
	for i, want := range expected {
		got := reviews[i]
		if got.Sprint != want.sprint || got.ReviewingTeamID != want.reviewing || got.ReviewedTeamID != want.reviewed {
			t.Fatalf("record %d: got sprint=%d %d->%d, want sprint=%d %d->%d",
				i, got.Sprint, got.ReviewingTeamID, got.ReviewedTeamID,
				want.sprint, want.reviewing, want.reviewed)
		}
		if got.Status != models.ReviewStatusPending {
			t.Fatalf("record %d: expected pending status, got %s", i, got.Status)
		}
		if got.SubmittedAt != nil || got.SummaryLink != nil || got.CommentsLink != nil {
			t.Fatalf("record %d: generated review carries artifact state", i)
		}
	}
}

func TestGenerateAssignmentsTwoTeamsReviewEachOther(t *testing.T) {
	reviews, err := GenerateAssignments(makeTeams(2), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(reviews) != 6 {
		t.Fatalf("expected 6 records, got %d", len(reviews))
	}
	for i := 0; i < len(reviews); i += 2 {
		if reviews[i].ReviewingTeamID != 1 || reviews[i].ReviewedTeamID != 2 {
			t.Fatalf("record %d: expected 1->2, got %d->%d", i, reviews[i].ReviewingTeamID, reviews[i].ReviewedTeamID)
		}
		if reviews[i+1].ReviewingTeamID != 2 || reviews[i+1].ReviewedTeamID != 1 {
			t.Fatalf("record %d: expected 2->1, got %d->%d", i+1, reviews[i+1].ReviewingTeamID, reviews[i+1].ReviewedTeamID)
		}
	}
}

func TestGenerateAssignmentsFewerThanTwoTeams(t *testing.T) {
	for n := 0; n <= 1; n++ {
		reviews, err := GenerateAssignments(makeTeams(n), 3)
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if len(reviews) != 0 {
			t.Fatalf("n=%d: expected empty schedule, got %d records", n, len(reviews))
		}
	}
}

func TestGenerateAssignmentsRejectsNonPositiveSprints(t *testing.T) {
	for _, sprints := range []int{0, -1} {
		_, err := GenerateAssignments(makeTeams(3), sprints)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("sprints=%d: expected ErrInvalidInput, got %v", sprints, err)
		}
	}
}

func scriptedTeamRow(teamID int, locked bool, projectID int) []driver.Value {
	return []driver.Value{int64(teamID), bool(locked), int64(projectID)}
}

func TestMaybeRegenerateSkipsWhenAlreadyLocked(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	projectID := 7
	project := &models.Project{ProjectID: projectID, TotalSprints: 2}
	team := &models.Team{TeamID: 1, IsLocked: true, ProjectID: &projectID}

	generated, err := MaybeRegenerateOnLock(db, project, team, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if generated {
		t.Fatal("expected no regeneration for an already-locked team")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("store was touched: %v", err)
	}
}

func TestMaybeRegenerateSkipsWhenUnlocking(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	projectID := 7
	project := &models.Project{ProjectID: projectID, TotalSprints: 2}
	team := &models.Team{TeamID: 1, IsLocked: false, ProjectID: &projectID}

	generated, err := MaybeRegenerateOnLock(db, project, team, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if generated {
		t.Fatal("expected no regeneration when a team unlocks")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("store was touched: %v", err)
	}
}

func TestMaybeRegenerateSkipsWhenSiblingUnlocked(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM .teams. WHERE project_id = \\?"),
			args:    []driver.Value{int64(7)},
			columns: []string{"team_id", "is_locked", "project_id"},
			rows: [][]driver.Value{
				scriptedTeamRow(1, true, 7),
				scriptedTeamRow(2, false, 7),
			},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	projectID := 7
	project := &models.Project{ProjectID: projectID, TotalSprints: 2}
	team := &models.Team{TeamID: 1, IsLocked: true, ProjectID: &projectID}

	generated, err := MaybeRegenerateOnLock(db, project, team, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if generated {
		t.Fatal("expected no regeneration while a sibling team is unlocked")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected extra statements: %v", err)
	}
}

func TestMaybeRegenerateFiresWhenLastTeamLocks(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM .teams. WHERE project_id = \\?"),
			args:    []driver.Value{int64(7)},
			columns: []string{"team_id", "is_locked", "project_id"},
			rows: [][]driver.Value{
				scriptedTeamRow(1, true, 7),
				scriptedTeamRow(2, true, 7),
				scriptedTeamRow(3, true, 7),
			},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("DELETE FROM .peer_reviews. WHERE reviewing_team_id IN \\(.+\\) OR reviewed_team_id IN \\(.+\\)"),
			args: []driver.Value{
				int64(1), int64(2), int64(3),
				int64(1), int64(2), int64(3),
			},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO .peer_reviews."),
			result:  scriptedResult{rowsAffected: 6},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	projectID := 7
	project := &models.Project{ProjectID: projectID, TotalSprints: 2}
	team := &models.Team{TeamID: 3, IsLocked: true, ProjectID: &projectID}

	generated, err := MaybeRegenerateOnLock(db, project, team, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !generated {
		t.Fatal("expected regeneration when the last team locks")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegenerateForProjectNoOpBelowTwoTeams(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	project := &models.Project{ProjectID: 7, TotalSprints: 2}
	if err := RegenerateForProject(db, project, makeTeams(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("store was touched for a single-team project: %v", err)
	}
}
