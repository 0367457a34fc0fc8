package stats

import (
	"testing"

	"github.com/aitutor/tutor-api/internal/assessment"
	"github.com/aitutor/tutor-api/internal/progress"
)

func TestBuildEmpty(t *testing.T) {
	d := Build(nil, nil, nil)
	if d.TotalTopicsStudied != 0 || d.AverageQuizScore != 0 {
		t.Fatalf("d = %+v", d)
	}
	if d.SubjectStats == nil || d.AssessmentStats == nil || d.RecentProgress == nil {
		t.Fatal("collections should be empty, not nil")
	}
}

func TestBuild(t *testing.T) {
	prog := []progress.TopicProgress{
		{Subject: "Science", Topic: "Light", MasteryLevel: 80, TimeSpent: 100},
		{Subject: "Science", Topic: "Acids", MasteryLevel: 40, TimeSpent: 50},
		{Subject: "Mathematics", Topic: "Algebra", MasteryLevel: 90, TimeSpent: 10},
		{Subject: "Mathematics", Topic: "Geometry"},
		{Subject: "History", Topic: "Wars"},
		{Subject: "History", Topic: "Empires"},
	}
	attempts := []progress.Attempt{{Score: 100}, {Score: 33.333333}, {Score: 0}}
	self := []assessment.SelfAssessment{
		{Subject: "Science", Topic: "Light", Level: "expert"},
		{Subject: "Science", Topic: "Acids", Level: "beginner"},
	}

	d := Build(prog, attempts, self)
	if d.TotalTopicsStudied != 6 || d.TotalTimeSpent != 160 || d.TotalQuizzesCompleted != 3 {
		t.Fatalf("totals = %+v", d)
	}
	if d.AverageQuizScore != 44.44 {
		t.Fatalf("average_quiz_score = %v", d.AverageQuizScore)
	}
	sci := d.SubjectStats["Science"]
	if sci.TopicsStudied != 2 || sci.TimeSpent != 150 || sci.AverageMastery != 60 {
		t.Fatalf("science = %+v", sci)
	}
	if len(d.AssessmentStats["Science"].Topics) != 2 {
		t.Fatalf("assessment stats = %+v", d.AssessmentStats)
	}
	if len(d.RecentProgress) != 5 || d.RecentProgress[0].Topic != "Light" {
		t.Fatalf("recent = %d", len(d.RecentProgress))
	}
}
