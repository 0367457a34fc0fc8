// Package stats aggregates a learner's dashboard numbers.
package stats

import (
	"math"

	"github.com/aitutor/tutor-api/internal/assessment"
	"github.com/aitutor/tutor-api/internal/progress"
)

type SubjectStats struct {
	TopicsStudied  int     `json:"topics_studied"`
	TimeSpent      int     `json:"time_spent"`
	AverageMastery float64 `json:"average_mastery"`
}

type TopicLevel struct {
	Topic string `json:"topic"`
	Level string `json:"level"`
}

type AssessmentStats struct {
	Topics []TopicLevel `json:"topics"`
}

type Dashboard struct {
	TotalTopicsStudied    int                        `json:"total_topics_studied"`
	TotalTimeSpent        int                        `json:"total_time_spent"`
	TotalQuizzesCompleted int                        `json:"total_quizzes_completed"`
	AverageQuizScore      float64                    `json:"average_quiz_score"`
	SubjectStats          map[string]SubjectStats    `json:"subject_stats"`
	AssessmentStats       map[string]AssessmentStats `json:"assessment_stats"`
	RecentProgress        []progress.TopicProgress   `json:"recent_progress"`
}

const recentN = 5

// Build folds the three per-user row sets into dashboard numbers. The
// average quiz score is rounded to two decimals.
func Build(prog []progress.TopicProgress, attempts []progress.Attempt, self []assessment.SelfAssessment) Dashboard {
	d := Dashboard{
		TotalTopicsStudied:    len(prog),
		TotalQuizzesCompleted: len(attempts),
		SubjectStats:          map[string]SubjectStats{},
		AssessmentStats:       map[string]AssessmentStats{},
		RecentProgress:        []progress.TopicProgress{},
	}

	mastery := map[string]float64{}
	for _, p := range prog {
		d.TotalTimeSpent += p.TimeSpent
		s := d.SubjectStats[p.Subject]
		s.TopicsStudied++
		s.TimeSpent += p.TimeSpent
		d.SubjectStats[p.Subject] = s
		mastery[p.Subject] += p.MasteryLevel
	}
	for subj, s := range d.SubjectStats {
		s.AverageMastery = mastery[subj] / float64(s.TopicsStudied)
		d.SubjectStats[subj] = s
	}

	if len(attempts) > 0 {
		sum := 0.0
		for _, a := range attempts {
			sum += a.Score
		}
		d.AverageQuizScore = math.Round(sum/float64(len(attempts))*100) / 100
	}

	for _, a := range self {
		s := d.AssessmentStats[a.Subject]
		s.Topics = append(s.Topics, TopicLevel{Topic: a.Topic, Level: a.Level})
		d.AssessmentStats[a.Subject] = s
	}

	n := len(prog)
	if n > recentN {
		n = recentN
	}
	d.RecentProgress = append(d.RecentProgress, prog[:n]...)
	return d
}
