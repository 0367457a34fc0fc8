package content

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aitutor/tutor-api/internal/grading"
	"github.com/aitutor/tutor-api/internal/rbac"
)

type Kind string

const (
	KindBook  Kind = "book"
	KindVideo Kind = "video"
	KindQuiz  Kind = "quiz"
)

func (k Kind) table() (string, bool) {
	switch k {
	case KindBook:
		return "books", true
	case KindVideo:
		return "videos", true
	case KindQuiz:
		return "quizzes", true
	}
	return "", false
}

const (
	StatusPending          = "pending"
	StatusApproved         = "approved"
	StatusRejected         = "rejected"
	StatusChangesRequested = "changes_requested"
	StatusAll              = "all"
)

// ActionStatus maps a verification action to the resulting status.
var ActionStatus = map[string]string{
	"approve":         StatusApproved,
	"reject":          StatusRejected,
	"request_changes": StatusChangesRequested,
}

// InitialStatus is approved for admins and pending for everyone else.
func InitialStatus(role string) string {
	if role == rbac.RoleAdmin {
		return StatusApproved
	}
	return StatusPending
}

type Book struct {
	ID           string  `db:"id" json:"id"`
	Title        string  `db:"title" json:"title"`
	Author       string  `db:"author" json:"author"`
	Stream       string  `db:"stream" json:"stream"`
	ClassLevel   int     `db:"class_level" json:"class_level"`
	Subject      string  `db:"subject" json:"subject"`
	Topic        string  `db:"topic" json:"topic"`
	Summary      *string `db:"summary" json:"summary"`
	ContentURL   *string `db:"content_url" json:"content_url"`
	Tags         *string `db:"tags" json:"tags"`
	UploadedBy   *string `db:"uploaded_by" json:"uploaded_by"`
	Status       string  `db:"status" json:"status"`
	VerifiedBy   *string `db:"verified_by" json:"verified_by"`
	VerifiedAt   *string `db:"verified_at" json:"verified_at"`
	CreatedAt    string  `db:"created_at" json:"created_at"`
	UploaderName *string `db:"uploader_name" json:"uploader_name,omitempty"`
}

type Video struct {
	ID           string  `db:"id" json:"id"`
	Title        string  `db:"title" json:"title"`
	TeacherName  string  `db:"teacher_name" json:"teacher_name"`
	Stream       string  `db:"stream" json:"stream"`
	ClassLevel   int     `db:"class_level" json:"class_level"`
	Subject      string  `db:"subject" json:"subject"`
	Topic        string  `db:"topic" json:"topic"`
	VideoURL     *string `db:"video_url" json:"video_url"`
	Duration     *int    `db:"duration" json:"duration"`
	Difficulty   string  `db:"difficulty" json:"difficulty"`
	Description  *string `db:"description" json:"description"`
	Tags         *string `db:"tags" json:"tags"`
	UploadedBy   *string `db:"uploaded_by" json:"uploaded_by"`
	Status       string  `db:"status" json:"status"`
	VerifiedBy   *string `db:"verified_by" json:"verified_by"`
	VerifiedAt   *string `db:"verified_at" json:"verified_at"`
	CreatedAt    string  `db:"created_at" json:"created_at"`
	UploaderName *string `db:"uploader_name" json:"uploader_name,omitempty"`
}

// Question is a single-choice item. CorrectAnswer indexes Options.
type Question struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"min=2,dive,required"`
	CorrectAnswer *int     `json:"correct_answer,omitempty" validate:"required,min=0"`
	Explanation   string   `json:"explanation,omitempty"`
}

type Quiz struct {
	ID           string     `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	Stream       string     `db:"stream" json:"stream"`
	ClassLevel   int        `db:"class_level" json:"class_level"`
	Subject      string     `db:"subject" json:"subject"`
	Topic        string     `db:"topic" json:"topic"`
	Difficulty   string     `db:"difficulty" json:"difficulty"`
	QuestionsRaw string     `db:"questions" json:"-"`
	Questions    []Question `db:"-" json:"questions"`
	CreatedBy    *string    `db:"created_by" json:"created_by"`
	Status       string     `db:"status" json:"status"`
	VerifiedBy   *string    `db:"verified_by" json:"verified_by"`
	VerifiedAt   *string    `db:"verified_at" json:"verified_at"`
	CreatedAt    string     `db:"created_at" json:"created_at"`
	CreatorName  *string    `db:"creator_name" json:"creator_name,omitempty"`
}

func (q *Quiz) decode() error {
	q.Questions = []Question{}
	if q.QuestionsRaw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(q.QuestionsRaw), &q.Questions); err != nil {
		return fmt.Errorf("quiz %s: bad questions json: %w", q.ID, err)
	}
	return nil
}

// ValidateQuestions checks what struct tags cannot: every answer index
// must point at an existing option.
func ValidateQuestions(qs []Question) error {
	if len(qs) == 0 {
		return errors.New("questions: at least one question is required")
	}
	for i, q := range qs {
		if q.CorrectAnswer == nil || *q.CorrectAnswer < 0 || *q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("questions[%d]: correct_answer must index options", i)
		}
	}
	return nil
}

// ForLearner hides answer keys and explanations.
func (q Quiz) ForLearner() Quiz {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	for i, qq := range q.Questions {
		out.Questions[i] = Question{Question: qq.Question, Options: qq.Options}
	}
	return out
}

// GradingView projects the questions onto what the grader needs.
func (q Quiz) GradingView() []grading.Q {
	out := make([]grading.Q, len(q.Questions))
	for i, qq := range q.Questions {
		correct := -1
		if qq.CorrectAnswer != nil {
			correct = *qq.CorrectAnswer
		}
		out[i] = grading.Q{Prompt: qq.Question, CorrectIndex: correct, Explanation: qq.Explanation}
	}
	return out
}

// Filter narrows list queries; every non-empty field is ANDed.
// Status "" means approved and "all" disables the status filter.
type Filter struct {
	Stream     string
	ClassLevel *int
	Subject    string
	Topic      string
	Difficulty string
	Search     string
	Status     string
}
