package model

import (
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// QuestionsCollection is the document collection holding questions keyed by generated id.
const QuestionsCollection = "questions"

// createdAtLayout has a fixed width so that lexical order of the stored
// value equals chronological order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

// Question is a posted quiz question.
type Question struct {
	ID        string
	Content   string
	Options   []string
	Correct   string
	Likes     int64
	Saves     int64
	CreatedAt time.Time
	CreatedBy string
}

type questionDocument struct {
	Content   string   `json:"content"`
	Options   []string `json:"options"`
	Correct   string   `json:"correct"`
	Likes     int64    `json:"likes"`
	Saves     int64    `json:"saves"`
	CreatedAt string   `json:"createdAt"`
	CreatedBy string   `json:"createdBy"`
}

// MarshalJSON encodes the stored document shape. The id is the document key
// and is not part of the body.
func (q Question) MarshalJSON() ([]byte, error) {
	return json.Marshal(questionDocument{
		Content:   q.Content,
		Options:   q.Options,
		Correct:   q.Correct,
		Likes:     q.Likes,
		Saves:     q.Saves,
		CreatedAt: q.CreatedAt.UTC().Format(createdAtLayout),
		CreatedBy: q.CreatedBy,
	})
}

// UnmarshalJSON decodes the stored document shape.
func (q *Question) UnmarshalJSON(data []byte) error {
	var doc questionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	var createdAt time.Time
	if doc.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339Nano, doc.CreatedAt)
		if err != nil {
			return fmt.Errorf("invalid createdAt: %w", err)
		}
		createdAt = t
	}

	*q = Question{
		ID:        q.ID,
		Content:   doc.Content,
		Options:   doc.Options,
		Correct:   doc.Correct,
		Likes:     doc.Likes,
		Saves:     doc.Saves,
		CreatedAt: createdAt,
		CreatedBy: doc.CreatedBy,
	}
	return nil
}

// QuestionDraft carries the author-supplied fields of a new question.
type QuestionDraft struct {
	Content string
	Options []string
	Correct string
}

// Validate performs the minimal shape checks needed to score answers.
func (d QuestionDraft) Validate() error {
	if strings.TrimSpace(d.Content) == "" {
		return fmt.Errorf("%w: question content is required", ErrInvalidInput)
	}
	if len(d.Options) == 0 {
		return fmt.Errorf("%w: question options are required", ErrInvalidInput)
	}
	if strings.TrimSpace(d.Correct) == "" {
		return fmt.Errorf("%w: correct option is required", ErrInvalidInput)
	}
	return nil
}
