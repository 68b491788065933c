package model

import "slices"

// ProfilesCollection is the document collection holding profiles keyed by user id.
const ProfilesCollection = "profiles"

// Profile is the per-user engagement record.
//
// League is derived from Points and is only ever written together with it.
// The question id slices have set semantics: no duplicates, order irrelevant.
type Profile struct {
	ID                string   `json:"-"`
	DisplayName       string   `json:"displayName"`
	Username          string   `json:"username"`
	Points            int64    `json:"points"`
	League            string   `json:"league"`
	PostedQuestions   []string `json:"postedQuestions"`
	LikedQuestions    []string `json:"likedQuestions"`
	SavedQuestions    []string `json:"savedQuestions"`
	AnsweredQuestions []string `json:"answeredQuestions,omitempty"`
}

// HasLiked reports whether questionID is in the liked set.
func (p Profile) HasLiked(questionID string) bool {
	return slices.Contains(p.LikedQuestions, questionID)
}

// HasSaved reports whether questionID is in the saved set.
func (p Profile) HasSaved(questionID string) bool {
	return slices.Contains(p.SavedQuestions, questionID)
}

// HasAnswered reports whether questionID is in the answered set.
func (p Profile) HasAnswered(questionID string) bool {
	return slices.Contains(p.AnsweredQuestions, questionID)
}

// Normalize replaces nil sets with empty ones so the profile always
// serializes with all fields present.
func (p *Profile) Normalize() {
	if p.PostedQuestions == nil {
		p.PostedQuestions = []string{}
	}
	if p.LikedQuestions == nil {
		p.LikedQuestions = []string{}
	}
	if p.SavedQuestions == nil {
		p.SavedQuestions = []string{}
	}
}

// AttemptResult is the outcome of answering a question.
type AttemptResult struct {
	Correct bool
	// Awarded is false for incorrect answers and for repeated correct
	// answers when awarding is limited to once per question.
	Awarded bool
	Points  int64
	League  string
}
