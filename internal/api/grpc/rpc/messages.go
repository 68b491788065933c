package rpc

import "time"

// Empty is returned by calls that carry no result.
type Empty struct{}

type Profile struct {
	UserID          string   `json:"userId"`
	Username        string   `json:"username"`
	DisplayName     string   `json:"displayName"`
	Points          int64    `json:"points"`
	League          string   `json:"league"`
	PostedQuestions []string `json:"postedQuestions"`
	LikedQuestions  []string `json:"likedQuestions"`
	SavedQuestions  []string `json:"savedQuestions"`
}

type ProfileResponse struct {
	Profile Profile `json:"profile"`
}

type CreateProfileRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
}

type GetProfileRequest struct {
	Username string `json:"username"`
}

type UpdateDisplayNameRequest struct {
	DisplayName string `json:"displayName"`
}

type AttemptQuestionRequest struct {
	QuestionID string `json:"questionId"`
	Option     string `json:"option"`
}

type AttemptQuestionResponse struct {
	Correct bool   `json:"correct"`
	Awarded bool   `json:"awarded"`
	Points  int64  `json:"points"`
	League  string `json:"league"`
}

type LeaderboardRequest struct {
	Limit int64 `json:"limit,omitempty"`
}

type Standing struct {
	Rank     int64  `json:"rank"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Points   int64  `json:"points"`
}

type LeaderboardResponse struct {
	Standings []Standing `json:"standings"`
}

// Question is the wire form of a question. Correct is only filled in for
// the question's author.
type Question struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Options   []string  `json:"options"`
	Correct   string    `json:"correct,omitempty"`
	Likes     int64     `json:"likes"`
	Saves     int64     `json:"saves"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}

type QuestionResponse struct {
	Question Question `json:"question"`
}

type ListQuestionsRequest struct {
	Page int `json:"page,omitempty"`
}

type ListQuestionsResponse struct {
	Questions []Question `json:"questions"`
}

type PostQuestionRequest struct {
	Content string   `json:"content"`
	Options []string `json:"options"`
	Correct string   `json:"correct"`
}

// QuestionRequest addresses a single question.
type QuestionRequest struct {
	QuestionID string `json:"questionId"`
}
