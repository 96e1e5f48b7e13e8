package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SubmitAnswerRequest struct {
	QuestionID string `json:"question_id"`
	Body       string `json:"content"`
}

type VoteRequest struct {
	Vote string `json:"vote"`
}

type AnswerResponse struct {
	AnswerID   string `json:"answer_id"`
	QuestionID string `json:"question_id"`
	OwnerID    string `json:"owner_id"`
	Body       string `json:"content"`
	Upvotes    int    `json:"upvotes"`
	Downvotes  int    `json:"downvotes"`
	Score      int    `json:"score"`
	Accepted   bool   `json:"accepted"`
	CreatedAt  string `json:"created_at"`
}

type AnswerListResponse struct {
	Items []AnswerResponse `json:"items"`
}
