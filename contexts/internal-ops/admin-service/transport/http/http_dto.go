package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ReportResponse struct {
	Users         int    `json:"users"`
	Questions     int    `json:"questions"`
	Answers       int    `json:"answers"`
	Notifications int    `json:"notifications"`
	GeneratedAt   string `json:"generated_at"`
}

type BanUserResponse struct {
	Message string `json:"message"`
}

type AuditLogResponse struct {
	AuditID    string `json:"audit_id"`
	ActorID    string `json:"actor_id"`
	Action     string `json:"action"`
	TargetID   string `json:"target_id"`
	OccurredAt string `json:"occurred_at"`
}

type AuditLogListResponse struct {
	Items []AuditLogResponse `json:"items"`
}
