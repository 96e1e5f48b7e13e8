package httpadapter

import (
	"context"
	"time"

	"stackit/contexts/internal-ops/admin-service/application"
	httptransport "stackit/contexts/internal-ops/admin-service/transport/http"
)

type Handler struct {
	Service application.Service
}

func (h Handler) ReportsHandler(ctx context.Context) (httptransport.ReportResponse, error) {
	report, err := h.Service.Reports(ctx)
	if err != nil {
		return httptransport.ReportResponse{}, err
	}
	return httptransport.ReportResponse{
		Users:         report.Users,
		Questions:     report.Questions,
		Answers:       report.Answers,
		Notifications: report.Notifications,
		GeneratedAt:   report.GeneratedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) BanUserHandler(ctx context.Context, actorID string, userID string) (httptransport.BanUserResponse, error) {
	if err := h.Service.BanUser(ctx, actorID, userID); err != nil {
		return httptransport.BanUserResponse{}, err
	}
	return httptransport.BanUserResponse{Message: "User banned"}, nil
}

func (h Handler) ListAuditLogsHandler(ctx context.Context, limit int) (httptransport.AuditLogListResponse, error) {
	logs, err := h.Service.ListRecentActions(ctx, limit)
	if err != nil {
		return httptransport.AuditLogListResponse{}, err
	}
	items := make([]httptransport.AuditLogResponse, 0, len(logs))
	for _, row := range logs {
		items = append(items, httptransport.AuditLogResponse{
			AuditID:    row.AuditID,
			ActorID:    row.ActorID,
			Action:     row.Action,
			TargetID:   row.TargetID,
			OccurredAt: row.OccurredAt.UTC().Format(time.RFC3339),
		})
	}
	return httptransport.AuditLogListResponse{Items: items}, nil
}
