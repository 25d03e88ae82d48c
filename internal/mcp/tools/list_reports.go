package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/reviewlens/reviewlens/internal/store"
)

type HistoryService interface {
	History(ctx context.Context, repository string, limit int) ([]store.ReportRecord, error)
}

type ListReportsHandler struct{ Service HistoryService }

type reportSummary struct {
	ID          int64  `json:"id"`
	Repository  string `json:"repository"`
	PRNumber    int    `json:"pr_number"`
	PRTitle     string `json:"pr_title"`
	Reviewers   int    `json:"reviewers"`
	FailedPairs int    `json:"failed_pairs"`
	GeneratedAt string `json:"generated_at"`
}

func (h *ListReportsHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	repository, _ := args["repository"].(string)
	limit := 0
	if raw, ok := args["limit"]; ok {
		n, err := parseIntArgument(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit = n
	}

	records, err := h.Service.History(ctx, repository, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summaries := make([]reportSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, reportSummary{
			ID:          rec.ID,
			Repository:  rec.Repository,
			PRNumber:    rec.PRNumber,
			PRTitle:     rec.PRTitle,
			Reviewers:   rec.Reviewers,
			FailedPairs: rec.FailedPairs,
			GeneratedAt: rec.GeneratedAt.UTC().Format(time.RFC3339),
		})
	}

	payload, err := json.Marshal(summaries)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal report list: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
