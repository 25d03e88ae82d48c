package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/reviewlens/reviewlens/internal/pipeline"
)

type AnalyzeService interface {
	Run(ctx context.Context, prURL string, writeToDisk bool) (pipeline.Result, error)
}

type AnalyzePRHandler struct{ Service AnalyzeService }

func (h *AnalyzePRHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	prURL, _ := args["pr_url"].(string)
	if prURL == "" {
		return mcp.NewToolResultError("pr_url is required"), nil
	}
	writeFile, _ := args["write_file"].(bool)

	result, err := h.Service.Run(ctx, prURL, writeFile)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(result.Markdown), nil
}
