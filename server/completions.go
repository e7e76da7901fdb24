package server

import (
	"context"

	"github.com/ggoodman/mcp-server-go/mcp"
	"github.com/ggoodman/mcp-server-go/mcpservice"
	"github.com/ggoodman/mcp-server-go/sessions"

	"samplerctl/controls"
)

// maxSuggestions caps one completion response; the protocol expects at most
// this many values per page.
const maxSuggestions = 100

// completer serves live parameter-name suggestions for the tools' "name"
// argument. Every request re-enumerates the panel, so suggestions always
// reflect the controls that are visible right now.
type completer struct {
	svc *controls.Service
}

var _ mcpservice.CompletionsCapability = (*completer)(nil)

func (c *completer) Complete(ctx context.Context, _ sessions.Session, req *mcp.CompleteRequest) (*mcp.CompleteResult, error) {
	if req == nil || req.Argument.Name != "name" {
		return &mcp.CompleteResult{Completion: mcp.Completion{Values: []string{}}}, nil
	}
	names, err := c.svc.Suggest(ctx, req.Argument.Value)
	if err != nil {
		return nil, err
	}
	total := len(names)
	hasMore := false
	if total > maxSuggestions {
		names = names[:maxSuggestions]
		hasMore = true
	}
	return &mcp.CompleteResult{Completion: mcp.Completion{
		Values:  names,
		Total:   total,
		HasMore: hasMore,
	}}, nil
}
