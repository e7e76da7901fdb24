package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ggoodman/mcp-server-go/mcp"
	"github.com/ggoodman/mcp-server-go/mcpservice"
	"github.com/ggoodman/mcp-server-go/sessions"

	"samplerctl/controls"
)

// Option configures the server surface.
type Option func(*config)

type config struct {
	version      string
	instructions string
	levelVar     *slog.LevelVar
}

// WithVersion sets the advertised server version.
func WithVersion(v string) Option {
	return func(c *config) { c.version = v }
}

// WithInstructions overrides the initialize instructions.
func WithInstructions(s string) Option {
	return func(c *config) { c.instructions = s }
}

// WithLogLevelVar wires the process slog level into the MCP logging
// capability so clients can adjust verbosity.
func WithLogLevelVar(lv *slog.LevelVar) Option {
	return func(c *config) { c.levelVar = lv }
}

// New assembles the MCP server capabilities over the given control service.
func New(svc *controls.Service, opts ...Option) mcpservice.ServerCapabilities {
	cfg := config{
		version: "0.0.0-dev",
		instructions: "Read and adjust the chat application's sampler controls. " +
			"Use sampler-list to discover parameters, sampler-get to read one and " +
			"sampler-set to change one. Names match case-insensitively against the " +
			"panel's labels and derived ids.",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	tools := mcpservice.NewToolsContainer(
		getTool(svc),
		setTool(svc),
		listTool(svc),
	)

	serverOpts := []mcpservice.ServerOption{
		mcpservice.WithServerInfo(mcpservice.StaticServerInfo("samplerctl", cfg.version)),
		mcpservice.WithInstructions(mcpservice.StaticInstructions(cfg.instructions)),
		mcpservice.WithToolsCapability(tools),
		mcpservice.WithCompletionsCapability(mcpservice.StaticCompletions(&completer{svc: svc})),
	}
	if cfg.levelVar != nil {
		serverOpts = append(serverOpts, mcpservice.WithLoggingCapability(mcpservice.StaticLogging(mcpservice.NewSlogLevelVarLogging(cfg.levelVar))))
	}
	return mcpservice.NewServer(serverOpts...)
}

// rawArgs defers argument decoding to the handlers so that missing and
// mistyped arguments map onto the command surface's own error taxonomy
// instead of a generic decode failure.
type rawArgs map[string]json.RawMessage

func getTool(svc *controls.Service) mcpservice.StaticTool {
	desc := mcp.Tool{
		Name:        "sampler-get",
		Description: "Read the current value of a sampler parameter by name or id (case-insensitive).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]mcp.SchemaProperty{
				"name": {Type: "string", Description: "Parameter name or id"},
			},
			Required: []string{"name"},
		},
	}
	return mcpservice.TypedTool(desc, func(ctx context.Context, _ sessions.Session, a rawArgs) (*mcp.CallToolResult, error) {
		name, err := stringArg(a, "name")
		if err != nil {
			return toolError(err)
		}
		out, err := svc.Get(ctx, name)
		if err != nil {
			return toolError(err)
		}
		return mcpservice.TextResult(out), nil
	})
}

func setTool(svc *controls.Service) mcpservice.StaticTool {
	desc := mcp.Tool{
		Name: "sampler-set",
		Description: "Set a sampler parameter. Numeric values are clamped into the control's range; " +
			"boolean parameters accept truthy tokens such as true/1/yes/on.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]mcp.SchemaProperty{
				"name":  {Type: "string", Description: "Parameter name or id"},
				"value": {Type: "string", Description: "New value; numbers and booleans are also accepted"},
			},
			Required: []string{"name", "value"},
		},
	}
	return mcpservice.TypedTool(desc, func(ctx context.Context, _ sessions.Session, a rawArgs) (*mcp.CallToolResult, error) {
		name, err := stringArg(a, "name")
		if err != nil {
			return toolError(err)
		}
		value, err := tokenArg(a, "value")
		if err != nil {
			return toolError(err)
		}
		if err := svc.Set(ctx, name, value); err != nil {
			return toolError(err)
		}
		// The host command contract expects an empty success payload.
		return &mcp.CallToolResult{}, nil
	})
}

func listTool(svc *controls.Service) mcpservice.StaticTool {
	desc := mcp.Tool{
		Name:        "sampler-list",
		Description: "List the sampler parameters currently visible in the settings panel.",
		InputSchema: mcp.ToolInputSchema{Type: "object", Properties: map[string]mcp.SchemaProperty{}},
	}
	return mcpservice.TypedTool(desc, func(ctx context.Context, _ sessions.Session, _ rawArgs) (*mcp.CallToolResult, error) {
		params, err := svc.List(ctx)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		for _, p := range params {
			fmt.Fprintf(&b, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Kind, controls.FormatValue(p))
		}
		return mcpservice.TextResult(b.String()), nil
	})
}

// toolError translates the command error taxonomy into an isError tool
// result; anything else is a server-side failure and propagates as a
// protocol error.
func toolError(err error) (*mcp.CallToolResult, error) {
	var (
		missing  *controls.MissingArgumentError
		wrongTyp *controls.WrongTypeError
		notFound *controls.NotFoundError
		notFin   *controls.NotFiniteError
	)
	switch {
	case errors.As(err, &missing),
		errors.As(err, &wrongTyp),
		errors.As(err, &notFound),
		errors.As(err, &notFin):
		return mcpservice.Errorf("%s", err.Error()), nil
	default:
		return nil, err
	}
}

func stringArg(a rawArgs, key string) (string, error) {
	raw, ok := a[key]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return "", &controls.MissingArgumentError{Argument: key}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &controls.WrongTypeError{Argument: key, Want: "string"}
	}
	return s, nil
}

// tokenArg accepts a string, and also bare number or boolean JSON values,
// normalizing them to their token form.
func tokenArg(a rawArgs, key string) (string, error) {
	raw, ok := a[key]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return "", &controls.MissingArgumentError{Argument: key}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", &controls.WrongTypeError{Argument: key, Want: "string, number or boolean"}
}
