package server

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ggoodman/mcp-server-go/mcp"

	"samplerctl/controls"
	"samplerctl/controls/sourcetest"
	"samplerctl/memsource"
)

func newTestService(t *testing.T) *controls.Service {
	t.Helper()
	return controls.NewService(memsource.New(sourcetest.Tree()))
}

func invoke(t *testing.T, handler func() (*mcp.CallToolResult, error)) *mcp.CallToolResult {
	t.Helper()
	res, err := handler()
	if err != nil {
		t.Fatalf("tool call: %v", err)
	}
	if res == nil {
		t.Fatal("tool call returned nil result")
	}
	return res
}

func text(res *mcp.CallToolResult) string {
	var b strings.Builder
	for _, c := range res.Content {
		if c.Type == "text" {
			b.WriteString(c.Text)
		}
	}
	return b.String()
}

func TestGetToolReadsValues(t *testing.T) {
	svc := newTestService(t)
	tool := getTool(svc)

	res := invoke(t, func() (*mcp.CallToolResult, error) {
		return tool.Handler(context.Background(), nil, &mcp.CallToolRequestReceived{
			Name:      "sampler-get",
			Arguments: json.RawMessage(`{"name": "Temperature"}`),
		})
	})
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", text(res))
	}
	if got := text(res); got != "0.7" {
		t.Errorf("sampler-get = %q, want \"0.7\"", got)
	}
}

func TestGetToolMissingName(t *testing.T) {
	svc := newTestService(t)
	tool := getTool(svc)

	for _, args := range []string{`{}`, `{"name": null}`} {
		res := invoke(t, func() (*mcp.CallToolResult, error) {
			return tool.Handler(context.Background(), nil, &mcp.CallToolRequestReceived{
				Name:      "sampler-get",
				Arguments: json.RawMessage(args),
			})
		})
		if !res.IsError {
			t.Errorf("args %s: want isError result, got %q", args, text(res))
			continue
		}
		if !strings.Contains(text(res), "name") {
			t.Errorf("args %s: error should mention the argument: %q", args, text(res))
		}
	}
}

func TestGetToolWrongType(t *testing.T) {
	svc := newTestService(t)
	tool := getTool(svc)

	res := invoke(t, func() (*mcp.CallToolResult, error) {
		return tool.Handler(context.Background(), nil, &mcp.CallToolRequestReceived{
			Name:      "sampler-get",
			Arguments: json.RawMessage(`{"name": 42}`),
		})
	})
	if !res.IsError {
		t.Fatalf("want isError result, got %q", text(res))
	}
}

func TestGetToolUnknownParameter(t *testing.T) {
	svc := newTestService(t)
	tool := getTool(svc)

	res := invoke(t, func() (*mcp.CallToolResult, error) {
		return tool.Handler(context.Background(), nil, &mcp.CallToolRequestReceived{
			Name:      "sampler-get",
			Arguments: json.RawMessage(`{"name": "no-such"}`),
		})
	})
	if !res.IsError {
		t.Fatalf("want isError result, got %q", text(res))
	}
	if !strings.Contains(text(res), "no-such") {
		t.Errorf("error should carry the queried name: %q", text(res))
	}
}

func TestSetToolWritesAndReturnsEmptyResult(t *testing.T) {
	svc := newTestService(t)
	set := setTool(svc)
	get := getTool(svc)

	res := invoke(t, func() (*mcp.CallToolResult, error) {
		return set.Handler(context.Background(), nil, &mcp.CallToolRequestReceived{
			Name:      "sampler-set",
			Arguments: json.RawMessage(`{"name": "Temperature", "value": "1.5"}`),
		})
	})
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", text(res))
	}
	if len(res.Content) != 0 {
		t.Errorf("sampler-set success should carry no content, got %+v", res.Content)
	}

	after := invoke(t, func() (*mcp.CallToolResult, error) {
		return get.Handler(context.Background(), nil, &mcp.CallToolRequestReceived{
			Name:      "sampler-get",
			Arguments: json.RawMessage(`{"name": "Temperature"}`),
		})
	})
	if got := text(after); got != "1.5" {
		t.Errorf("value after set = %q, want \"1.5\"", got)
	}
}

func TestSetToolAcceptsBareJSONValues(t *testing.T) {
	svc := newTestService(t)
	set := setTool(svc)
	get := getTool(svc)

	cases := []struct {
		args string
		read string
		want string
	}{
		{`{"name": "Temperature", "value": 1.25}`, "Temperature", "1.25"},
		{`{"name": "Stream", "value": false}`, "Stream", "false"},
		{`{"name": "Stream", "value": "on"}`, "Stream", "true"},
	}
	for _, tc := range cases {
		res := invoke(t, func() (*mcp.CallToolResult, error) {
			return set.Handler(context.Background(), nil, &mcp.CallToolRequestReceived{
				Name:      "sampler-set",
				Arguments: json.RawMessage(tc.args),
			})
		})
		if res.IsError {
			t.Errorf("args %s: unexpected tool error: %s", tc.args, text(res))
			continue
		}
		after := invoke(t, func() (*mcp.CallToolResult, error) {
			return get.Handler(context.Background(), nil, &mcp.CallToolRequestReceived{
				Name:      "sampler-get",
				Arguments: json.RawMessage(`{"name": "` + tc.read + `"}`),
			})
		})
		if got := text(after); got != tc.want {
			t.Errorf("args %s: value = %q, want %q", tc.args, got, tc.want)
		}
	}
}

func TestSetToolRejectsNonFinite(t *testing.T) {
	svc := newTestService(t)
	set := setTool(svc)

	res := invoke(t, func() (*mcp.CallToolResult, error) {
		return set.Handler(context.Background(), nil, &mcp.CallToolRequestReceived{
			Name:      "sampler-set",
			Arguments: json.RawMessage(`{"name": "Temperature", "value": "abc"}`),
		})
	})
	if !res.IsError {
		t.Fatalf("want isError result, got %q", text(res))
	}
}

func TestSetToolWrongValueType(t *testing.T) {
	svc := newTestService(t)
	set := setTool(svc)

	res := invoke(t, func() (*mcp.CallToolResult, error) {
		return set.Handler(context.Background(), nil, &mcp.CallToolRequestReceived{
			Name:      "sampler-set",
			Arguments: json.RawMessage(`{"name": "Temperature", "value": {"x": 1}}`),
		})
	})
	if !res.IsError {
		t.Fatalf("want isError result, got %q", text(res))
	}
}

func TestListToolEnumerates(t *testing.T) {
	svc := newTestService(t)
	list := listTool(svc)

	res := invoke(t, func() (*mcp.CallToolResult, error) {
		return list.Handler(context.Background(), nil, &mcp.CallToolRequestReceived{
			Name: "sampler-list",
		})
	})
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", text(res))
	}
	out := text(res)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("sampler-list returned %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "temp\tTemperature\tnumeric\t") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "stream\tStream\tboolean\t") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestCompleterSuggestsNames(t *testing.T) {
	svc := newTestService(t)
	c := &completer{svc: svc}

	res, err := c.Complete(context.Background(), nil, &mcp.CompleteRequest{
		Argument: mcp.CompleteArgument{Name: "name", Value: ""},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	want := []string{"Stream", "Temperature"}
	if len(res.Completion.Values) != len(want) {
		t.Fatalf("values = %v, want %v", res.Completion.Values, want)
	}
	for i := range want {
		if res.Completion.Values[i] != want[i] {
			t.Fatalf("values = %v, want %v", res.Completion.Values, want)
		}
	}

	res, err = c.Complete(context.Background(), nil, &mcp.CompleteRequest{
		Argument: mcp.CompleteArgument{Name: "name", Value: "te"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(res.Completion.Values) != 1 || res.Completion.Values[0] != "Temperature" {
		t.Fatalf("values = %v, want [Temperature]", res.Completion.Values)
	}
}

func TestCompleterIgnoresOtherArguments(t *testing.T) {
	svc := newTestService(t)
	c := &completer{svc: svc}

	res, err := c.Complete(context.Background(), nil, &mcp.CompleteRequest{
		Argument: mcp.CompleteArgument{Name: "value", Value: "t"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(res.Completion.Values) != 0 {
		t.Fatalf("values = %v, want none for a non-name argument", res.Completion.Values)
	}
}
