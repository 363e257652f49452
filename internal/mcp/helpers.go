package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ResponseEnvelope is the JSON document returned by every tool.
type ResponseEnvelope struct {
	Data     any      `json:"data"`
	Guidance []string `json:"guidance,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// toolOutput is what a handler produces before it is rendered into MCP content.
type toolOutput struct {
	envelope ResponseEnvelope
	chart    string
}

// wrapResponse builds a handler result.
func wrapResponse(data any, chart string, guidance, warnings []string) toolOutput {
	return toolOutput{
		envelope: ResponseEnvelope{Data: data, Guidance: guidance, Warnings: warnings},
		chart:    chart,
	}
}

func formatResult(data any) string {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("failed to encode result: %v", err)
	}
	return string(out)
}

func (s *Server) toCallResult(out toolOutput) *sdk.CallToolResult {
	content := []sdk.Content{&sdk.TextContent{Text: formatResult(out.envelope)}}
	if s.opts.Charts && out.chart != "" {
		content = append(content, &sdk.TextContent{Text: out.chart})
	}
	return &sdk.CallToolResult{Content: content}
}

func errorResult(err error) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		IsError: true,
		Content: []sdk.Content{&sdk.TextContent{Text: err.Error()}},
	}
}

// inputSchema infers the tool schema from the argument type and pins enumerations.
func inputSchema[T any](enums map[string][]string) (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, err
	}
	for prop, values := range enums {
		p, ok := schema.Properties[prop]
		if !ok {
			return nil, fmt.Errorf("schema has no property %q", prop)
		}
		p.Enum = make([]any, len(values))
		for i, v := range values {
			p.Enum[i] = v
		}
	}
	return schema, nil
}
