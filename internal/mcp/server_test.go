package mcp

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connectClient(t *testing.T, s *Server) *sdk.ClientSession {
	t.Helper()
	ctx := context.Background()
	clientTransport, serverTransport := sdk.NewInMemoryTransports()

	ss, err := s.Connect(ctx, serverTransport)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func TestServer_ListTools(t *testing.T) {
	cs := connectClient(t, newTestServer(t, false))

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"backtest_forecast",
		"detect_seasonality",
		"evaluate_accuracy",
		"forecast_revenue",
		"get_insights",
		"get_source_performance",
		"get_top_performers",
		"get_underperformers",
		"get_ytd_summary",
		"project_scenarios",
	}, names)
}

func TestServer_CallTool(t *testing.T) {
	cs := connectClient(t, newTestServer(t, true))
	ctx := context.Background()

	res, err := cs.CallTool(ctx, &sdk.CallToolParams{
		Name:      "forecast_revenue",
		Arguments: map[string]any{"source_id": "subscriptions", "periods": 3},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 2, "JSON result followed by the chart")

	text := res.Content[0].(*sdk.TextContent).Text
	var env struct {
		Data struct {
			Points []map[string]any `json:"points"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &env))
	assert.Len(t, env.Data.Points, 3)
	assert.Contains(t, res.Content[1].(*sdk.TextContent).Text, "xychart-beta")

	res, err = cs.CallTool(ctx, &sdk.CallToolParams{
		Name:      "get_source_performance",
		Arguments: map[string]any{"source_id": "ghost"},
	})
	require.NoError(t, err, "domain failures are reported as tool errors")
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].(*sdk.TextContent).Text, "unknown source")
}
