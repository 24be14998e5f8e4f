package functional_test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// stdioSession wraps an MCP client session connected to "leadagent serve".
type stdioSession struct {
	session *sdkmcp.ClientSession
	cancel  context.CancelFunc
}

func newStdioSession(t *testing.T) *stdioSession {
	t.Helper()
	return newStdioSessionWithEnv(t, nil)
}

func newStdioSessionWithEnv(t *testing.T, extraEnv []string) *stdioSession {
	t.Helper()

	binaryPath := "./bin/leadagent"
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		binaryPath = "../../bin/leadagent"
		if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
			t.Skip("Server binary not found. Run 'go build -o bin/leadagent ./cmd/leadagent' first.")
		}
	}

	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	cmd := exec.CommandContext(ctx, binaryPath, "serve", "--transport", "stdio")
	cmd.Env = append(os.Environ(),
		"LEADAGENT_DB_PATH="+filepath.Join(dir, "leads.db"),
		"LEADAGENT_ENV_FILE="+filepath.Join(dir, ".env"),
		"LEADAGENT_LOG_PATH="+filepath.Join(dir, "lead_agent.log"),
		"EXA_API_KEY=",
		"GROQ_API_KEY=",
		"APOLLO_API_KEY=",
	)
	cmd.Env = append(cmd.Env, extraEnv...)

	transport := &sdkmcp.CommandTransport{Command: cmd}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		cancel()
		t.Fatalf("Failed to connect: %v", err)
	}

	t.Cleanup(func() {
		session.Close()
		cancel()
	})

	return &stdioSession{session: session, cancel: cancel}
}

func (s *stdioSession) call(t *testing.T, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := s.session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err, "CallTool %s failed", name)
	require.NotEmpty(t, result.Content, "Tool %s returned no content", name)
	return result
}

func textOf(t *testing.T, result *sdkmcp.CallToolResult) json.RawMessage {
	t.Helper()
	for _, content := range result.Content {
		if textContent, ok := content.(*sdkmcp.TextContent); ok {
			return json.RawMessage(textContent.Text)
		}
	}
	t.Fatal("tool returned no text content")
	return nil
}

func (s *stdioSession) callTool(t *testing.T, name string, args map[string]any) json.RawMessage {
	t.Helper()
	result := s.call(t, name, args)
	require.False(t, result.IsError, "Tool %s returned error: %s", name, textOf(t, result))
	return textOf(t, result)
}

func TestStdioFunctional_SeedLifecycle(t *testing.T) {
	s := newStdioSession(t)

	added := s.callTool(t, "add_seed", map[string]any{"url": "https://acme.com"})
	var sd struct {
		ID     int64  `json:"id"`
		URL    string `json:"url"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(added, &sd))
	require.Equal(t, "https://acme.com", sd.URL)
	require.Equal(t, "not-started", sd.Status)

	dup := s.call(t, "add_seed", map[string]any{"url": "https://acme.com"})
	require.True(t, dup.IsError)
	require.Contains(t, string(textOf(t, dup)), "SEED_EXISTS")

	bulk := s.callTool(t, "bulk_add_seeds", map[string]any{
		"urls": []string{"https://a.io", "", "https://b.io"},
	})
	var report struct {
		Added  int `json:"added"`
		Failed int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(bulk, &report))
	require.Equal(t, 2, report.Added)
	require.Equal(t, 0, report.Failed)

	list := s.callTool(t, "list_seeds", nil)
	var seeds []struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(list, &seeds))
	require.Len(t, seeds, 3)

	_ = s.callTool(t, "remove_seed", map[string]any{"url": "https://a.io"})
	list = s.callTool(t, "list_seeds", nil)
	require.NoError(t, json.Unmarshal(list, &seeds))
	require.Len(t, seeds, 2)
}

func TestStdioFunctional_PipelinesNotConfigured(t *testing.T) {
	s := newStdioSession(t)

	_ = s.callTool(t, "add_seed", map[string]any{"url": "https://acme.com"})

	discovery := s.call(t, "run_discovery", nil)
	require.True(t, discovery.IsError)
	require.Contains(t, string(textOf(t, discovery)), "NOT_CONFIGURED")

	research := s.call(t, "run_research", nil)
	require.True(t, research.IsError)
	require.Contains(t, string(textOf(t, research)), "NOT_CONFIGURED")

	// no mutation: the seed is still waiting
	list := s.callTool(t, "list_seeds", map[string]any{"url": "https://acme.com"})
	require.Contains(t, string(list), `"not-started"`)

	errs := s.callTool(t, "list_errors", nil)
	require.JSONEq(t, `[]`, string(errs))
}

func TestStdioFunctional_MCPProtocolCompliance(t *testing.T) {
	s := newStdioSession(t)

	initResult := s.session.InitializeResult()
	require.NotNil(t, initResult)
	require.NotNil(t, initResult.ServerInfo)
	require.Equal(t, "leadagent", initResult.ServerInfo.Name)
	require.Equal(t, "0.1.0-dev", initResult.ServerInfo.Version)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tools, err := s.session.ListTools(ctx, nil)
	require.NoError(t, err)

	toolMap := make(map[string]*sdkmcp.Tool)
	for _, tool := range tools.Tools {
		toolMap[tool.Name] = tool
	}
	for _, name := range []string{
		"add_seed", "remove_seed", "list_seeds", "bulk_add_seeds", "run_discovery",
		"list_leads", "get_lead", "delete_lead", "list_errors", "run_research",
	} {
		require.Contains(t, toolMap, name)
		require.NotEmpty(t, toolMap[name].Description)
	}
}

func TestStdioFunctional_LogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "traffic.log")
	s := newStdioSessionWithEnv(t, []string{
		"LEADAGENT_LOG_PATH=" + logPath,
		"LEADAGENT_LOG_LEVEL=debug",
	})

	_ = s.callTool(t, "list_leads", nil)

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(logPath)
		if err != nil {
			return false
		}
		text := string(data)
		return strings.Contains(text, `"msg":"mcp traffic"`) &&
			strings.Contains(text, `"stage":"request"`) &&
			strings.Contains(text, `"stage":"response"`)
	}, 5*time.Second, 100*time.Millisecond)
}

func TestStdioFunctional_DocumentationResources(t *testing.T) {
	s := newStdioSession(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resources, err := s.session.ListResources(ctx, nil)
	require.NoError(t, err)
	require.Len(t, resources.Resources, 1)
	require.Equal(t, "leadagent://docs/statuses", resources.Resources[0].URI)
	require.Equal(t, "text/markdown", resources.Resources[0].MIMEType)

	read, err := s.session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "leadagent://docs/statuses"})
	require.NoError(t, err)
	require.NotEmpty(t, read.Contents)
	require.Contains(t, read.Contents[0].Text, "not-started")
}
