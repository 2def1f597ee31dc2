package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	return New(testutil.TestService(t), "mcp-user")
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "create_note":
		result, err = srv.createNote(ctx, req)
	case "update_note":
		result, err = srv.updateNote(ctx, req)
	case "delete_note":
		result, err = srv.deleteNote(ctx, req)
	case "search_notes":
		result, err = srv.searchNotes(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndReadNote(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "create_note", map[string]interface{}{
		"title":   "Hello",
		"content": "World",
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "created: ") {
		t.Fatalf("create result = %q", text)
	}
	id := strings.TrimPrefix(text, "created: ")

	r = callTool(t, srv, "read_note", map[string]interface{}{"id": id})
	var n models.Note
	if err := json.Unmarshal([]byte(resultText(r)), &n); err != nil {
		t.Fatalf("read result not JSON: %v", err)
	}
	if n.Title != "Hello" || n.Content != "World" || n.UserID != "mcp-user" {
		t.Errorf("note = %+v", n)
	}
}

func TestCreateNote_MissingContent(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "create_note", map[string]interface{}{
		"title":   "Hello",
		"content": "",
	})
	if !r.IsError {
		t.Error("expected validation error")
	}
}

func TestUpdateAndDeleteNote(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "create_note", map[string]interface{}{
		"title":   "T",
		"content": "C",
	})
	id := strings.TrimPrefix(resultText(r), "created: ")

	r = callTool(t, srv, "update_note", map[string]interface{}{
		"id":      id,
		"content": "C2",
	})
	if resultText(r) != "updated: "+id {
		t.Errorf("update result = %q", resultText(r))
	}

	r = callTool(t, srv, "delete_note", map[string]interface{}{"id": id})
	if resultText(r) != "deleted: "+id {
		t.Errorf("delete result = %q", resultText(r))
	}

	// Second delete reports an error.
	r = callTool(t, srv, "delete_note", map[string]interface{}{"id": id})
	if !r.IsError {
		t.Error("expected error for repeat delete")
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_note", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestListNotes(t *testing.T) {
	srv := testServer(t)
	_ = callTool(t, srv, "create_note", map[string]interface{}{"title": "A", "content": "a"})
	_ = callTool(t, srv, "create_note", map[string]interface{}{"title": "B", "content": "b"})

	r := callTool(t, srv, "list_notes", map[string]interface{}{})
	var notes []models.Note
	if err := json.Unmarshal([]byte(resultText(r)), &notes); err != nil {
		t.Fatalf("list result not JSON: %v", err)
	}
	if len(notes) != 2 {
		t.Errorf("len = %d, want 2", len(notes))
	}
}

func TestSearchNotes(t *testing.T) {
	srv := testServer(t)
	_ = callTool(t, srv, "create_note", map[string]interface{}{"title": "Plans", "content": "uniquetoken here"})

	r := callTool(t, srv, "search_notes", map[string]interface{}{"query": "uniquetoken"})
	var notes []models.Note
	if err := json.Unmarshal([]byte(resultText(r)), &notes); err != nil {
		t.Fatalf("search result not JSON: %v", err)
	}
	if len(notes) != 1 {
		t.Errorf("len = %d, want 1", len(notes))
	}
}
