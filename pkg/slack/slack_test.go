package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/saint0x/ggsum/pkg/git"
)

func manyCommits(n int) []git.Commit {
	commits := make([]git.Commit, n)
	for i := range commits {
		commits[i] = git.Commit{SHA: fmt.Sprintf("sha%d", i+1), Subject: fmt.Sprintf("commit %d", i+1)}
	}
	return commits
}

// mockHTTPClient implements provider.HTTPClient for testing
type mockHTTPClient struct {
	status   int
	response string
	err      error
	lastBody []byte
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		m.lastBody, _ = io.ReadAll(req.Body)
	}
	if m.err != nil {
		return nil, m.err
	}
	status := m.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(m.response)),
	}, nil
}

func TestSendReport_BlockLayout(t *testing.T) {
	mock := &mockHTTPClient{response: "ok"}
	s := New("https://hooks.slack.com/services/T/B/X").WithHTTPClient(mock)

	err := s.SendReport(context.Background(), "ggsum", 7, 3, "Shipped the cache layer.", nil)
	if err != nil {
		t.Fatalf("SendReport: %v", err)
	}

	var payload struct {
		Blocks []map[string]any `json:"blocks"`
	}
	if err := json.Unmarshal(mock.lastBody, &payload); err != nil {
		t.Fatalf("unmarshal sent payload: %v", err)
	}
	if len(payload.Blocks) == 0 || payload.Blocks[0]["type"] != "header" {
		t.Errorf("first block should be the header, got %+v", payload.Blocks)
	}

	body := string(mock.lastBody)
	for _, want := range []string{"ggsum", "Last 7 days", "Shipped the cache layer."} {
		if !strings.Contains(body, want) {
			t.Errorf("payload should contain %q", want)
		}
	}
}

func TestSendReport_CapsRecentCommits(t *testing.T) {
	mock := &mockHTTPClient{response: "ok"}
	s := New("https://hooks.slack.com/services/T/B/X").WithHTTPClient(mock)

	commits := manyCommits(8)
	if err := s.SendReport(context.Background(), "repo", 7, 8, "summary", commits); err != nil {
		t.Fatalf("SendReport: %v", err)
	}

	body := string(mock.lastBody)
	if !strings.Contains(body, "... and 3 more") {
		t.Error("commit list should cap at 5 with a remainder note")
	}
	if strings.Contains(body, "commit 6") {
		t.Error("commits past the cap should not be listed")
	}
}

func TestSendReport_TruncatesLongSummary(t *testing.T) {
	mock := &mockHTTPClient{response: "ok"}
	s := New("https://hooks.slack.com/services/T/B/X").WithHTTPClient(mock)

	long := strings.Repeat("a", summaryLimit+500)
	if err := s.SendReport(context.Background(), "repo", 7, 1, long, nil); err != nil {
		t.Fatalf("SendReport: %v", err)
	}
	if strings.Contains(string(mock.lastBody), long) {
		t.Error("summary should be truncated before posting")
	}
	if !strings.Contains(string(mock.lastBody), "...") {
		t.Error("truncated summary should carry an ellipsis")
	}
}

func TestSendReport_TruncationKeepsValidUTF8(t *testing.T) {
	mock := &mockHTTPClient{response: "ok"}
	s := New("https://hooks.slack.com/services/T/B/X").WithHTTPClient(mock)

	long := strings.Repeat("変", summaryLimit)
	if err := s.SendReport(context.Background(), "repo", 7, 1, long, nil); err != nil {
		t.Fatalf("SendReport: %v", err)
	}
	if !utf8.Valid(mock.lastBody) {
		t.Error("truncated summary produced invalid UTF-8 in the payload")
	}
}

func TestSendReport_WebhookFailure(t *testing.T) {
	mock := &mockHTTPClient{status: http.StatusNotFound, response: "no_service"}
	s := New("https://hooks.slack.com/services/T/B/X").WithHTTPClient(mock)

	err := s.SendReport(context.Background(), "repo", 7, 1, "summary", nil)
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error should carry the status code, got %v", err)
	}
}

func TestSendMessage(t *testing.T) {
	mock := &mockHTTPClient{response: "ok"}
	s := New("https://hooks.slack.com/services/T/B/X").WithHTTPClient(mock)

	if err := s.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	var payload map[string]string
	if err := json.Unmarshal(mock.lastBody, &payload); err != nil {
		t.Fatalf("unmarshal sent payload: %v", err)
	}
	if payload["text"] != "hello" {
		t.Errorf("unexpected payload %v", payload)
	}
}
