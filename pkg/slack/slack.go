// Package slack posts finished reports to a Slack incoming webhook. It only
// ever receives fully assembled results; the pipeline never hands it partial
// output.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/saint0x/ggsum/pkg/git"
	"github.com/saint0x/ggsum/pkg/provider"
)

// summaryLimit keeps the report section inside Slack's block text ceiling.
const summaryLimit = 2500

// Sender posts messages to one webhook URL.
type Sender struct {
	webhookURL string
	httpClient provider.HTTPClient
}

// New creates a Sender for webhookURL.
func New(webhookURL string) *Sender {
	return &Sender{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithHTTPClient overrides the HTTP client, for tests.
func (s *Sender) WithHTTPClient(c provider.HTTPClient) *Sender {
	s.httpClient = c
	return s
}

type block map[string]any

// SendReport posts a progress report using Block Kit layout: header, field
// grid, summary, recent commits, footer.
func (s *Sender) SendReport(ctx context.Context, repoName string, days, totalCommits int, reportText string, commits []git.Commit) error {
	avg := float64(totalCommits) / float64(max(days, 1))

	blocks := []block{
		{
			"type": "header",
			"text": map[string]any{"type": "plain_text", "text": "📊 Git Progress Report", "emoji": true},
		},
		{
			"type": "section",
			"fields": []map[string]any{
				{"type": "mrkdwn", "text": fmt.Sprintf("*Repository:*\n%s", repoName)},
				{"type": "mrkdwn", "text": fmt.Sprintf("*Period:*\nLast %d days", days)},
				{"type": "mrkdwn", "text": fmt.Sprintf("*Total Commits:*\n%d", totalCommits)},
				{"type": "mrkdwn", "text": fmt.Sprintf("*Average:*\n%.1f commits/day", avg)},
			},
		},
		{"type": "divider"},
		{
			"type": "section",
			"text": map[string]any{"type": "mrkdwn", "text": "*📝 Summary*\n" + truncate(reportText, summaryLimit)},
		},
	}

	if len(commits) > 0 {
		text := "*📜 Recent Commits*\n"
		for i, c := range commits {
			if i == 5 {
				text += fmt.Sprintf("_... and %d more_", len(commits)-5)
				break
			}
			text += "• " + truncate(c.Subject, 50) + "\n"
		}
		blocks = append(blocks, block{
			"type": "section",
			"text": map[string]any{"type": "mrkdwn", "text": text},
		})
	}

	blocks = append(blocks,
		block{"type": "divider"},
		block{
			"type": "context",
			"elements": []map[string]any{
				{"type": "mrkdwn", "text": "_Sent by ggsum_ 🚀"},
			},
		},
	)

	return s.post(ctx, map[string]any{"blocks": blocks})
}

// SendMessage posts a simple text message.
func (s *Sender) SendMessage(ctx context.Context, message string) error {
	return s.post(ctx, map[string]any{"text": message})
}

func (s *Sender) post(ctx context.Context, payload map[string]any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshaling slack payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewBuffer(data))
	if err != nil {
		return errors.Wrap(err, "building slack request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "posting to slack")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.Newf("slack webhook returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// truncate shortens text to at most limit bytes, ellipsis included, cutting
// on a rune boundary so multibyte text stays valid UTF-8.
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit - 3
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
