package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sleuth/internal/adapters/sse"
	"sleuth/internal/core/domain"
	"sleuth/internal/core/ports"
	"sleuth/internal/platform/errors"
	"sleuth/internal/platform/httpclient"
	"sleuth/internal/platform/logx"
	"sleuth/internal/platform/ui"
)

// client talks to a sleuth server. Streams use a client without a
// timeout; one-shot JSON calls go through httpclient with retries.
type client struct {
	base   string
	api    *httpclient.Client
	stream *http.Client
	logger logx.Logger
}

func newClient(base string, logger logx.Logger) *client {
	return &client{
		base: strings.TrimRight(base, "/"),
		api: httpclient.New(httpclient.Config{
			Timeout:      30 * time.Second,
			MaxRetries:   1,
			RetryBackoff: 500 * time.Millisecond,
			UserAgent:    "sleuthctl/" + version,
		}, logger),
		stream: &http.Client{},
		logger: logger,
	}
}

func (c *client) search(ctx context.Context, p ui.Presenter, tool, username string) error {
	target := fmt.Sprintf("%s/api/search/%s/%s", c.base, url.PathEscape(tool), url.PathEscape(username))
	return c.follow(ctx, p, target, ui.StreamInfo{Server: c.base, Kind: "search", Subject: username, Tool: tool})
}

func (c *client) leads(ctx context.Context, p ui.Presenter, filename string) error {
	target := fmt.Sprintf("%s/api/process-image-leads/%s", c.base, url.PathEscape(filename))
	return c.follow(ctx, p, target, ui.StreamInfo{Server: c.base, Kind: "leads", Subject: filename})
}

func (c *client) tools(ctx context.Context, p ui.Presenter) error {
	doc, err := c.api.GetJSON(ctx, c.base+"/api/tools")
	if err != nil {
		return err
	}
	var body struct {
		Tools []ports.ToolMetadata `json:"tools"`
	}
	if err := json.Unmarshal(doc, &body); err != nil {
		return errors.Wrapf(errors.ErrInvalidResponse, "decode tools: %v", err)
	}
	p.Tools(body.Tools)
	return nil
}

// probe tells the event shapes apart.
type probe struct {
	Done   *bool  `json:"done"`
	Status string `json:"status"`
	Fatal  *bool  `json:"fatal"`
}

// follow opens target and renders events until the stream ends.
func (c *client) follow(ctx context.Context, p ui.Presenter, target string, info ui.StreamInfo) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrServiceUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}

	p.Start(info)
	start := time.Now()
	var stats ui.StreamStats

	for msg, err := range sse.Read(resp.Body) {
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return errors.Wrap(err, "read stream")
		}

		var kind probe
		if err := json.Unmarshal(msg.Data, &kind); err != nil {
			c.logger.Warn("undecodable event", "data", string(msg.Data))
			continue
		}

		switch {
		case kind.Done != nil:
			// Completion of a tool run.
		case kind.Fatal != nil:
			var ev domain.FaultEvent
			_ = json.Unmarshal(msg.Data, &ev)
			stats.Faulted = true
			p.Fault(ev)
		case kind.Status != "":
			var ev domain.ProfileProgressEvent
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				continue
			}
			switch ev.Status {
			case domain.StatusProfile:
				stats.Profiles++
			case domain.StatusError:
				stats.Failures++
			}
			p.Progress(ev)
		default:
			var ev domain.FoundEvent
			if err := json.Unmarshal(msg.Data, &ev); err != nil || ev.URL == "" {
				continue
			}
			stats.Found++
			p.Found(ev)
		}
	}

	stats.Duration = time.Since(start)
	stats.Interrupted = ctx.Err() != nil
	p.Finish(stats)

	if stats.Faulted {
		return errors.New("stream ended with a fault")
	}
	return nil
}

// responseError turns a pre-stream {"error": ...} reply into an error.
func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var e struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		msg = e.Error
	}
	return errors.Wrapf(httpclient.CheckStatus(resp), "%s", msg)
}
