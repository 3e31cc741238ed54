// Package pypi resolves package release metadata from the PyPI JSON API.
// The orchestrator uses it to pin "latest" to a concrete packager version
// before handing the install off to pip.
package pypi

import (
	"context"
	"fmt"
	"time"

	"github.com/luulek/packforge/internal/ctxlog"
	"resty.dev/v3"
)

// DefaultBaseURL is the public PyPI endpoint.
const DefaultBaseURL = "https://pypi.org"

// VersionResolver resolves the latest published version of a project.
type VersionResolver interface {
	LatestVersion(ctx context.Context, project string) (string, error)
}

// Client is a PyPI JSON API client backed by resty.
type Client struct {
	http *resty.Client
}

// projectInfo mirrors the subset of the PyPI project payload we consume.
type projectInfo struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
}

// NewClient creates a client for the given base URL. An empty URL selects
// the public PyPI endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second)
	return &Client{http: http}
}

// Close releases the underlying transport resources.
func (c *Client) Close() error {
	return c.http.Close()
}

// LatestVersion returns the newest published version of the given project.
func (c *Client) LatestVersion(ctx context.Context, project string) (string, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Querying PyPI for latest release.", "project", project)

	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&projectInfo{}).
		SetPathParam("project", project).
		Get("/pypi/{project}/json")
	if err != nil {
		return "", fmt.Errorf("failed to query PyPI for %s: %w", project, err)
	}
	if res.IsError() {
		return "", fmt.Errorf("PyPI returned status %d for %s", res.StatusCode(), project)
	}

	info := res.Result().(*projectInfo)
	if info.Info.Version == "" {
		return "", fmt.Errorf("PyPI response for %s carried no version", project)
	}

	logger.Debug("Resolved latest release.", "project", project, "version", info.Info.Version)
	return info.Info.Version, nil
}
