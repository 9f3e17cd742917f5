// Package docker wraps the Docker Engine API client with the narrow set of
// operations dcx needs: finding the one container/volume/image set that
// belongs to a workspace, and tearing it down again. Everything goes
// through the SDK client rather than shelling out to the docker CLI, so
// there is no multi-line CLI output to re-parse.
package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/client"
)

// Client wraps the Docker Engine API client.
type Client struct {
	cli *client.Client
}

// NewClient builds a Client from the environment (DOCKER_HOST and friends),
// negotiating the API version against whatever daemon is actually listening
// — on a Colima host that's the Colima-managed socket, not Docker Desktop's.
func NewClient() (*Client, error) {
	cli, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Client{cli: cli}, nil
}

// Close releases the underlying HTTP transport.
func (c *Client) Close() error {
	return c.cli.Close()
}

// Info probes daemon reachability. It is used only as a prerequisite check:
// callers that can't reach the daemon stop before touching anything else.
func (c *Client) Info(ctx context.Context) error {
	if _, err := c.cli.Info(ctx); err != nil {
		return fmt.Errorf("docker daemon unreachable: %w", err)
	}
	return nil
}
