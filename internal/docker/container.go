package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

// ContainerFor returns the ID of the running container labeled for
// relayPath, or "", false if none is running. When more than one container
// happens to carry the label, the first returned by the daemon wins.
func (c *Client) ContainerFor(ctx context.Context, relayPath string) (string, bool, error) {
	return c.containerFor(ctx, relayPath, false)
}

// AnyContainerFor returns the ID of a container labeled for relayPath in
// any state (running, stopped, created), or "", false if none exists.
func (c *Client) AnyContainerFor(ctx context.Context, relayPath string) (string, bool, error) {
	return c.containerFor(ctx, relayPath, true)
}

func (c *Client) containerFor(ctx context.Context, relayPath string, anyState bool) (string, bool, error) {
	filterArgs := filters.NewArgs()
	filterArgs.Add("label", fmt.Sprintf("%s=%s", LabelLocalFolder, relayPath))

	containers, err := c.cli.ContainerList(ctx, container.ListOptions{
		All:     anyState,
		Filters: filterArgs,
	})
	if err != nil {
		return "", false, fmt.Errorf("list containers for %s: %w", relayPath, err)
	}
	if len(containers) == 0 {
		return "", false, nil
	}
	return containers[0].ID, true, nil
}

// LabelOf reads a single label off a container by ID. Returns "", false if
// the container is gone or carries no such label.
func (c *Client) LabelOf(ctx context.Context, id, key string) (string, bool, error) {
	info, err := c.cli.ContainerInspect(ctx, id)
	if err != nil {
		if client.IsErrNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("inspect container %s: %w", id, err)
	}
	v, ok := info.Config.Labels[key]
	if !ok || v == "" {
		return "", false, nil
	}
	return v, true, nil
}

// ImageOf returns the repo:tag reference a container was created from
// (Config.Image, not the resolved image ID in Image) so callers can remove
// or re-tag it without risking an SHA-based removal that would also unlink
// a sibling workspace's alias to the same underlying image.
func (c *Client) ImageOf(ctx context.Context, id string) (string, error) {
	info, err := c.cli.ContainerInspect(ctx, id)
	if err != nil {
		return "", fmt.Errorf("inspect container %s: %w", id, err)
	}
	return info.Config.Image, nil
}

// HasAnyContainerForImage reports whether any container, running or not,
// was created from ref — used by the orphan sweep to decide whether a
// runtime image still has a reason to exist.
func (c *Client) HasAnyContainerForImage(ctx context.Context, ref string) (bool, error) {
	filterArgs := filters.NewArgs()
	filterArgs.Add("ancestor", ref)

	containers, err := c.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return false, fmt.Errorf("list containers for image %s: %w", ref, err)
	}
	return len(containers) > 0, nil
}

// Stop stops a running container. Stopping an already-stopped or absent
// container is a no-op success.
func (c *Client) Stop(ctx context.Context, id string) error {
	err := c.cli.ContainerStop(ctx, id, container.StopOptions{})
	if err != nil && !client.IsErrNotFound(err) {
		return fmt.Errorf("stop container %s: %w", id, err)
	}
	return nil
}

// RemoveContainer removes a container. Removing an absent container is a
// no-op success, matching the adapter's idempotency contract.
func (c *Client) RemoveContainer(ctx context.Context, id string, force bool) error {
	err := c.cli.ContainerRemove(ctx, id, container.RemoveOptions{Force: force})
	if err != nil && !client.IsErrNotFound(err) {
		return fmt.Errorf("remove container %s: %w", id, err)
	}
	return nil
}
