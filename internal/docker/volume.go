package docker

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/client"
)

// InspectVolumes returns the dcx--prefixed named volumes mounted into a
// container. Must be called before RemoveContainer: the container's own
// mount list is the only place these names are discoverable.
func (c *Client) InspectVolumes(ctx context.Context, id string) ([]string, error) {
	info, err := c.cli.ContainerInspect(ctx, id)
	if err != nil {
		if client.IsErrNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("inspect container %s: %w", id, err)
	}

	var names []string
	for _, m := range info.Mounts {
		if m.Type != "volume" || m.Name == "" {
			continue
		}
		if strings.HasPrefix(m.Name, DCXVolumePrefix) {
			names = append(names, m.Name)
		}
	}
	return names, nil
}

// RemoveVolume removes a named volume. Failures are always non-fatal to
// the caller's cleanup plan — a volume still attached to a sibling
// container, or already gone, should never abort the rest of the plan.
func (c *Client) RemoveVolume(ctx context.Context, name string) error {
	if err := c.cli.VolumeRemove(ctx, name, false); err != nil && !client.IsErrNotFound(err) {
		return fmt.Errorf("remove volume %s: %w", name, err)
	}
	return nil
}

// ListDCXVolumes returns the name of every volume on the daemon whose name
// begins with the dcx- prefix, used by the --all --purge global sweep.
func (c *Client) ListDCXVolumes(ctx context.Context) ([]string, error) {
	filterArgs := filters.NewArgs()
	filterArgs.Add("name", DCXVolumePrefix)

	resp, err := c.cli.VolumeList(ctx, volume.ListOptions{Filters: filterArgs})
	if err != nil {
		return nil, fmt.Errorf("list volumes: %w", err)
	}

	var names []string
	for _, v := range resp.Volumes {
		if strings.HasPrefix(v.Name, DCXVolumePrefix) {
			names = append(names, v.Name)
		}
	}
	return names, nil
}
