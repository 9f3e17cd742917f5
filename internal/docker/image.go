package docker

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

// ImageExists reports whether ref resolves to a local image.
func (c *Client) ImageExists(ctx context.Context, ref string) (bool, error) {
	_, _, err := c.cli.ImageInspectWithRaw(ctx, ref)
	if err != nil {
		if client.IsErrNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("inspect image %s: %w", ref, err)
	}
	return true, nil
}

// ImageIDOf resolves ref to its image ID, or "", false if ref doesn't
// exist locally.
func (c *Client) ImageIDOf(ctx context.Context, ref string) (string, bool, error) {
	info, _, err := c.cli.ImageInspectWithRaw(ctx, ref)
	if err != nil {
		if client.IsErrNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("inspect image %s: %w", ref, err)
	}
	return info.ID, true, nil
}

// RemoveImage removes a repo:tag reference. Removing an absent reference
// is a no-op success. Callers always pass a tag reference rather than a
// bare ID, so a shared base image survives as long as any other tag
// still points at it.
func (c *Client) RemoveImage(ctx context.Context, ref string, force bool) error {
	_, err := c.cli.ImageRemove(ctx, ref, image.RemoveOptions{Force: force})
	if err != nil && !client.IsErrNotFound(err) {
		return fmt.Errorf("remove image %s: %w", ref, err)
	}
	return nil
}

// Tag applies dst as an additional tag on the image currently named src.
func (c *Client) Tag(ctx context.Context, src, dst string) error {
	if err := c.cli.ImageTag(ctx, src, dst); err != nil {
		return fmt.Errorf("tag %s as %s: %w", src, dst, err)
	}
	return nil
}

// ListRuntimeImages returns the repo:tag of every local image matching the
// devcontainer CLI's vsc-<name>-<suffix>-uid naming convention.
func (c *Client) ListRuntimeImages(ctx context.Context) ([]string, error) {
	return c.listImagesWithTagPredicate(ctx, isRuntimeImageTag)
}

// ListBuildImages returns the repo:tag of every local image matching the
// devcontainer CLI's build-image naming convention (vsc-<name>, without the
// -uid runtime-layer suffix).
func (c *Client) ListBuildImages(ctx context.Context) ([]string, error) {
	return c.listImagesWithTagPredicate(ctx, isBuildImageTag)
}

// ListBaseImageTags returns every dcx-base:<identifier> tag currently on
// disk, used by the --all --purge global sweep.
func (c *Client) ListBaseImageTags(ctx context.Context) ([]string, error) {
	return c.listImagesWithTagPredicate(ctx, isBaseImageTag)
}

func isRuntimeImageTag(tag string) bool {
	return strings.HasPrefix(tag, RuntimeImagePrefix) && strings.Contains(tag, RuntimeImageSuffix+":")
}

func isBuildImageTag(tag string) bool {
	return strings.HasPrefix(tag, RuntimeImagePrefix) && !strings.Contains(tag, RuntimeImageSuffix+":")
}

func isBaseImageTag(tag string) bool {
	return strings.HasPrefix(tag, BaseImagePrefix)
}

func (c *Client) listImagesWithTagPredicate(ctx context.Context, keep func(tag string) bool) ([]string, error) {
	images, err := c.cli.ImageList(ctx, image.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	var out []string
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if keep(tag) {
				out = append(out, tag)
			}
		}
	}
	return out, nil
}
