package transport

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/sirupsen/logrus"
)

// ContainerSession executes a payload inside a fresh container on the control
// host. It serves the containerized build pipeline: same Session contract as
// the SSH and local executors, with a hermetic interpreter instead of a
// remote one.
type ContainerSession struct {
	apiClient client.APIClient
	image     string
	stdout    io.Writer
	stderr    io.Writer
}

// NewContainerSession creates a session that runs payloads in containers
// based on the given image. Nil writers default to os.Stdout and os.Stderr.
func NewContainerSession(
	apiClient client.APIClient,
	imageRef string,
	stdout, stderr io.Writer,
) *ContainerSession {
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	return &ContainerSession{
		apiClient: apiClient,
		image:     imageRef,
		stdout:    stdout,
		stderr:    stderr,
	}
}

// Run creates a container, streams the payload into its interpreter over
// stdin, waits for it to exit, and maps a nonzero status to *ExitError. The
// container is removed afterwards regardless of outcome.
func (s *ContainerSession) Run(ctx context.Context, payload string) error {
	err := s.ensureImage(ctx)
	if err != nil {
		return err
	}

	created, err := s.apiClient.ContainerCreate(ctx, &container.Config{
		Image:        s.image,
		Cmd:          []string{"bash", "-s"},
		OpenStdin:    true,
		StdinOnce:    true,
		AttachStdin:  true,
		AttachStdout: true,
		AttachStderr: true,
	}, nil, nil, nil, "")
	if err != nil {
		return fmt.Errorf("create build container: %w", err)
	}

	defer func() {
		removeErr := s.apiClient.ContainerRemove(
			context.WithoutCancel(ctx),
			created.ID,
			container.RemoveOptions{Force: true},
		)
		if removeErr != nil {
			logrus.WithError(removeErr).Warn("failed to remove build container")
		}
	}()

	attached, err := s.apiClient.ContainerAttach(ctx, created.ID, container.AttachOptions{
		Stream: true,
		Stdin:  true,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		return fmt.Errorf("attach to build container: %w", err)
	}
	defer attached.Close()

	err = s.apiClient.ContainerStart(ctx, created.ID, container.StartOptions{})
	if err != nil {
		return fmt.Errorf("start build container: %w", err)
	}

	go func() {
		_, _ = io.Copy(attached.Conn, strings.NewReader(payload))
		_ = attached.CloseWrite()
	}()

	_, err = stdcopy.StdCopy(s.stdout, s.stderr, attached.Reader)
	if err != nil {
		return fmt.Errorf("stream build container output: %w", err)
	}

	statusCh, errCh := s.apiClient.ContainerWait(ctx, created.ID, container.WaitConditionNotRunning)

	select {
	case waitErr := <-errCh:
		return fmt.Errorf("wait for build container: %w", waitErr)
	case status := <-statusCh:
		if status.StatusCode != 0 {
			return &ExitError{Status: int(status.StatusCode)}
		}

		return nil
	}
}

// ensureImage pulls the build image unless it is already present locally.
func (s *ContainerSession) ensureImage(ctx context.Context) error {
	_, err := s.apiClient.ImageInspect(ctx, s.image)
	if err == nil {
		return nil
	}

	logrus.WithField("image", s.image).Debug("pulling build image")

	pullStream, err := s.apiClient.ImagePull(ctx, s.image, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull build image %s: %w", s.image, err)
	}
	defer pullStream.Close()

	_, err = io.Copy(io.Discard, pullStream)
	if err != nil {
		return fmt.Errorf("read build image pull stream: %w", err)
	}

	return nil
}
