package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ralt/unold/internal/models"
	"github.com/ralt/unold/internal/utils"
	"github.com/sirupsen/logrus"
)

// imagePrefix is prepended to every generated image name
const imagePrefix = "unold_"

// Runner builds an image from Containerfile text and returns the output of
// running it. contextDir is the build context.
type Runner interface {
	BuildAndRun(ctx context.Context, containerfile, contextDir string) (string, error)
}

// CommandError is returned when the container manager exits unsuccessfully
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

// Error implements the error interface
func (e *CommandError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("Command '%s' returned non-zero exit status %d.", strings.Join(e.Args, " "), e.ExitCode)
	}
	return fmt.Sprintf("Command '%s' failed: %v", strings.Join(e.Args, " "), e.Err)
}

// Unwrap returns the wrapped error
func (e *CommandError) Unwrap() error {
	return e.Err
}

// CLIRunner drives a docker compatible command line (podman, docker)
type CLIRunner struct {
	manager string
	timeout time.Duration
	workDir string
}

// NewCLIRunner creates a runner for the given container manager. Generated
// Containerfiles are written into workDir. A zero timeout leaves build and
// run unbounded.
func NewCLIRunner(manager string, timeout time.Duration, workDir string) *CLIRunner {
	return &CLIRunner{
		manager: manager,
		timeout: timeout,
		workDir: workDir,
	}
}

// IsAvailable reports whether the container manager can be found
func IsAvailable(manager string) bool {
	_, err := exec.LookPath(manager)
	return err == nil
}

// ImageName derives a deterministic image name from Containerfile text
func ImageName(containerfile string) string {
	sum, _ := utils.CalculateChecksum([]byte(containerfile), "sha1")
	return imagePrefix + sum[:8]
}

// BuildAndRun writes the Containerfile into the work directory, builds it
// with contextDir as build context and runs the image
func (r *CLIRunner) BuildAndRun(ctx context.Context, containerfile, contextDir string) (string, error) {
	imageName := ImageName(containerfile)

	filePath := filepath.Join(r.workDir, imageName)
	if err := utils.WriteFile(filePath, []byte(containerfile), 0644); err != nil {
		return "", fmt.Errorf("failed to write Containerfile: %w", err)
	}

	logrus.Debugf("Building image %s from %s", imageName, filePath)
	if _, err := r.exec(ctx, "build", "-q", "-f", filePath, "-t", imageName, contextDir); err != nil {
		return "", &models.UnoldError{Type: models.ErrBuild, Err: fmt.Errorf("failed to build image %s: %w", imageName, err)}
	}

	logrus.Debugf("Running image %s", imageName)
	output, err := r.exec(ctx, "run", "--rm", imageName)
	if err != nil {
		return "", &models.UnoldError{Type: models.ErrRun, Err: fmt.Errorf("failed to run image %s: %w", imageName, err)}
	}

	return strings.TrimSpace(output), nil
}

// exec runs the container manager and captures stdout
func (r *CLIRunner) exec(ctx context.Context, args ...string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.manager, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		cmdErr := &CommandError{
			Args:     append([]string{r.manager}, args...),
			ExitCode: -1,
			Stderr:   stderr.String(),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		return "", cmdErr
	}

	return stdout.String(), nil
}
