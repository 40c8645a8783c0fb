// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container locates a container engine on the host and runs the
// conversion image through it. Docker and Podman are supported; they share
// all logic except the binary name and the image-existence subcommand.
package container

import (
	"fmt"
	"io"
	"os/exec"
)

const (
	binDocker = "docker"
	binPodman = "podman"
)

// Engine provides the container operations the conversion stage needs:
// availability and image checks, and piping a file through a container.
type Engine interface {
	// Name returns the engine binary name ("docker" or "podman").
	Name() string

	// Available reports whether the engine binary exists on PATH and
	// responds to an info command.
	Available() bool

	// HasImage checks whether the named image exists locally. It returns
	// nil when the image is found.
	HasImage(image string) error

	// Run executes the image once, passing env as container environment
	// variables and wiring stdin and stdout. The container is removed
	// when it exits.
	Run(image string, env []string, stdin io.Reader, stdout io.Writer) error
}

// commandRunner abstracts process execution for testing.
type commandRunner interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunPiped(name string, args []string, stdin io.Reader, stdout io.Writer) error
}

// osRunner is the production commandRunner backed by os/exec.
type osRunner struct{}

func (osRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osRunner) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (osRunner) RunPiped(name string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	return cmd.Run()
}

// engine implements Engine for one container binary.
type engine struct {
	bin        string
	imageCheck []string
	run        commandRunner
}

func (e *engine) Name() string { return e.bin }

func (e *engine) Available() bool {
	if _, err := e.run.LookPath(e.bin); err != nil {
		return false
	}
	return e.run.RunSilent(e.bin, "info") == nil
}

func (e *engine) HasImage(image string) error {
	args := append(append([]string{}, e.imageCheck...), image)
	if err := e.run.RunSilent(e.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, e.bin, err)
	}
	return nil
}

func (e *engine) Run(image string, env []string, stdin io.Reader, stdout io.Writer) error {
	args := []string{"run", "--rm", "-i"}
	for _, v := range env {
		args = append(args, "-e", v)
	}
	args = append(args, image)

	if err := e.run.RunPiped(e.bin, args, stdin, stdout); err != nil {
		return fmt.Errorf("running %s container %s: %w", e.bin, image, err)
	}
	return nil
}

func newDocker(run commandRunner) *engine {
	return &engine{bin: binDocker, imageCheck: []string{"image", "inspect"}, run: run}
}

func newPodman(run commandRunner) *engine {
	return &engine{bin: binPodman, imageCheck: []string{"image", "exists"}, run: run}
}

var defaultRunner commandRunner = osRunner{}

// Detect tries docker first and falls back to podman. It returns an error
// when neither engine is operational.
func Detect() (Engine, error) {
	return detect(defaultRunner)
}

func detect(run commandRunner) (Engine, error) {
	docker := newDocker(run)
	if docker.Available() {
		return docker, nil
	}

	podman := newPodman(run)
	if podman.Available() {
		return podman, nil
	}

	return nil, fmt.Errorf(
		"no container engine available: neither %s nor %s found or operational",
		binDocker, binPodman,
	)
}
