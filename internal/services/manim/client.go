package manim

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, workDir string, onLine func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps engine CLI interactions.
type Client struct {
	binary        string
	renderTimeout time.Duration
	exec          Executor
}

// New constructs an engine client.
func New(binary string, renderTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("engine binary required")
	}
	client := &Client{
		binary:        binary,
		renderTimeout: time.Duration(renderTimeoutSeconds) * time.Second,
		exec:          commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Outcome captures everything observed during one engine run.
type Outcome struct {
	// ReportedPath is the output file the engine announced in its log, if
	// any. The path may not exist; the resolver verifies it.
	ReportedPath string
	// ExitErr is the process failure, when the engine exited non-zero or
	// could not be executed. A non-nil ExitErr is not by itself fatal for
	// the job: artifact discovery still runs.
	ExitErr error
	// Transcript holds every output line for diagnostics.
	Transcript *Transcript
}

// Render executes the engine in workDir, draining its merged output stream
// synchronously until the process exits. Progress updates are delivered to
// progress, in line order, after every line that changes the completion
// estimate. The final update forces the fraction to 1.0 once the process has
// exited.
func (c *Client) Render(ctx context.Context, inv Invocation, workDir string, progress func(ProgressUpdate)) (*Outcome, error) {
	if workDir == "" {
		return nil, errors.New("working directory required")
	}

	runCtx := ctx
	if c.renderTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.renderTimeout)
		defer cancel()
	}

	transcript := &Transcript{}
	tracker := &progressTracker{}
	scanner := &pathScanner{}

	// The executor forwards stdout and stderr lines from separate
	// goroutines; parser state is serialized here.
	var mu sync.Mutex
	onLine := func(line string) {
		mu.Lock()
		transcript.Append(line)
		update, changed := tracker.Observe(line)
		scanner.Scan(line)
		mu.Unlock()
		if changed && progress != nil {
			progress(update)
		}
	}

	runErr := c.exec.Run(runCtx, c.binary, inv.Args, workDir, onLine)

	outcome := &Outcome{
		ReportedPath: scanner.Path(),
		ExitErr:      runErr,
		Transcript:   transcript,
	}
	if progress != nil && processExited(runErr) {
		progress(tracker.Finish())
	}
	return outcome, nil
}

// processExited reports whether the child actually ran to completion, as
// opposed to failing to start at all.
func processExited(err error) bool {
	if err == nil {
		return true
	}
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, workDir string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Dir = workDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			onLine(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
