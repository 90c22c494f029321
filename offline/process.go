package offline

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// ErrWorkerClosed is returned once the worker process has exited or been
// killed.
var ErrWorkerClosed = errors.New("offline worker is not running")

type scoreRequest struct {
	Source []string `json:"source"`
	Prefix []string `json:"prefix"`
	K      int      `json:"k"`
}

type scoreResponse struct {
	Candidates []Candidate `json:"candidates"`
	Error      string      `json:"error,omitempty"`
}

// ProcessScorer runs the sequence model as one long-lived worker process and
// exchanges one JSON line per request over its stdin and stdout. Requests
// are serialized. A request abandoned by its context kills the worker, since
// its reply would otherwise be read by the next caller.
type ProcessScorer struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	mu     sync.Mutex
	closed bool
}

// StartProcessScorer launches the worker command.
func StartProcessScorer(name string, args ...string) (*ProcessScorer, error) {
	cmd := exec.Command(name, args...) // #nosec G204 - worker command is operator configured
	return startProcess(cmd)
}

func startProcess(cmd *exec.Cmd) (*ProcessScorer, error) {
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("worker stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("worker stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting worker: %w", err)
	}

	return &ProcessScorer{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReaderSize(stdout, 64*1024),
	}, nil
}

// Next implements Scorer.
func (p *ProcessScorer) Next(ctx context.Context, source, prefix []string, k int) ([]Candidate, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrWorkerClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if prefix == nil {
		prefix = []string{}
	}
	line, err := json.Marshal(scoreRequest{Source: source, Prefix: prefix, K: k})
	if err != nil {
		return nil, err
	}
	if _, err := p.stdin.Write(append(line, '\n')); err != nil {
		p.kill()
		return nil, fmt.Errorf("writing to worker: %w", err)
	}

	type reply struct {
		line []byte
		err  error
	}
	done := make(chan reply, 1)
	go func() {
		l, err := p.stdout.ReadBytes('\n')
		done <- reply{l, err}
	}()

	var r reply
	select {
	case r = <-done:
	case <-ctx.Done():
		p.kill()
		<-done
		return nil, ctx.Err()
	}

	if r.err != nil {
		p.kill()
		return nil, fmt.Errorf("reading from worker: %w", r.err)
	}

	var resp scoreResponse
	if err := json.Unmarshal(r.line, &resp); err != nil {
		return nil, fmt.Errorf("decoding worker reply: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("worker: %s", resp.Error)
	}

	return resp.Candidates, nil
}

// kill must be called with p.mu held.
func (p *ProcessScorer) kill() {
	if p.closed {
		return
	}
	p.closed = true
	p.stdin.Close()
	if p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	p.cmd.Wait()
}

// Close stops the worker.
func (p *ProcessScorer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	p.stdin.Close()
	if err := p.cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return err
	}
	return nil
}

var _ Scorer = (*ProcessScorer)(nil)
