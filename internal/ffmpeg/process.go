package ffmpeg

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"time"
)

// interruptGrace is how long a process gets to exit cleanly after an
// interrupt before it is killed outright.
const interruptGrace = 1 * time.Second

// Outcome reports how a watched process run ended. When TimedOut is set the
// exit code is meaningless; Stderr holds whatever the process wrote before
// it was terminated.
type Outcome struct {
	TimedOut bool
	ExitCode int
	Stderr   string
}

// Handle is a started external process. It exists so callers never touch
// signal plumbing: the only ways to finish are Wait and WaitTimeout, and the
// timeout path owns the graceful-then-forceful termination sequence.
type Handle struct {
	cmd    *exec.Cmd
	stderr bytes.Buffer
	done   chan error
}

// Start launches bin with args, capturing stderr. The returned Handle must
// be finished with Wait or WaitTimeout or the process leaks.
func Start(ctx context.Context, bin string, args ...string) (*Handle, error) {
	h := &Handle{
		cmd:  exec.CommandContext(ctx, bin, args...),
		done: make(chan error, 1),
	}
	h.cmd.Stderr = &h.stderr
	h.cmd.Stdin = nil
	if err := h.cmd.Start(); err != nil {
		return nil, err
	}
	go func() { h.done <- h.cmd.Wait() }()
	return h, nil
}

// Wait blocks until the process exits on its own.
func (h *Handle) Wait() Outcome {
	err := <-h.done
	return Outcome{ExitCode: exitCode(err), Stderr: h.stderr.String()}
}

// WaitTimeout blocks until the process exits or the budget elapses. On
// timeout the process is interrupted, granted interruptGrace to exit
// cleanly, then killed.
func (h *Handle) WaitTimeout(budget time.Duration) Outcome {
	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case err := <-h.done:
		return Outcome{ExitCode: exitCode(err), Stderr: h.stderr.String()}
	case <-timer.C:
	}

	h.cmd.Process.Signal(os.Interrupt)
	grace := time.NewTimer(interruptGrace)
	defer grace.Stop()
	select {
	case <-h.done:
	case <-grace.C:
		h.cmd.Process.Kill()
		<-h.done
	}
	return Outcome{TimedOut: true, Stderr: h.stderr.String()}
}

// Run is the no-watchdog convenience: start and wait.
func Run(ctx context.Context, bin string, args ...string) (Outcome, error) {
	h, err := Start(ctx, bin, args...)
	if err != nil {
		return Outcome{}, err
	}
	return h.Wait(), nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if ee, ok := err.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	return -1
}
