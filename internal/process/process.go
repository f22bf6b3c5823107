// Package process inspects and signals local Go processes.
package process

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/google/gops/goprocess"
)

// Process describes a running Go process
type Process struct {
	PID  int
	PPID int
	Exec string
	Path string
}

// Table is a snapshot of the Go processes on this host
type Table struct {
	procs []Process
}

// List takes a snapshot of running Go processes
func List() *Table {
	found := goprocess.FindAll()

	t := &Table{procs: make([]Process, 0, len(found))}
	for _, p := range found {
		t.procs = append(t.procs, Process{PID: p.PID, PPID: p.PPID, Exec: p.Exec, Path: p.Path})
	}

	return t
}

// Len returns the number of processes in the snapshot
func (t *Table) Len() int {
	return len(t.procs)
}

// Find returns the process with pid
func (t *Table) Find(pid int) (Process, bool) {
	for _, p := range t.procs {
		if p.PID == pid {
			return p, true
		}
	}

	return Process{}, false
}

// IsRunning reports whether a Go process with pid is alive
func IsRunning(pid int) bool {
	if pid <= 0 {
		return false
	}

	_, ok := List().Find(pid)

	return ok
}

// Terminate asks the process to stop: SIGTERM on Unix, taskkill on Windows
func Terminate(pid int) error {
	if runtime.GOOS == "windows" {
		return exec.Command("taskkill", "/PID", strconv.Itoa(pid), "/F").Run()
	}

	p, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	return p.Signal(syscall.SIGTERM)
}

// WaitForExit polls until pid is gone or timeout elapses
func WaitForExit(ctx context.Context, pid int, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if !IsRunning(pid) {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("process %d still running after %v", pid, timeout)
		case <-ticker.C:
		}
	}
}
