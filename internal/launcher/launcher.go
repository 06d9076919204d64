package launcher

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"

	"github.com/alessio/shellescape"
	"golang.org/x/sys/unix"
)

// DefaultShell interprets the assembled command line.
const DefaultShell = "/bin/sh"

// Spawner starts a process and returns without waiting for it.
type Spawner interface {
	Spawn(name string, args ...string) error
}

// LaunchFailedError reports that the scanner could not be started.
type LaunchFailedError struct {
	Binary string
	Err    error
}

func (e *LaunchFailedError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Binary, e.Err)
}

func (e *LaunchFailedError) Unwrap() error {
	return e.Err
}

// ExecSpawner starts commands in their own session with no stdio attached
// and releases them immediately.
type ExecSpawner struct{}

// Spawn starts name with args and returns once the process exists.
func (ExecSpawner) Spawn(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// Invoker runs the external scanner against one escaped path argument.
type Invoker struct {
	Binary  string
	Args    []string
	Shell   string
	Spawner Spawner

	lookPath func(string) (string, error)
}

// New returns an Invoker that spawns real processes.
func New(binary string, args []string, shell string) *Invoker {
	return &Invoker{
		Binary:  binary,
		Args:    args,
		Shell:   shell,
		Spawner: ExecSpawner{},
	}
}

// Resolve returns the absolute path of the scanner executable.
func (inv *Invoker) Resolve() (string, error) {
	if inv.Binary == "" {
		return "", errors.New("no scanner binary configured")
	}
	if strings.ContainsRune(inv.Binary, '/') {
		if err := unix.Access(inv.Binary, unix.X_OK); err != nil {
			return "", fmt.Errorf("%s is not executable: %w", inv.Binary, err)
		}
		return inv.Binary, nil
	}
	lookPath := inv.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	return lookPath(inv.Binary)
}

// CommandLine assembles the shell command line for an already escaped
// path argument.
func CommandLine(binary string, args []string, quoted string) string {
	words := make([]string, 0, len(args)+2)
	words = append(words, shellescape.Quote(binary))
	for _, a := range args {
		words = append(words, shellescape.Quote(a))
	}
	words = append(words, quoted)
	return strings.Join(words, " ")
}

// Launch starts the scanner with quoted as its final argument. It never
// waits for the scanner and never retries.
func (inv *Invoker) Launch(quoted string) error {
	if quoted == "" {
		return &LaunchFailedError{Binary: inv.Binary, Err: errors.New("empty path argument")}
	}

	bin, err := inv.Resolve()
	if err != nil {
		return &LaunchFailedError{Binary: inv.Binary, Err: err}
	}

	shell := inv.Shell
	if shell == "" {
		shell = DefaultShell
	}
	spawner := inv.Spawner
	if spawner == nil {
		spawner = ExecSpawner{}
	}

	if err := spawner.Spawn(shell, "-c", CommandLine(bin, inv.Args, quoted)); err != nil {
		return &LaunchFailedError{Binary: bin, Err: err}
	}
	return nil
}
