package notify

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/zhengda-lu/scanmenu/internal/launcher"
)

const defaultTimeout = 5 * time.Second

// Notifier shows a user-visible message through the desktop.
type Notifier interface {
	Notify(title, message string) error
}

// Nop drops every notification.
type Nop struct{}

// Notify discards the message.
func (Nop) Notify(string, string) error { return nil }

// Desktop sends notifications with notify-send on Linux and osascript on
// macOS. The helper is started detached, so Notify returns as soon as it
// has been spawned.
type Desktop struct {
	AppName string
	Icon    string
	// Timeout is how long the notification stays on screen where the
	// platform supports it.
	Timeout time.Duration
	Spawner launcher.Spawner

	goos string
}

// NewDesktop returns a Desktop notifier for the running platform.
func NewDesktop(appName, icon string) *Desktop {
	return &Desktop{AppName: appName, Icon: icon, Timeout: defaultTimeout, Spawner: launcher.ExecSpawner{}}
}

// Command returns the program and arguments used to display a notification.
func (d *Desktop) Command(title, message string) (string, []string, error) {
	goos := d.goos
	if goos == "" {
		goos = runtime.GOOS
	}

	switch goos {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		return "osascript", []string{"-e", script}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		args := []string{}
		if d.AppName != "" {
			args = append(args, "--app-name="+d.AppName)
		}
		if d.Icon != "" {
			args = append(args, "--icon="+d.Icon)
		}
		timeout := d.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		args = append(args, "--expire-time="+strconv.FormatInt(timeout.Milliseconds(), 10))
		args = append(args, "--", title, message)
		return "notify-send", args, nil
	default:
		return "", nil, fmt.Errorf("notifications are not supported on %s", goos)
	}
}

// Notify starts the platform notification helper without waiting for it.
func (d *Desktop) Notify(title, message string) error {
	name, args, err := d.Command(title, message)
	if err != nil {
		return err
	}

	spawner := d.Spawner
	if spawner == nil {
		spawner = launcher.ExecSpawner{}
	}
	if err := spawner.Spawn(name, args...); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
