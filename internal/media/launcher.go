// Package media opens article images and pages in external programs.
package media

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pders01/gazette/internal/config"
	"github.com/pders01/gazette/internal/debuglog"
)

var ErrNoTarget = errors.New("nothing to open")

type Launcher struct {
	imageViewer   string
	defaultOpener string
	registry      *ViewerRegistry
	detector      *TypeDetector

	lookPath func(string) (string, error)
	start    func(*exec.Cmd) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	return newLauncher(cfg, UserViewerPaths, exec.LookPath)
}

func newLauncher(cfg *config.Config, userPaths []string, lookPath func(string) (string, error)) *Launcher {
	viewers, err := loadViewers(userPaths)
	if err != nil {
		// Continue with the platform opener only
		debuglog.Warnf("viewer table unavailable: %v", err)
		viewers = &ViewersConfig{}
	}

	l := &Launcher{
		registry: &ViewerRegistry{viewers: viewers.Viewers},
		detector: newTypeDetector(viewers),
		lookPath: lookPath,
		start:    startDetached,
	}

	var candidates []string
	if cfg != nil {
		l.defaultOpener = cfg.Media.DefaultOpener
		switch runtime.GOOS {
		case "darwin":
			candidates = cfg.Media.Darwin
		case "linux":
			candidates = cfg.Media.Linux
		case "windows":
			candidates = cfg.Media.Windows
		default:
			candidates = cfg.Media.Darwin
		}
	}
	if l.defaultOpener == "" {
		l.defaultOpener = l.detector.DefaultOpener()
	}

	l.imageViewer = l.findCommand(candidates...)
	if l.imageViewer == "" {
		l.imageViewer = l.defaultOpener
	}
	return l
}

// Command builds the command that would open target.
func (l *Launcher) Command(target string) (*exec.Cmd, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, ErrNoTarget
	}
	if !isURL(target) {
		target = config.ExpandPath(target)
	}

	t := l.detector.DetectType(target)
	name := l.defaultOpener
	if t == TypeImage {
		name = l.imageViewer
	}
	if name == "" {
		return nil, fmt.Errorf("no application found to open %s", target)
	}

	cmd, err := l.registry.Command(name, t, target)
	if err != nil {
		debuglog.Debugf("viewer %s: %v, falling back to %s", name, err, l.defaultOpener)
		cmd = exec.Command(l.defaultOpener, target)
	}
	return cmd, nil
}

// Open starts the viewer for target without waiting for it.
func (l *Launcher) Open(target string) error {
	cmd, err := l.Command(target)
	if err != nil {
		return err
	}
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}
	return nil
}

func (l *Launcher) findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := l.lookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
