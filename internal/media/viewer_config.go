package media

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/gazette/internal/config"
	"github.com/pders01/gazette/internal/debuglog"
)

//go:embed viewers.toml
var viewersTOML []byte

// UserViewerPaths are merged over the built-in table, later files
// winning.
var UserViewerPaths = []string{
	"~/.config/gazette/viewers.toml",
	"./viewers.toml",
}

// ViewerDefinition defines how a viewer should be invoked.
type ViewerDefinition struct {
	Description string      `toml:"description"`
	Platforms   []string    `toml:"platforms"`
	Image       *ArgsConfig `toml:"image,omitempty"`
	Page        *ArgsConfig `toml:"page,omitempty"`
}

type ArgsConfig struct {
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
}

type ViewersConfig struct {
	Types     map[string]TypeConfig       `toml:"types"`
	Platforms map[string]PlatformConfig   `toml:"platforms"`
	Viewers   map[string]ViewerDefinition `toml:"viewers"`
}

// ParseViewers decodes a viewers table.
func ParseViewers(data []byte) (*ViewersConfig, error) {
	var cfg ViewersConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing viewers table: %w", err)
	}
	return &cfg, nil
}

// loadViewers parses the embedded table and merges user files over it.
func loadViewers(paths []string) (*ViewersConfig, error) {
	cfg, err := ParseViewers(viewersTOML)
	if err != nil {
		return nil, err
	}
	if cfg.Viewers == nil {
		cfg.Viewers = map[string]ViewerDefinition{}
	}

	for _, p := range paths {
		data, err := os.ReadFile(config.ExpandPath(p))
		if err != nil {
			continue
		}
		user, err := ParseViewers(data)
		if err != nil {
			debuglog.Warnf("ignoring %s: %v", p, err)
			continue
		}
		for name, def := range user.Viewers {
			cfg.Viewers[name] = def
		}
	}
	return cfg, nil
}

// ViewerRegistry builds commands from viewer definitions.
type ViewerRegistry struct {
	viewers map[string]ViewerDefinition
}

// Command builds the command for a viewer and target type. Unknown
// viewers are run with the target as their only argument.
func (r *ViewerRegistry) Command(name string, t Type, target string) (*exec.Cmd, error) {
	def, ok := r.viewers[name]
	if !ok {
		return exec.Command(name, target), nil
	}

	supported := false
	for _, p := range def.Platforms {
		if p == runtime.GOOS {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("%s not supported on %s", name, runtime.GOOS)
	}

	var ac *ArgsConfig
	switch t {
	case TypeImage:
		ac = def.Image
	case TypePage:
		ac = def.Page
	}
	if ac == nil {
		return nil, fmt.Errorf("%s cannot open %s targets", name, t)
	}

	args := append(append([]string{}, ac.platformArgs()...), target)
	// start is a cmd builtin, not an executable
	if name == "start" {
		return exec.Command("cmd", args...), nil
	}
	return exec.Command(name, args...), nil
}

func (a *ArgsConfig) platformArgs() []string {
	switch runtime.GOOS {
	case "darwin":
		if len(a.ArgsDarwin) > 0 {
			return a.ArgsDarwin
		}
	case "linux":
		if len(a.ArgsLinux) > 0 {
			return a.ArgsLinux
		}
	case "windows":
		if len(a.ArgsWindows) > 0 {
			return a.ArgsWindows
		}
	}
	return a.Args
}
