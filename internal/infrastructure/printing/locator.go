package printing

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
)

// LocatorConfig contains configuration for engine resolution
type LocatorConfig struct {
	// OverridePath is an operator-supplied executable path. It is trusted
	// as-is and returned without an existence check.
	OverridePath string
	// Env is the deployment environment; "production" prefers the managed
	// resolver over well-known install locations.
	Env string
	// Logger for resolution diagnostics
	Logger *zap.Logger
}

// EngineLocator resolves the rendering-engine executable to launch. It only
// reads the environment and probes the file system; it never starts a
// process. The path is resolved fresh on every call since overrides and
// platform layout can change between requests.
type EngineLocator struct {
	config LocatorConfig
	logger *zap.Logger

	// stat and lookPath are swappable for tests
	stat     func(string) (os.FileInfo, error)
	lookPath func(string) (string, error)
}

// NewEngineLocator creates a new EngineLocator
func NewEngineLocator(config LocatorConfig) *EngineLocator {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EngineLocator{
		config:   config,
		logger:   logger,
		stat:     os.Stat,
		lookPath: exec.LookPath,
	}
}

// managedEngineNames are the binary names the managed resolver searches for
// in PATH, most specific first.
var managedEngineNames = []string{
	"headless-shell",
	"headless_shell",
	"google-chrome-stable",
	"google-chrome",
	"chromium-browser",
	"chromium",
	"chrome",
}

// Resolve returns a usable executable path, or an ENGINE_NOT_FOUND render
// error when no engine is available anywhere.
func (l *EngineLocator) Resolve() (string, error) {
	if l.config.OverridePath != "" {
		return l.config.OverridePath, nil
	}

	if l.config.Env == "production" {
		if path, err := l.managed(); err == nil {
			return path, nil
		}
	}

	for _, candidate := range knownInstallPaths() {
		if _, err := l.stat(candidate); err == nil {
			l.logger.Debug("rendering engine found", zap.String("path", candidate))
			return candidate, nil
		}
	}

	// Last resort: the managed resolver also answers outside production.
	// That can mask a missing local install in development, so it is loud.
	path, err := l.managed()
	if err != nil {
		return "", NewRenderError(ErrCodeEngineNotFound, "no rendering engine available", err)
	}
	if l.config.Env != "production" {
		l.logger.Warn("no engine at well-known install locations, using managed resolver",
			zap.String("path", path))
	}
	return path, nil
}

// managed searches PATH for a known engine binary name
func (l *EngineLocator) managed() (string, error) {
	var lastErr error
	for _, name := range managedEngineNames {
		path, err := l.lookPath(name)
		if err == nil {
			return path, nil
		}
		lastErr = err
	}
	return "", lastErr
}

// knownInstallPaths returns the ordered well-known install locations for the
// current platform.
func knownInstallPaths() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
		}
	case "windows":
		paths := []string{
			filepath.Join(os.Getenv("ProgramFiles"), `Google\Chrome\Application\chrome.exe`),
			filepath.Join(os.Getenv("ProgramFiles(x86)"), `Google\Chrome\Application\chrome.exe`),
		}
		if local := os.Getenv("LocalAppData"); local != "" {
			paths = append(paths, filepath.Join(local, `Google\Chrome\Application\chrome.exe`))
		}
		return paths
	default:
		return []string{
			"/usr/bin/google-chrome-stable",
			"/usr/bin/google-chrome",
			"/usr/bin/chromium-browser",
			"/usr/bin/chromium",
			"/snap/bin/chromium",
		}
	}
}
