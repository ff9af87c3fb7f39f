// Package app is the process-wide facade: factory registration,
// application directories, and the public Window/Option surface. It
// owns no platform code itself; internal/wm supplies the Display,
// Driver and Context a concrete backend build links in.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ruisapp-go/ruisapp/event"
	"github.com/ruisapp-go/ruisapp/internal/wm"
)

// Updater is the opaque "GUI context" this layer drives but never
// interprets (spec §1). One Updater is installed per window at
// creation time.
type Updater interface {
	event.Sink

	// Update advances application/widget state and reports how long the
	// event loop may wait before calling Update again. A return of 0
	// means "call again immediately, without waiting for an event".
	Update() time.Duration

	// Render is called with the window's context already bound; it must
	// not swap buffers itself.
	Render()

	// SetViewport reports the window's latest, already-coalesced,
	// content-area size.
	SetViewport(size event.Vec2)
}

// Factory builds the single process-wide Application. A nil return
// with a nil error means "no GUI, exit 0" (spec §6).
type Factory func(exeName string, args []string) (*Application, error)

var (
	factoryMu       sync.Mutex
	factory         Factory
	factoryRegistered bool
)

// RegisterFactory installs the process's one and only Factory. Calling
// it twice is a programmer error and panics immediately, matching the
// source's FactoryAlreadyRegistered fatal-at-static-init semantics
// (spec §7) since Go has no static-init error-return equivalent.
func RegisterFactory(f Factory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	if factoryRegistered {
		panic("app: RegisterFactory called twice")
	}
	factory = f
	factoryRegistered = true
}

// Application is the process-wide singleton of spec §3/§9: it owns the
// backend Display, the shared root context, the window map, and the
// quit flag. Construct one only through a registered Factory, via Main.
type Application struct {
	name  string
	disp  wm.Display
	dirs  wm.Directories
	root  wm.Context // shared-context graph root, per spec §3
	quit  atomic.Bool

	mu      sync.Mutex
	windows map[wm.WindowID]*Window
	toClose []*Window
}

// New constructs the glue a Factory calls into: it opens the backend
// display connection and computes the application directories. It
// creates no shared root context; on every backend the context of the
// first window made by MakeWindow becomes the root.
func New(name string) (*Application, error) {
	disp, err := newDisplay()
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	dirs, err := computeDirectories(name)
	if err != nil {
		disp.Close()
		return nil, fmt.Errorf("app: %w", err)
	}
	return &Application{
		name:    name,
		disp:    disp,
		dirs:    dirs,
		windows: make(map[wm.WindowID]*Window),
	}, nil
}

// Directories reports the three XDG-derived application directories
// (spec §3, §6). They are not created by this layer.
func (a *Application) Directories() wm.Directories {
	return a.dirs
}

// Quit requests loop termination (spec §5, §9). Safe from any thread;
// typically called via a task posted through PostToUIThread.
func (a *Application) Quit() {
	a.quit.Store(true)
}

func (a *Application) shouldQuit() bool {
	return a.quit.Load()
}

// PostToUIThread enqueues f for execution on the UI thread (spec §4.5,
// §9 "Coroutines / deferred work"). Safe from any goroutine.
func (a *Application) PostToUIThread(f func()) {
	a.disp.Queue().Post(f)
}

// Main resolves the registered Factory, invokes it exactly once, and
// (on success) runs the event loop to completion. It never returns
// except by process exit semantics mirrored in its error return: the
// caller's main package should os.Exit(1) on a non-nil error and
// os.Exit(0) otherwise (spec §6, "Exit codes").
func Main() error {
	factoryMu.Lock()
	f := factory
	factoryMu.Unlock()
	if f == nil {
		return errors.New("app: Main called before RegisterFactory")
	}
	exe := os.Args[0]
	var args []string
	if len(os.Args) > 1 {
		args = os.Args[1:]
	}
	a, err := f(filepath.Base(exe), args)
	if err != nil {
		return fmt.Errorf("app: factory: %w", err)
	}
	if a == nil {
		return nil // no-GUI factory result; exit 0.
	}
	defer a.disp.Close()
	return a.run()
}

// computeDirectories implements spec §6's directory layout using HOME
// and the three optional XDG_*_HOME overrides. HOME's absence is
// fatal, matching the source.
func computeDirectories(appName string) (wm.Directories, error) {
	home := os.Getenv("HOME")
	if home == "" {
		return wm.Directories{}, errors.New("HOME is not set")
	}
	base := func(envVar, fallback string) string {
		if v := os.Getenv(envVar); v != "" {
			return v
		}
		return filepath.Join(home, fallback)
	}
	cache := base("XDG_CACHE_HOME", ".cache")
	config := base("XDG_CONFIG_HOME", ".config")
	state := base("XDG_STATE_HOME", filepath.Join(".local", "state"))
	return wm.Directories{
		Cache:  filepath.Join(cache, appName),
		Config: filepath.Join(config, appName),
		State:  filepath.Join(state, appName),
	}, nil
}
