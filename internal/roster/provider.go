package roster

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Provider serves the current roster and can reload it when the backing file changes.
type Provider struct {
	path    string
	current atomic.Pointer[Roster]
	logger  *slog.Logger

	// onReload is called after every successful reload.
	onReload func(*Roster)
}

// ProviderConfig configures a Provider.
type ProviderConfig struct {
	Path     string
	Logger   *slog.Logger
	OnReload func(*Roster)
}

// NewProvider loads the roster file once and returns a provider serving it.
func NewProvider(config ProviderConfig) (*Provider, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("roster path is required")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	r, err := LoadFile(config.Path)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		path:     config.Path,
		logger:   config.Logger,
		onReload: config.OnReload,
	}
	p.current.Store(r)
	return p, nil
}

// StaticProvider wraps an already-built roster. Watch is a no-op for it.
func StaticProvider(r *Roster) *Provider {
	p := &Provider{logger: slog.Default()}
	p.current.Store(r)
	return p
}

// Current returns the roster in effect right now.
func (p *Provider) Current() *Roster {
	return p.current.Load()
}

// Reload re-reads the roster file. On failure the previous roster stays in place.
func (p *Provider) Reload() error {
	if p.path == "" {
		return nil
	}

	r, err := LoadFile(p.path)
	if err != nil {
		return err
	}

	p.current.Store(r)
	p.logger.Info("roster reloaded", "path", p.path, "characters", r.Len())
	if p.onReload != nil {
		p.onReload(r)
	}
	return nil
}

// Watch reloads the roster whenever its file is written or replaced, until ctx is done.
// The parent directory is watched so editors that save via rename are picked up.
func (p *Provider) Watch(ctx context.Context) error {
	if p.path == "" {
		<-ctx.Done()
		return ctx.Err()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(p.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch roster directory: %w", err)
	}

	target := filepath.Clean(p.path)

	// Writes often arrive as bursts; settle before re-reading.
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.After(50 * time.Millisecond)
			}
		case <-pending:
			pending = nil
			if err := p.Reload(); err != nil {
				p.logger.Warn("roster reload failed, keeping previous roster", "path", p.path, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Warn("roster watcher error", "error", err)
		}
	}
}
