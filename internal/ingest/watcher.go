package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/RahilHalai7/CSI-Hackathon/constants"
)

type WatchConfig struct {
	Roots       []string // directories to watch (recursive)
	AllowedExts map[string]struct{}
	InitialScan bool          // if true, walk roots and emit existing files
	Debounce    time.Duration // coalesce rapid write/rename bursts
}

// StartWatcher emits paths of newly written artifact files under the roots
// until the context is canceled. Subdirectories created later are picked up.
func StartWatcher(ctx context.Context, cfg WatchConfig) (<-chan string, <-chan error, error) {
	if len(cfg.Roots) == 0 {
		return nil, nil, errors.New("no roots provided")
	}
	if cfg.AllowedExts == nil {
		cfg.AllowedExts = constants.AllowedExtensions
	}
	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	addDir := func(root string) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if cfg.InitialScan && allowed(path, cfg.AllowedExts) {
				select {
				case evCh <- path:
				default:
				}
			}
			return nil
		})
	}
	for _, r := range cfg.Roots {
		if err := addDir(r); err != nil {
			_ = w.Close()
			return nil, nil, err
		}
	}

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer w.Close()

		// The debounce timer fires back into this select so the pending
		// map is only ever touched by this goroutine.
		var timer *time.Timer
		var debounced <-chan time.Time
		pending := map[string]struct{}{}

		sendPending := func() {
			for p := range pending {
				select {
				case evCh <- p:
				default:
				}
				delete(pending, p)
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-debounced:
				sendPending()
			case e := <-w.Events:
				if e.Op&fsnotify.Create == fsnotify.Create {
					// New directories start being watched; for files the
					// Add fails and is ignored.
					_ = w.Add(e.Name)
				}
				if allowed(e.Name, cfg.AllowedExts) && (e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename)) != 0 {
					pending[e.Name] = struct{}{}
					if cfg.Debounce > 0 {
						if timer == nil {
							timer = time.NewTimer(cfg.Debounce)
							debounced = timer.C
						} else {
							if !timer.Stop() {
								select {
								case <-timer.C:
								default:
								}
							}
							timer.Reset(cfg.Debounce)
						}
					} else {
						sendPending()
					}
				}
			case werr, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Error("ingest.watcher.error", "error", werr)
				select {
				case errCh <- werr:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}

// Run pumps watcher events into the queue until the context is canceled.
func Run(ctx context.Context, cfg WatchConfig, q *Queue) error {
	evCh, _, err := StartWatcher(ctx, cfg)
	if err != nil {
		return err
	}
	go func() {
		for path := range evCh {
			q.Enqueue(path)
		}
	}()
	return nil
}

func allowed(path string, exts map[string]struct{}) bool {
	_, ok := exts[constants.NormalizeExt(filepath.Ext(path))]
	return ok
}
