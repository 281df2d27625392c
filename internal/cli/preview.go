package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodecanvas/pkg/cache"
	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/graph"
	"github.com/matzehuels/nodecanvas/pkg/preview"
)

// watchDebounce coalesces the burst of events editors emit for one save.
const watchDebounce = 100 * time.Millisecond

// previewTTL bounds how long rendered previews are kept.
const previewTTL = 7 * 24 * time.Hour

type previewOpts struct {
	frameOpts
	formats string
	out     string
	watch   bool
}

func (c *CLI) previewCommand() *cobra.Command {
	var opts previewOpts

	cmd := &cobra.Command{
		Use:   "preview <graph>",
		Short: "Render the laid-out canvas to SVG, PNG or Graphviz",
		Long: `Run frames until the canvas settles and draw the last frame.

Formats:
  svg      vector drawing of the frame
  png      raster drawing of the frame
  dot      Graphviz source with every node pinned at its screen position
  dot.svg  the Graphviz source rendered by neato

With --watch the graph file is re-read whenever it changes. Node state
carries over between reloads, so edits animate like they would in an editor.`,
		Example: `  nodecanvas preview shader.json -f svg,png
  nodecanvas preview shader.yaml --zoom 1.5@640,360 -o out/shader --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "svg", "output formats: svg, png, dot, dot.svg (comma-separated)")
	cmd.Flags().StringVarP(&opts.out, "output", "o", "", "output path prefix (default: graph file name without extension)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the graph file changes")
	return cmd
}

func (c *CLI) runPreview(ctx context.Context, path string, opts previewOpts) error {
	formats, err := preview.ParseFormats(opts.formats)
	if err != nil {
		return err
	}

	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	h, err := c.run(ctx, st, path, opts.frameOpts)
	if err != nil {
		return err
	}

	prefix := opts.out
	if prefix == "" {
		prefix = strings.TrimSuffix(path, filepath.Ext(path))
	}
	if err := writePreviews(ctx, st, h, formats, prefix); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}
	return c.watchPreview(ctx, st, h, path, formats, prefix, opts.save)
}

// writePreviews renders the host's last frame and writes one file per
// format. Renders are looked up in the preview store first.
func writePreviews(ctx context.Context, st *store, h *host, formats []preview.Format, prefix string) error {
	logger := loggerFromContext(ctx)
	scene := h.scene()
	hash := scene.Hash()

	out := make(map[preview.Format][]byte, len(formats))
	var missing []preview.Format
	for _, f := range formats {
		data, ok, err := st.previews.Get(ctx, previewKey(st, hash, scene, f))
		if err != nil {
			logger.Warn("preview cache read failed", "format", f, "err", err)
		}
		if ok {
			out[f] = data
			continue
		}
		missing = append(missing, f)
	}

	if len(missing) > 0 {
		rendered, err := preview.Render(ctx, scene, missing)
		if err != nil {
			return err
		}
		for f, data := range rendered {
			out[f] = data
			if err := st.previews.Set(ctx, previewKey(st, hash, scene, f), data, previewTTL); err != nil {
				logger.Warn("preview cache write failed", "format", f, "err", err)
			}
		}
	}

	printStats(len(scene.Boxes), len(scene.Wires), len(missing) == 0)
	for _, f := range formats {
		file := prefix + "." + string(f)
		if dir := filepath.Dir(file); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "create %s", dir)
			}
		}
		if err := os.WriteFile(file, out[f], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "write %s", file)
		}
		printFile(file)
	}
	return nil
}

func previewKey(st *store, hash string, s *preview.Scene, f preview.Format) string {
	return st.keyer.PreviewKey(hash, cache.PreviewKeyOpts{Format: string(f), Width: s.Width, Height: s.Height})
}

// watchPreview re-renders whenever the graph file is written. The directory
// is watched rather than the file so editors that replace the file on save
// keep being seen.
func (c *CLI) watchPreview(ctx context.Context, st *store, h *host, path string, formats []preview.Format, prefix string, save bool) error {
	logger := loggerFromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	printInfo("Watching %s (ctrl+c to stop)", path)

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			if save {
				return saveSnapshot(context.WithoutCancel(ctx), st, h)
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			pending = true
			debounce.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			if err := reloadPreview(ctx, st, h, path, formats, prefix); err != nil {
				printError("%s", errors.UserMessage(err))
			}
		}
	}
}

func reloadPreview(ctx context.Context, st *store, h *host, path string, formats []preview.Format, prefix string) error {
	doc, err := graph.ReadFile(path)
	if err != nil {
		return err
	}
	h.setDocument(doc)
	prog := newProgress(loggerFromContext(ctx))
	n := h.settle()
	prog.done(fmt.Sprintf("Reloaded %s, settled after %d frames", path, n))
	return writePreviews(ctx, st, h, formats, prefix)
}
