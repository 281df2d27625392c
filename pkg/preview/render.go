package preview

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/nodecanvas/pkg/errors"
)

// Format is an output format.
type Format string

const (
	FormatSVG    Format = "svg"
	FormatPNG    Format = "png"
	FormatDOT    Format = "dot"
	FormatDOTSVG Format = "dot.svg"
)

// Formats lists every supported format.
var Formats = []Format{FormatSVG, FormatPNG, FormatDOT, FormatDOTSVG}

// ParseFormats parses a comma-separated format list such as "svg,png".
// Duplicates are dropped; an empty list means svg.
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" {
			continue
		}
		if !slices.Contains(Formats, f) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (supported: svg, png, dot, dot.svg)", f)
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		out = []Format{FormatSVG}
	}
	return out, nil
}

// Render draws the scene in every requested format concurrently. The first
// failure cancels the rest.
func Render(ctx context.Context, s *Scene, formats []Format) (map[Format][]byte, error) {
	var mu sync.Mutex
	out := make(map[Format][]byte, len(formats))

	g, ctx := errgroup.WithContext(ctx)
	for _, f := range formats {
		g.Go(func() error {
			data, err := renderOne(ctx, s, f)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "render %s", f)
			}
			mu.Lock()
			out[f] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func renderOne(ctx context.Context, s *Scene, f Format) ([]byte, error) {
	switch f {
	case FormatSVG:
		return RenderSVG(s), nil
	case FormatPNG:
		var buf bytes.Buffer
		if err := RenderPNG(s, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(ToDOT(s)), nil
	case FormatDOTSVG:
		return RenderDOT(ctx, ToDOT(s))
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "format %q", f)
	}
}
