package sentence

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/shadowdrill/utils"
)

// Load reads and parses a sentence file. src is a local path, "-" for stdin,
// or an http(s) URL.
func Load(ctx context.Context, src string) ([]Sentence, error) {
	r, err := open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer r.Close() //nolint:errcheck

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read sentences: %w", err)
	}

	sentences := Parse(string(b))
	log.Debug("loaded sentences", "src", src, "count", len(sentences))
	return sentences, nil
}

func open(ctx context.Context, src string) (io.ReadCloser, error) {
	switch {
	case src == "-":
		return io.NopCloser(os.Stdin), nil

	case utils.IsURL(src):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, fmt.Errorf("unable to build request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("unable to get url: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("HTTP status %d", resp.StatusCode)
		}
		return resp.Body, nil

	default:
		f, err := os.Open(utils.ExpandPath(src))
		if err != nil {
			return nil, fmt.Errorf("unable to open file: %w", err)
		}
		return f, nil
	}
}
