package dictation

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// FileSource is an AudioSource that replays a recorded audio file. It
// stands in for live microphone capture in the terminal client.
type FileSource struct {
	Path string
}

func (f FileSource) Record(_ context.Context) (io.ReadCloser, string, error) {
	r, err := os.Open(f.Path)
	if err != nil {
		return nil, "", err
	}
	return r, filepath.Base(f.Path), nil
}
