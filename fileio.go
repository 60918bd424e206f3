package skemafile

import (
	"context"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

// OSFileIO returns the default FileIO backed by the operating system. Writes
// go through a temp file and rename so readers never observe a torn file.
func OSFileIO() FileIO { return osFileIO{} }

type osFileIO struct{}

func (osFileIO) ReadText(_ context.Context, path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (osFileIO) WriteText(_ context.Context, path string, text string) error {
	return atomic.WriteFile(path, strings.NewReader(text))
}
