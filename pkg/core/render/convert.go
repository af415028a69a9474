package render

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/matzehuels/stitchgrid/pkg/errors"
)

const (
	rsvgBinary = "rsvg-convert"

	// convertTimeout bounds one conversion. Large patterns take well under a
	// second.
	convertTimeout = 30 * time.Second
)

// ToPDF converts an SVG document to PDF with rsvg-convert. Without the tool
// it fails with an UNSUPPORTED error naming the package to install.
func ToPDF(svg []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), convertTimeout)
	defer cancel()
	return convert(ctx, svg, "pdf")
}

func convert(ctx context.Context, svg []byte, format string) ([]byte, error) {
	if !Available() {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s output needs %s from librsvg (brew install librsvg, apt install librsvg2-bin)", format, rsvgBinary)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, rsvgBinary, "--format", format)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", rsvgBinary, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Available reports whether rsvg-convert is on the PATH.
func Available() bool {
	_, err := exec.LookPath(rsvgBinary)
	return err == nil
}
