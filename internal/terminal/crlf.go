package terminal

import (
	"bytes"
	"io"
)

// CRLFWriter translates "\n" into "\r\n". Raw mode disables output
// post-processing, so bare line feeds would not return the cursor.
type CRLFWriter struct {
	w io.Writer
}

// NewCRLFWriter wraps w
func NewCRLFWriter(w io.Writer) *CRLFWriter {
	return &CRLFWriter{w: w}
}

// Write implements io.Writer. It reports len(p) on success.
func (c *CRLFWriter) Write(p []byte) (int, error) {
	normalized := bytes.ReplaceAll(p, []byte("\r\n"), []byte("\n"))
	converted := bytes.ReplaceAll(normalized, []byte("\n"), []byte("\r\n"))
	if _, err := c.w.Write(converted); err != nil {
		return 0, err
	}
	return len(p), nil
}
