package pdfparser

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"fjacquet/techpack-csv/internal/parsererror"
)

// Info describes a validated PDF.
type Info struct {
	Pages int
	Size  int64
}

// Inspect validates the PDF at path and reports its page count.
func Inspect(path string) (Info, error) {
	f, err := os.Open(path) // #nosec G304 -- see NativeExtractor.ExtractText
	if err != nil {
		return Info{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Info{}, fmt.Errorf("stat %s: %w", path, err)
	}
	info, err := InspectReader(path, f)
	info.Size = st.Size()
	return info, err
}

// InspectBytes is Inspect for an in-memory upload. name is used in errors only.
func InspectBytes(name string, data []byte) (Info, error) {
	info, err := InspectReader(name, bytes.NewReader(data))
	info.Size = int64(len(data))
	return info, err
}

// InspectReader checks the %PDF header and lets pdfcpu read and validate the
// cross-reference structure.
func InspectReader(name string, rs io.ReadSeeker) (Info, error) {
	head := make([]byte, 8)
	n, _ := io.ReadFull(rs, head)
	if err := validateMagic(name, head[:n]); err != nil {
		return Info{}, err
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return Info{}, fmt.Errorf("rewind %s: %w", name, err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(rs, conf)
	if err != nil {
		return Info{}, &parsererror.InvalidFormatError{
			FilePath:       name,
			ExpectedFormat: "PDF",
			Msg:            fmt.Sprintf("pdfcpu read: %v", err),
		}
	}
	return Info{Pages: ctx.PageCount}, nil
}
