package pdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Info summarizes a PDF container without reading its text.
type Info struct {
	Path      string `json:"path"`
	Pages     int    `json:"pages"`
	Version   string `json:"version"`
	Encrypted bool   `json:"encrypted"`
	Size      int64  `json:"size"`
}

// Inspect reads the container with pdfcpu in relaxed validation mode.
func (r *Reader) Inspect(path string) (*Info, error) {
	if err := r.ValidatePath(path); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, invalidPath(path, "inspect", fmt.Errorf("failed to open file: %w", err))
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, invalidPath(path, "inspect", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return nil, invalidDocument(path, "inspect", fmt.Errorf("failed to read PDF context: %w", err))
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, invalidDocument(path, "inspect", fmt.Errorf("failed to ensure page count: %w", err))
	}

	info := &Info{
		Path:      path,
		Pages:     ctx.PageCount,
		Encrypted: ctx.Encrypt != nil,
		Size:      stat.Size(),
	}
	if ctx.HeaderVersion != nil {
		info.Version = ctx.HeaderVersion.String()
	}
	return info, nil
}
