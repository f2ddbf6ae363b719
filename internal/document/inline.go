package document

import (
	"encoding/base64"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type InlinerParams struct {
	fx.In

	Log *zap.Logger
}

// Inliner converts local image references into base64 data URIs.
type Inliner struct {
	log *zap.Logger
}

func NewInliner(p InlinerParams) *Inliner {
	return &Inliner{log: p.Log.Named("document.inliner")}
}

var mimeByExtension = map[string]string{
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// DataURI converts a file path or file:// URI into a data: URI. URIs
// that are already portable (data:, http(s):) pass through unchanged,
// and so does the input when reading fails: a broken image beats a
// failed export.
func (i *Inliner) DataURI(uri string) string {
	switch {
	case strings.HasPrefix(uri, "data:"),
		strings.HasPrefix(uri, "http:"),
		strings.HasPrefix(uri, "https:"):
		return uri
	}

	path := strings.TrimPrefix(uri, "file://")
	raw, err := os.ReadFile(path)
	if err != nil {
		i.log.Warn("inlining image failed, keeping original reference",
			zap.String("uri", uri),
			zap.Error(err),
		)
		return uri
	}

	mimeType, ok := mimeByExtension[strings.ToLower(filepath.Ext(path))]
	if !ok {
		mimeType = http.DetectContentType(raw)
	}

	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(raw)
}
