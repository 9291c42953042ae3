// Package qrcode renders PNG QR codes, used for the upsell link shown to
// users who open the Mini App without a subscription.
package qrcode

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyContent   = errors.New("qrcode: content is empty")
	ErrGenerateFailed = errors.New("qrcode: generation failed")
)

const (
	DefaultSize = 256
	MaxSize     = 1024
)

// Generate encodes content as a size x size PNG with medium error recovery.
// A non-positive size means DefaultSize; sizes above MaxSize are capped.
func Generate(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	switch {
	case size <= 0:
		size = DefaultSize
	case size > MaxSize:
		size = MaxSize
	}
	png, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrGenerateFailed, err)
	}
	return png, nil
}

// Handler serves the PNG for a fixed content. The image is rendered once on
// first request and reused.
type Handler struct {
	content string
	size    int

	once sync.Once
	png  []byte
	err  error
}

// NewHandler returns a handler serving content as a PNG QR code of size pixels.
// The image is rendered once, on first request.
func NewHandler(content string, size int) *Handler {
	return &Handler{content: content, size: size}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.once.Do(func() {
		h.png, h.err = Generate(h.content, h.size)
	})
	if h.err != nil {
		status := http.StatusInternalServerError
		if errors.Is(h.err, ErrEmptyContent) {
			status = http.StatusNotFound
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(h.png)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(h.png)
	}
}
