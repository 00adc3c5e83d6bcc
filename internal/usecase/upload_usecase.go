package usecase

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

var allowedImageExt = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

// 画像の保存先（ローカルディスクなど）
type ImageStore interface {
	Save(ctx context.Context, name string, data []byte) error
	URL(name string) string
}

// デコード前に弾く画素数の上限（幅×高さ）
const DefaultMaxImagePixels int64 = 40_000_000

type UploadUsecase struct {
	store     ImageStore
	maxWidth  uint
	maxPixels int64
	now       Clock
	newID     IDGenerator
}

func NewUploadUsecase(store ImageStore, maxWidth uint) *UploadUsecase {
	return &UploadUsecase{
		store:     store,
		maxWidth:  maxWidth,
		maxPixels: DefaultMaxImagePixels,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// 0以下はデフォルトのまま
func (u *UploadUsecase) WithMaxPixels(n int64) *UploadUsecase {
	if n > 0 {
		u.maxPixels = n
	}
	return u
}

// UploadImage はデコード→（幅超過なら）縮小→同じ形式で再エンコードして保存し、公開URLを返す。
func (u *UploadUsecase) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", validationError("no filename")
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !allowedImageExt[ext] {
		return "", validationError("file extension not allowed")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", validationError("could not read image")
	}

	// ヘッダの寸法だけ先に読み、巨大な画像はデコード（メモリ確保）前に弾く
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", validationError("invalid image")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width) > u.maxPixels/int64(cfg.Height) {
		return "", validationError("image dimensions too large")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", validationError("invalid image")
	}

	if u.maxWidth > 0 && uint(img.Bounds().Dx()) > u.maxWidth {
		img = resize.Resize(u.maxWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := encodeImage(&buf, img, format); err != nil {
		return "", WrapHTTPError(http.StatusInternalServerError, "internal error", err)
	}

	name := fmt.Sprintf("%d_%s.%s", u.now().Unix(), u.newID(), formatExt(format))
	if err := u.store.Save(ctx, name, buf.Bytes()); err != nil {
		return "", storageError(err)
	}
	return u.store.URL(name), nil
}

// 保存名の拡張子は中身の形式に合わせる
func formatExt(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}

// 拡張子ではなく実際のフォーマットで書き戻す
func encodeImage(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "gif":
		return gif.Encode(w, img, nil)
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 85})
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}
