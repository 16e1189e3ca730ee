package ai

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Límites del preprocesado de comprobantes.
const (
	receiptMaxSide     = 1600
	receiptJPEGQuality = 85
)

// PrepareReceiptImage reduce la imagen a receiptMaxSide px por lado, corrige la orientación EXIF y
// resalta el texto. Formatos que imaging no decodifica (webp, pdf) se envían tal cual.
func PrepareReceiptImage(raw []byte, mimeType string) ([]byte, string, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return raw, mimeType, nil
	}
	b := img.Bounds()
	if b.Dx() > receiptMaxSide || b.Dy() > receiptMaxSide {
		img = imaging.Fit(img, receiptMaxSide, receiptMaxSide, imaging.Lanczos)
	}
	proc := imaging.AdjustContrast(img, 15)
	proc = imaging.Sharpen(proc, 0.7)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, proc, imaging.JPEG, imaging.JPEGQuality(receiptJPEGQuality)); err != nil {
		return nil, "", fmt.Errorf("AI: codificar comprobante: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
