package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // gif uploads
	_ "image/jpeg" // jpeg uploads
	_ "image/png"  // png uploads
	"net/http"
	"strings"

	_ "golang.org/x/image/bmp"  // bmp uploads
	_ "golang.org/x/image/tiff" // tiff uploads
	_ "golang.org/x/image/webp" // webp uploads from mobile browsers
)

// decodeUpload turns a base64 payload, optionally a data URL, into raw
// bytes, a decoded image and its sniffed content type.
func decodeUpload(data string) ([]byte, image.Image, string, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, nil, "", ErrMissingImage
	}
	if strings.HasPrefix(data, "data:image") {
		if _, payload, ok := strings.Cut(data, ","); ok {
			data = payload
		}
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		// Some clients strip padding.
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(data, "="))
		if err != nil {
			return nil, nil, "", fmt.Errorf("%w: %w", ErrInvalidImage, err)
		}
	}

	img, err := DecodeImage(raw)
	if err != nil {
		return nil, nil, "", err
	}
	return raw, img, http.DetectContentType(raw), nil
}

// DecodeImage decodes raw image bytes in any registered format.
func DecodeImage(raw []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	return img, nil
}
