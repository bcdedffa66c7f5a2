package nanogen

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ImageAsset is an image in transit: a user-supplied source image or a
// generated result. Data is the base64 encoding of the raw bytes and never
// carries a data-URL prefix; the prefix is re-added only at render time via
// DataURL.
type ImageAsset struct {
	// Data is the base64-encoded image bytes, without any "data:" prefix.
	Data string

	// MIMEType of the image (e.g., "image/png", "image/jpeg")
	MIMEType string
}

// EncodeAsset converts raw file bytes and their declared media type into an
// ImageAsset. Non-image media types are rejected with ErrInvalidFileType and
// no partial state is produced.
func EncodeAsset(raw []byte, declaredType string) (ImageAsset, error) {
	if !strings.HasPrefix(declaredType, "image/") {
		return ImageAsset{}, fmt.Errorf("%w: %q", ErrInvalidFileType, declaredType)
	}
	if len(raw) == 0 {
		return ImageAsset{}, ErrEmptyImageData
	}

	return ImageAsset{
		Data:     base64.StdEncoding.EncodeToString(raw),
		MIMEType: declaredType,
	}, nil
}

// DataURL reconstructs the renderable form of the asset by prefixing the
// stored payload with the standard data-URL header.
func (a ImageAsset) DataURL() string {
	return "data:" + a.MIMEType + ";base64," + a.Data
}

// Bytes decodes the stored payload back to raw image bytes.
func (a ImageAsset) Bytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(a.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return data, nil
}

// IsZero reports whether the asset carries no payload.
func (a ImageAsset) IsZero() bool {
	return a.Data == "" && a.MIMEType == ""
}

// AssetFromDataURL parses a data-URL string (e.g. one previously produced by
// DataURL) back into an ImageAsset, stripping the transport prefix so the
// stored Data field holds bare base64 again.
func AssetFromDataURL(url string) (ImageAsset, error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return ImageAsset{}, fmt.Errorf("%w: missing data: prefix", ErrInvalidFileType)
	}

	mimeType, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return ImageAsset{}, fmt.Errorf("%w: missing base64 marker", ErrInvalidFileType)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return ImageAsset{}, fmt.Errorf("%w: %q", ErrInvalidFileType, mimeType)
	}

	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return ImageAsset{}, fmt.Errorf("%w: %v", ErrInvalidFileType, err)
	}

	return ImageAsset{Data: payload, MIMEType: mimeType}, nil
}

// ExtensionForMIME returns a file extension for common image MIME types.
func ExtensionForMIME(mime string) string {
	switch mime {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "png"
	}
}
