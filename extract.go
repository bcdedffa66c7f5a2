package nanogen

import "encoding/base64"

// ExtractImage scans a response for its first inline image payload and
// returns it as an ImageAsset ready for decoding into a renderable
// reference.
//
// The scan order is the documented tie-break rule: only the first candidate
// is considered, and within it the first part carrying inline image data
// wins. The remote service is assumed to return at most one meaningful
// image; later candidates and parts are ignored by contract, not by
// accident. A part with no media type defaults to image/png.
func ExtractImage(resp *Response) (ImageAsset, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return ImageAsset{}, ErrNoImageInResponse
	}

	content := resp.Candidates[0].Content
	if content == nil {
		return ImageAsset{}, ErrNoImageInResponse
	}

	for _, part := range content.Parts {
		if part.Inline == nil || len(part.Inline.Data) == 0 {
			continue
		}

		mimeType := part.Inline.MIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}

		return ImageAsset{
			Data:     base64.StdEncoding.EncodeToString(part.Inline.Data),
			MIMEType: mimeType,
		}, nil
	}

	return ImageAsset{}, ErrNoImageInResponse
}
