package nanogen

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestExtractImage_FirstInlinePart(t *testing.T) {
	payload := []byte("image bytes")
	resp := &Response{
		Candidates: []Candidate{
			{
				Content: &Content{
					Parts: []ResponsePart{
						{Text: "Here is your image"},
						{Inline: &InlineImage{Data: payload, MIMEType: "image/jpeg"}},
						{Inline: &InlineImage{Data: []byte("second"), MIMEType: "image/png"}},
					},
				},
			},
		},
	}

	asset, err := ExtractImage(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset.MIMEType != "image/jpeg" {
		t.Errorf("expected first inline part's mime, got %q", asset.MIMEType)
	}
	if asset.Data != base64.StdEncoding.EncodeToString(payload) {
		t.Errorf("unexpected payload %q", asset.Data)
	}
}

func TestExtractImage_OnlyFirstCandidate(t *testing.T) {
	resp := &Response{
		Candidates: []Candidate{
			{Content: &Content{Parts: []ResponsePart{{Text: "no image here"}}}},
			{
				Content: &Content{
					Parts: []ResponsePart{
						{Inline: &InlineImage{Data: []byte("late image"), MIMEType: "image/png"}},
					},
				},
			},
		},
	}

	// The second candidate carries an image, but the tie-break rule only
	// looks at the first.
	_, err := ExtractImage(resp)
	if !errors.Is(err, ErrNoImageInResponse) {
		t.Errorf("expected ErrNoImageInResponse, got %v", err)
	}
}

func TestExtractImage_DefaultsToPNG(t *testing.T) {
	resp := &Response{
		Candidates: []Candidate{
			{
				Content: &Content{
					Parts: []ResponsePart{
						{Inline: &InlineImage{Data: []byte("raw")}},
					},
				},
			},
		},
	}

	asset, err := ExtractImage(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset.MIMEType != "image/png" {
		t.Errorf("expected image/png default, got %q", asset.MIMEType)
	}
}

func TestExtractImage_NoImage(t *testing.T) {
	tests := []struct {
		name string
		resp *Response
	}{
		{name: "nil response", resp: nil},
		{name: "zero candidates", resp: &Response{}},
		{name: "nil content", resp: &Response{Candidates: []Candidate{{}}}},
		{
			name: "text only",
			resp: &Response{Candidates: []Candidate{
				{Content: &Content{Parts: []ResponsePart{{Text: "sorry"}}}},
			}},
		},
		{
			name: "empty inline data",
			resp: &Response{Candidates: []Candidate{
				{Content: &Content{Parts: []ResponsePart{{Inline: &InlineImage{MIMEType: "image/png"}}}}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractImage(tt.resp)
			if !errors.Is(err, ErrNoImageInResponse) {
				t.Errorf("expected ErrNoImageInResponse, got %v", err)
			}
		})
	}
}
