package nanogen

import "testing"

func TestBuildRequest_TextOnly(t *testing.T) {
	req := BuildRequest("a red bicycle", nil, AspectRatio16x9)

	if len(req.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(req.Parts))
	}
	if req.Parts[0].Text != "a red bicycle" {
		t.Errorf("unexpected text part: %q", req.Parts[0].Text)
	}
	if req.AspectRatio != AspectRatio16x9 {
		t.Errorf("unexpected aspect ratio: %q", req.AspectRatio)
	}
}

func TestBuildRequest_ImagePrecedesText(t *testing.T) {
	source := &ImageAsset{Data: "QUFB", MIMEType: "image/png"}
	req := BuildRequest("add snow", source, AspectRatio1x1)

	if len(req.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(req.Parts))
	}
	if req.Parts[0].Inline == nil {
		t.Fatal("first part must be the image")
	}
	if req.Parts[0].Inline.Data != source.Data {
		t.Errorf("image payload changed: %q", req.Parts[0].Inline.Data)
	}
	if req.Parts[1].Text != "add snow" {
		t.Errorf("second part must be the prompt, got %q", req.Parts[1].Text)
	}
}

func TestBuildRequest_DefaultAspectRatio(t *testing.T) {
	req := BuildRequest("prompt", nil, "")
	if req.AspectRatio != AspectRatioDefault {
		t.Errorf("expected default ratio, got %q", req.AspectRatio)
	}
}

func TestBuildRequest_IgnoresEmptySource(t *testing.T) {
	req := BuildRequest("prompt", &ImageAsset{}, AspectRatio1x1)
	if len(req.Parts) != 1 {
		t.Fatalf("empty source must not produce an image part, got %d parts", len(req.Parts))
	}
}

func TestGenerationRequest_Accessors(t *testing.T) {
	source := &ImageAsset{Data: "QUFB", MIMEType: "image/png"}
	req := BuildRequest("fix the sky", source, AspectRatio4x3)

	if got := req.Prompt(); got != "fix the sky" {
		t.Errorf("Prompt() = %q", got)
	}
	if got := req.SourceImage(); got == nil || got.MIMEType != "image/png" {
		t.Errorf("SourceImage() = %+v", got)
	}

	textOnly := BuildRequest("just text", nil, AspectRatio4x3)
	if textOnly.SourceImage() != nil {
		t.Error("SourceImage() must be nil for text-only requests")
	}
}
