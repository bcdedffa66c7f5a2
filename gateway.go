package nanogen

import "context"

// Gateway is the single point of contact with the remote generative service.
// Implement this interface to back the studio with a different provider.
//
// Send is one blocking remote call per invocation: no streaming, no internal
// retry, no cancellation beyond the passed context. All failures are
// surfaced as *GatewayError.
type Gateway interface {
	Send(ctx context.Context, req GenerationRequest) (*Response, error)
}

// Response is the provider-neutral shape of a remote generation response: a
// list of candidates, each carrying an ordered list of content parts.
type Response struct {
	Candidates []Candidate
}

// Candidate is one alternative response produced by the remote service for a
// single request.
type Candidate struct {
	Content *Content
}

// Content holds the ordered content parts of a candidate.
type Content struct {
	Parts []ResponsePart
}

// ResponsePart is one unit of a response payload: a text fragment or an
// inline image payload.
type ResponsePart struct {
	Text   string
	Inline *InlineImage
}

// InlineImage is binary image data embedded directly in a response part,
// paired with its media type.
type InlineImage struct {
	Data     []byte
	MIMEType string
}
