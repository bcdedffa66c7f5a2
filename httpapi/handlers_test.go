package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teklini/nanogen"
)

type stubGateway struct {
	response *nanogen.Response
	err      error
	calls    int
}

func (g *stubGateway) Send(ctx context.Context, req nanogen.GenerationRequest) (*nanogen.Response, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.response, nil
}

func imageResponse(data []byte) *nanogen.Response {
	return &nanogen.Response{
		Candidates: []nanogen.Candidate{
			{
				Content: &nanogen.Content{
					Parts: []nanogen.ResponsePart{
						{Inline: &nanogen.InlineImage{Data: data, MIMEType: "image/png"}},
					},
				},
			},
		},
	}
}

func newTestServer(t *testing.T, gateway nanogen.Gateway, opts ...ServerOption) (*Server, *nanogen.Studio) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	studio := nanogen.NewStudio(gateway, nanogen.WithLogger(logger))
	base := []ServerOption{WithLogger(logger)}
	return NewServer(studio, append(base, opts...)...), studio
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestGenerate_Success(t *testing.T) {
	server, _ := newTestServer(t, &stubGateway{response: imageResponse([]byte("pixels"))})
	router := server.Router()

	rr := postJSON(t, router, "/api/prompt", map[string]string{"prompt": "a red bicycle"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = postJSON(t, router, "/api/generate", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var result struct {
		ImageURL string `json:"imageUrl"`
		Prompt   string `json:"prompt"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
	assert.True(t, strings.HasPrefix(result.ImageURL, "data:image/png;base64,"))
	assert.Equal(t, "a red bicycle", result.Prompt)
}

func TestGenerate_ValidationError(t *testing.T) {
	gateway := &stubGateway{response: imageResponse([]byte("pixels"))}
	server, _ := newTestServer(t, gateway)
	router := server.Router()

	rr := postJSON(t, router, "/api/generate", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var errBody struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errBody))
	assert.Equal(t, "validation_error", errBody.Code)
	assert.Equal(t, "Please enter a description for the image.", errBody.Message)
	assert.Zero(t, gateway.calls, "validation failures must not reach the gateway")
}

func TestGenerate_GatewayFailure(t *testing.T) {
	gateway := &stubGateway{err: &nanogen.GatewayError{Message: "upstream exploded"}}
	server, _ := newTestServer(t, gateway)
	router := server.Router()

	postJSON(t, router, "/api/prompt", map[string]string{"prompt": "anything"})
	rr := postJSON(t, router, "/api/generate", nil)
	require.Equal(t, http.StatusBadGateway, rr.Code)

	var errBody struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errBody))
	assert.Equal(t, "generation_failed", errBody.Code)
	assert.Equal(t, "upstream exploded", errBody.Message)
}

func TestHistory_Lifecycle(t *testing.T) {
	server, _ := newTestServer(t, &stubGateway{response: imageResponse([]byte("pixels"))})
	router := server.Router()

	postJSON(t, router, "/api/prompt", map[string]string{"prompt": "one"})
	rr := postJSON(t, router, "/api/generate", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var history struct {
		Items []historyItemResponse `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&history))
	require.Len(t, history.Items, 1)
	assert.Equal(t, "GENERATE", history.Items[0].Mode)
	assert.NotEmpty(t, history.Items[0].ID)

	req = httptest.NewRequest(http.MethodDelete, "/api/history", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&history))
	assert.Empty(t, history.Items)
}

func TestUploadSource_InvalidFileType(t *testing.T) {
	server, studio := newTestServer(t, &stubGateway{})
	router := server.Router()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="doc.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/source", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var errBody struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errBody))
	assert.Equal(t, "invalid_file_type", errBody.Code)
	assert.Nil(t, studio.Snapshot().SourceImage)
}

func TestUploadSource_AcceptsImage(t *testing.T) {
	server, studio := newTestServer(t, &stubGateway{})
	router := server.Router()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("png bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/source", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, studio.Snapshot().SourceImage)
	assert.Equal(t, "image/png", studio.Snapshot().SourceImage.MIMEType)

	req = httptest.NewRequest(http.MethodDelete, "/api/source", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, studio.Snapshot().SourceImage)
}

func TestPresets(t *testing.T) {
	server, studio := newTestServer(t, &stubGateway{})
	router := server.Router()

	req := httptest.NewRequest(http.MethodGet, "/api/presets", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var presets struct {
		Presets []nanogen.Preset `json:"presets"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&presets))
	require.NotEmpty(t, presets.Presets)

	rr = postJSON(t, router, "/api/presets/apply", map[string]string{"name": "no such preset"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = postJSON(t, router, "/api/presets/apply", map[string]string{"name": presets.Presets[0].Name})
	require.Equal(t, http.StatusOK, rr.Code)

	state := studio.Snapshot()
	assert.Equal(t, nanogen.ModeGenerate, state.Mode)
	assert.Equal(t, presets.Presets[0].Prompt, state.Prompt)
}

func TestSetMode(t *testing.T) {
	server, studio := newTestServer(t, &stubGateway{})
	router := server.Router()

	rr := postJSON(t, router, "/api/mode", map[string]string{"mode": "EDIT"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, nanogen.ModeEdit, studio.Snapshot().Mode)

	rr = postJSON(t, router, "/api/mode", map[string]string{"mode": "BOGUS"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGenerate_RateLimited(t *testing.T) {
	server, _ := newTestServer(t, &stubGateway{response: imageResponse([]byte("pixels"))}, WithRateLimit(1))
	router := server.Router()

	postJSON(t, router, "/api/prompt", map[string]string{"prompt": "a"})

	rr := postJSON(t, router, "/api/generate", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = postJSON(t, router, "/api/generate", nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
}

func TestRequestID(t *testing.T) {
	server, _ := newTestServer(t, &stubGateway{})
	router := server.Router()

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("X-Request-ID", "inbound-id")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, "inbound-id", rr.Header().Get("X-Request-ID"))
}
