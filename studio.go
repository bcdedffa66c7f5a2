package nanogen

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/teklini/nanogen/kvstore"
)

// Phase is the studio's position in the orchestration cycle. The cycle is
// Idle -> Validating -> InFlight -> Idle; Success and Failed are not resting
// states, they collapse back to Idle as part of the same transition.
type Phase string

const (
	PhaseIdle       Phase = "IDLE"
	PhaseValidating Phase = "VALIDATING"
	PhaseInFlight   Phase = "IN_FLIGHT"
)

// User-visible messages for pre-flight validation failures.
const (
	msgEmptyPrompt   = "Please enter a description for the image."
	msgMissingSource = "Please upload an image to edit."
	msgUnexpected    = "An unexpected error occurred while processing the image."
)

// State is the explicit container for all mutable UI state the studio owns:
// mode, prompt, input slot, display image, error message and phase. The
// rendering collaborator reads it through Snapshot and never mutates it
// directly.
type State struct {
	Mode         Mode
	Prompt       string
	SourceImage  *ImageAsset
	AspectRatio  AspectRatio
	Result       *GenerationResult
	ErrorMessage string
	Phase        Phase
}

// dispatch pins the inputs a request was sent with. A result is always
// recorded under its dispatch-time mode, prompt and aspect ratio, so a mode
// switch while the call is in flight cannot mislabel the outcome.
type dispatch struct {
	mode   Mode
	prompt string
	source *ImageAsset
	ratio  AspectRatio
}

// Studio sequences one user action end to end: validate input, build the
// request, call the gateway, extract the response, update display state and
// append to the history ledger. Any failure surfaces as a single
// user-visible message; nothing is retried.
//
// The surrounding UI is expected to allow one action at a time by disabling
// its trigger while a call is in flight; the studio still guards its state
// with a mutex so concurrent readers see consistent snapshots.
type Studio struct {
	gateway Gateway
	ledger  *Ledger
	storage Storage
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.Mutex
	state State
}

// StudioOption configures the Studio.
type StudioOption func(*studioConfig)

type studioConfig struct {
	logger  *slog.Logger
	ledger  *Ledger
	storage Storage
	now     func() time.Time
	mode    Mode
	ratio   AspectRatio
}

// WithLogger sets a structured logger for the studio.
func WithLogger(logger *slog.Logger) StudioOption {
	return func(c *studioConfig) {
		c.logger = logger
	}
}

// WithLedger sets the history ledger. Without it history is kept in memory
// only for the lifetime of the process.
func WithLedger(ledger *Ledger) StudioOption {
	return func(c *studioConfig) {
		c.ledger = ledger
	}
}

// WithStorage sets a storage backend used by SaveResult.
func WithStorage(storage Storage) StudioOption {
	return func(c *studioConfig) {
		c.storage = storage
	}
}

// WithClock overrides the studio's time source. Intended for tests.
func WithClock(now func() time.Time) StudioOption {
	return func(c *studioConfig) {
		c.now = now
	}
}

// WithInitialMode sets the mode the studio starts in.
func WithInitialMode(mode Mode) StudioOption {
	return func(c *studioConfig) {
		c.mode = mode
	}
}

// NewStudio creates a Studio talking to the given gateway.
func NewStudio(gateway Gateway, opts ...StudioOption) *Studio {
	cfg := &studioConfig{
		logger: slog.Default(),
		now:    time.Now,
		mode:   ModeGenerate,
		ratio:  AspectRatioDefault,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.ledger == nil {
		cfg.ledger = NewLedger(kvstore.NewMemoryStore(), DefaultHistoryKey, cfg.logger)
	}

	return &Studio{
		gateway: gateway,
		ledger:  cfg.ledger,
		storage: cfg.storage,
		logger:  cfg.logger,
		now:     cfg.now,
		state: State{
			Mode:        cfg.mode,
			AspectRatio: cfg.ratio,
			Phase:       PhaseIdle,
		},
	}
}

// Snapshot returns a copy of the current state.
func (s *Studio) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state
	if s.state.SourceImage != nil {
		img := *s.state.SourceImage
		state.SourceImage = &img
	}
	if s.state.Result != nil {
		res := *s.state.Result
		state.Result = &res
	}
	return state
}

// SetMode switches between GENERATE and EDIT. Switching modes clears any
// prior error message, matching the input-correction affordance of the UI.
func (s *Studio) SetMode(mode Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown mode %q", mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Mode = mode
	s.state.ErrorMessage = ""
	return nil
}

// SetPrompt replaces the prompt text.
func (s *Studio) SetPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Prompt = prompt
}

// SetAspectRatio selects the output shape for subsequent requests.
func (s *Studio) SetAspectRatio(ratio AspectRatio) error {
	if !ratio.Valid() {
		return fmt.Errorf("unsupported aspect ratio %q", ratio)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AspectRatio = ratio
	return nil
}

// AttachSource encodes an uploaded file into the input slot, replacing any
// previous source wholesale. Non-image uploads are rejected with
// ErrInvalidFileType and the prior slot content is retained.
func (s *Studio) AttachSource(raw []byte, declaredType string) error {
	asset, err := EncodeAsset(raw, declaredType)
	if err != nil {
		s.logger.Debug("source upload rejected",
			"declared_type", declaredType,
			"error", err.Error(),
		)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SourceImage = &asset
	return nil
}

// ClearSource empties the input slot.
func (s *Studio) ClearSource() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SourceImage = nil
}

// ApplyPreset loads a preset prompt. Presets describe creating something
// new, so applying one forces GENERATE mode.
func (s *Studio) ApplyPreset(preset Preset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Prompt = preset.Prompt
	if preset.AspectRatio.Valid() {
		s.state.AspectRatio = preset.AspectRatio
	}
	s.state.Mode = ModeGenerate
	s.state.ErrorMessage = ""
}

// Generate runs one orchestration cycle with the current state. On success
// the new result replaces the display image, the error message is cleared
// and exactly one history entry is appended. On failure the previous display
// image is preserved and the failure's description becomes the user-visible
// message.
func (s *Studio) Generate(ctx context.Context) (*GenerationResult, error) {
	d, err := s.beginDispatch()
	if err != nil {
		return nil, err
	}

	start := s.now()
	s.logger.Debug("dispatching generation",
		"mode", d.mode.String(),
		"aspect_ratio", d.ratio.String(),
		"prompt_length", len(d.prompt),
		"has_source", d.source != nil,
	)

	req := BuildRequest(d.prompt, d.source, d.ratio)

	resp, err := s.gateway.Send(ctx, req)
	if err != nil {
		return nil, s.finishFailed(d, err, start)
	}

	asset, err := ExtractImage(resp)
	if err != nil {
		return nil, s.finishFailed(d, err, start)
	}

	result := GenerationResult{
		ImageURL:  asset.DataURL(),
		Prompt:    d.prompt,
		Timestamp: s.now(),
	}
	s.finishSuccess(ctx, d, result)

	s.logger.Info("generation completed",
		"mode", d.mode.String(),
		"aspect_ratio", d.ratio.String(),
		"duration_ms", s.now().Sub(start).Milliseconds(),
		"image_bytes", len(asset.Data),
	)

	return &result, nil
}

// beginDispatch validates the current input and, if it passes, snapshots it
// and marks the studio in flight. Validation failures never reach the
// gateway: they set the user-visible message and return the studio to Idle
// synchronously.
func (s *Studio) beginDispatch() (dispatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Phase = PhaseValidating

	if err := ValidatePrompt(s.state.Prompt); err != nil {
		s.state.ErrorMessage = msgEmptyPrompt
		s.state.Phase = PhaseIdle
		return dispatch{}, err
	}
	if err := ValidateSourceImage(s.state.Mode, s.state.SourceImage); err != nil {
		s.state.ErrorMessage = msgMissingSource
		s.state.Phase = PhaseIdle
		return dispatch{}, err
	}

	d := dispatch{
		mode:   s.state.Mode,
		prompt: s.state.Prompt,
		ratio:  s.state.AspectRatio,
	}
	if s.state.Mode == ModeEdit {
		img := *s.state.SourceImage
		d.source = &img
	}

	s.state.ErrorMessage = ""
	s.state.Phase = PhaseInFlight
	return d, nil
}

// finishSuccess applies a completed result under its dispatch snapshot and
// appends the history entry. The ledger append is unconditional on success.
func (s *Studio) finishSuccess(ctx context.Context, d dispatch, result GenerationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Result = &result
	s.state.ErrorMessage = ""
	s.state.Phase = PhaseIdle

	s.ledger.Append(ctx, result, d.mode, d.ratio)
}

// finishFailed records a terminal failure: the previous display image stays,
// the error's description becomes the message, the studio returns to Idle.
func (s *Studio) finishFailed(d dispatch, err error, start time.Time) error {
	s.logger.Error("generation failed",
		"mode", d.mode.String(),
		"duration_ms", s.now().Sub(start).Milliseconds(),
		"error", err.Error(),
	)

	message := err.Error()
	if message == "" {
		message = msgUnexpected
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ErrorMessage = message
	s.state.Phase = PhaseIdle
	return err
}

// History returns the ledger's entries, newest first.
func (s *Studio) History() []HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Items()
}

// LoadHistory reads the persisted ledger into memory. Call once at startup.
func (s *Studio) LoadHistory(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Load(ctx)
}

// ClearHistory empties the ledger and its durable copy.
func (s *Studio) ClearHistory(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Clear(ctx)
}

// SaveResult writes the current display image through the configured storage
// backend and returns where it landed. The filename follows the download
// convention nanogen-<unix-ms>.<ext>.
func (s *Studio) SaveResult(ctx context.Context) (StorageResult, error) {
	s.mu.Lock()
	storage := s.storage
	result := s.state.Result
	s.mu.Unlock()

	if storage == nil {
		return StorageResult{}, ErrStorageNotConfigured
	}
	if result == nil {
		return StorageResult{}, ErrNoImageInResponse
	}

	asset, err := AssetFromDataURL(result.ImageURL)
	if err != nil {
		return StorageResult{}, err
	}

	name := fmt.Sprintf("nanogen-%d.%s", s.now().UnixMilli(), ExtensionForMIME(asset.MIMEType))
	return SaveAsset(ctx, storage, asset, name)
}
