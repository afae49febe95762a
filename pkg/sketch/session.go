package sketch

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adrianliechti/sketchify/pkg/generator"
	"github.com/adrianliechti/sketchify/pkg/imaging"
	"github.com/adrianliechti/sketchify/pkg/provider"

	"github.com/google/uuid"
)

// ArtifactName is the filename of the downloadable generated image.
const ArtifactName = "generated_image.png"

type Describer interface {
	Describe(ctx context.Context, img image.Image, hint, style string) string
}

type Generator interface {
	Generate(ctx context.Context, prompt string, img image.Image) (image.Image, error)
}

type Option func(*Session)

func WithNormalizer(normalizer *imaging.Normalizer) Option {
	return func(s *Session) {
		s.normalizer = normalizer
	}
}

func WithStyles(styles []string) Option {
	return func(s *Session) {
		if len(styles) > 0 {
			s.styles = styles
		}
	}
}

func WithOwner(owner string) Option {
	return func(s *Session) {
		s.owner = owner
	}
}

// Session holds the state of one interactive sketch cycle. Operations are
// serialized: while one runs, others fail with ErrBusy.
type Session struct {
	id    string
	owner string

	describer  Describer
	generator  Generator
	normalizer *imaging.Normalizer

	styles []string

	ctx    context.Context
	cancel context.CancelFunc

	op   sync.Mutex
	busy atomic.Bool

	lastUsed atomic.Int64

	mu sync.RWMutex

	sketch      image.Image
	description string
	generated   image.Image

	style string
	hint  string
}

type State struct {
	ID string

	Style string
	Hint  string

	Description string

	HasSketch bool
	HasImage  bool

	Busy bool
}

func New(describer Describer, generator Generator, options ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		id: uuid.NewString(),

		describer: describer,
		generator: generator,

		styles: Styles,

		ctx:    ctx,
		cancel: cancel,
	}

	for _, option := range options {
		option(s)
	}

	if s.normalizer == nil {
		s.normalizer = imaging.NewNormalizer(imaging.DefaultMaxSize)
	}

	s.style = s.styles[0]
	s.touch()

	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Owner() string {
	return s.owner
}

func (s *Session) Styles() []string {
	return s.styles
}

func (s *Session) Busy() bool {
	return s.busy.Load()
}

func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return State{
		ID: s.id,

		Style: s.style,
		Hint:  s.hint,

		Description: s.description,

		HasSketch: s.sketch != nil,
		HasImage:  s.generated != nil,

		Busy: s.busy.Load(),
	}
}

func (s *Session) SetSketch(source imaging.Source) error {
	if v, ok := source.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sketch = source.Bitmap()
	s.touch()

	return nil
}

func (s *Session) SetStyle(style string) error {
	if !validStyle(s.styles, style) {
		return ErrInvalidStyle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.style = style
	s.touch()

	return nil
}

func (s *Session) SetHint(hint string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hint = hint
	s.touch()
}

func (s *Session) Description() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.description
}

func (s *Session) Generated() image.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.generated
}

// SubmitDescription normalizes the current sketch, describes it and stores
// the result. A failed description stores the describer's fallback text.
func (s *Session) SubmitDescription(ctx context.Context) (string, error) {
	ctx, done, err := s.begin(ctx)

	if err != nil {
		return "", err
	}

	defer done()

	return s.describe(ctx)
}

// EditDescription replaces the current description verbatim. An empty text
// clears it.
func (s *Session) EditDescription(text string) error {
	_, done, err := s.begin(context.Background())

	if err != nil {
		return err
	}

	defer done()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.description = text

	return nil
}

// SubmitGeneration renders the current description in the selected style.
// On failure the previously generated image is kept.
func (s *Session) SubmitGeneration(ctx context.Context) (image.Image, error) {
	ctx, done, err := s.begin(ctx)

	if err != nil {
		return nil, err
	}

	defer done()

	return s.generate(ctx)
}

// Convert runs description followed by generation in the background.
func (s *Session) Convert(ctx context.Context) (*Job, error) {
	ctx, done, err := s.begin(ctx)

	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	hasSketch := s.sketch != nil
	s.mu.RUnlock()

	if !hasSketch {
		done()
		return nil, ErrNoSketch
	}

	job := newJob()

	go func() {
		defer done()

		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(ctx, "conversion panicked", "operation", "convert", "panic", r)
				job.finish("", nil, fmt.Errorf("conversion failed: %v", r))
			}
		}()

		description, err := s.describe(ctx)

		if err != nil {
			job.finish(description, nil, err)
			return
		}

		result, err := s.generate(ctx)
		job.finish(description, result, err)
	}()

	return job, nil
}

// Artifact returns the generated image as a downloadable PNG file.
func (s *Session) Artifact() (*provider.File, error) {
	img := s.Generated()

	if img == nil {
		return nil, ErrNoImage
	}

	data, err := imaging.EncodePNG(img)

	if err != nil {
		return nil, err
	}

	return &provider.File{
		Name: ArtifactName,

		Content:     data,
		ContentType: "image/png",
	}, nil
}

// Close cancels in-flight operations. Later operations fail with ErrClosed.
func (s *Session) Close() {
	s.cancel()
}

func (s *Session) describe(ctx context.Context) (string, error) {
	s.mu.RLock()
	sketch := s.sketch
	hint := s.hint
	style := s.style
	s.mu.RUnlock()

	if sketch == nil {
		return "", ErrNoSketch
	}

	normalized := s.normalizer.Normalize(sketch)
	description := s.describer.Describe(ctx, normalized, hint, style)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.description = description
	s.mu.Unlock()

	return description, nil
}

func (s *Session) generate(ctx context.Context) (image.Image, error) {
	s.mu.RLock()
	sketch := s.sketch
	description := s.description
	style := s.style
	s.mu.RUnlock()

	if sketch == nil {
		return nil, ErrNoSketch
	}

	if description == "" {
		return nil, ErrNoDescription
	}

	normalized := s.normalizer.Normalize(sketch)
	result, err := s.generator.Generate(ctx, generator.Prompt(description, style), normalized)

	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.generated = result
	s.mu.Unlock()

	return result, nil
}

func (s *Session) begin(ctx context.Context) (context.Context, func(), error) {
	if s.ctx.Err() != nil {
		return nil, nil, ErrClosed
	}

	if !s.op.TryLock() {
		return nil, nil, ErrBusy
	}

	s.busy.Store(true)

	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)

	done := func() {
		stop()
		cancel()

		s.touch()

		s.busy.Store(false)
		s.op.Unlock()
	}

	return ctx, done, nil
}

func (s *Session) touch() {
	s.lastUsed.Store(time.Now().UnixNano())
}
