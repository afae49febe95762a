package sketch

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/adrianliechti/sketchify/pkg/imaging"
	"github.com/adrianliechti/sketchify/pkg/provider"

	"github.com/stretchr/testify/require"
)

type mockDescriber struct {
	mu sync.Mutex

	text string

	block   chan struct{}
	started chan struct{}

	calls []describeCall
}

type describeCall struct {
	bounds image.Rectangle

	hint  string
	style string
}

func (m *mockDescriber) Describe(ctx context.Context, img image.Image, hint, style string) string {
	m.mu.Lock()
	m.calls = append(m.calls, describeCall{img.Bounds(), hint, style})
	m.mu.Unlock()

	if m.started != nil {
		close(m.started)
	}

	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return "Unable to generate description."
		}
	}

	return m.text
}

type mockGenerator struct {
	mu sync.Mutex

	result image.Image
	err    error

	prompts []string
	bounds  []image.Rectangle
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, img image.Image) (image.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)
	m.bounds = append(m.bounds, img.Bounds())

	if m.err != nil {
		return nil, m.err
	}

	return m.result, nil
}

func uploaded(width, height int) imaging.Source {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})

	return imaging.Uploaded{Image: img}
}

func generatedImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 64, 64))
}

func TestGenerationRequiresDescription(t *testing.T) {
	generator := &mockGenerator{result: generatedImage()}
	s := New(&mockDescriber{text: "a dog"}, generator)

	require.NoError(t, s.SetSketch(uploaded(100, 100)))

	result, err := s.SubmitGeneration(context.Background())

	require.Nil(t, result)
	require.ErrorIs(t, err, ErrNoDescription)
	require.True(t, IsWarning(err))

	require.Nil(t, s.Generated())
	require.Empty(t, generator.prompts)
}

func TestOperationsRequireSketch(t *testing.T) {
	describer := &mockDescriber{text: "a dog"}
	s := New(describer, &mockGenerator{})

	_, err := s.SubmitDescription(context.Background())
	require.ErrorIs(t, err, ErrNoSketch)

	require.NoError(t, s.EditDescription("manual"))

	_, err = s.SubmitGeneration(context.Background())
	require.ErrorIs(t, err, ErrNoSketch)

	_, err = s.Convert(context.Background())
	require.ErrorIs(t, err, ErrNoSketch)

	require.Empty(t, describer.calls)
	require.False(t, s.Busy())
}

func TestSessionScenario(t *testing.T) {
	describer := &mockDescriber{text: "A dog running in a park"}
	generator := &mockGenerator{result: generatedImage()}

	s := New(describer, generator)

	require.NoError(t, s.SetSketch(uploaded(2000, 1500)))
	require.NoError(t, s.SetStyle("Anime"))
	s.SetHint("a dog running")

	description, err := s.SubmitDescription(context.Background())
	require.NoError(t, err)
	require.Equal(t, "A dog running in a park", description)
	require.Equal(t, description, s.Description())

	require.Len(t, describer.calls, 1)
	require.Equal(t, image.Rect(0, 0, 1024, 768), describer.calls[0].bounds)
	require.Equal(t, "a dog running", describer.calls[0].hint)
	require.Equal(t, "Anime", describer.calls[0].style)

	result, err := s.SubmitGeneration(context.Background())
	require.NoError(t, err)
	require.Same(t, generator.result, result)

	require.Equal(t, []string{"A dog running in a park\nStyle: Anime"}, generator.prompts)
	require.Equal(t, image.Rect(0, 0, 1024, 768), generator.bounds[0])

	artifact, err := s.Artifact()
	require.NoError(t, err)
	require.Equal(t, "generated_image.png", artifact.Name)
	require.Equal(t, "image/png", artifact.ContentType)
	require.NotEmpty(t, artifact.Content)
}

func TestEditDescriptionIsVerbatim(t *testing.T) {
	generator := &mockGenerator{result: generatedImage()}
	s := New(&mockDescriber{text: "generated"}, generator)

	require.NoError(t, s.SetSketch(uploaded(10, 10)))

	_, err := s.SubmitDescription(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.EditDescription("  a **cat** on a roof "))
	require.Equal(t, "  a **cat** on a roof ", s.Description())

	_, err = s.SubmitGeneration(context.Background())
	require.NoError(t, err)

	require.Equal(t, "  a **cat** on a roof \nStyle: Photorealistic and Digital art", generator.prompts[0])
}

func TestFallbackDescriptionIsStored(t *testing.T) {
	s := New(&mockDescriber{text: "Unable to generate description."}, &mockGenerator{})

	require.NoError(t, s.SetSketch(uploaded(10, 10)))

	description, err := s.SubmitDescription(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Unable to generate description.", description)
	require.Equal(t, description, s.State().Description)
}

func TestGenerationFailureKeepsPreviousImage(t *testing.T) {
	previous := generatedImage()
	generator := &mockGenerator{result: previous}

	s := New(&mockDescriber{text: "a dog"}, generator)
	require.NoError(t, s.SetSketch(uploaded(10, 10)))

	_, err := s.SubmitDescription(context.Background())
	require.NoError(t, err)

	_, err = s.SubmitGeneration(context.Background())
	require.NoError(t, err)

	generator.err = provider.UnauthorizedError()

	result, err := s.SubmitGeneration(context.Background())
	require.Nil(t, result)

	var serviceErr *provider.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	require.Equal(t, provider.ErrorKindUnauthorized, serviceErr.Kind)
	require.False(t, IsWarning(err))

	require.Same(t, previous, s.Generated())
}

func TestSetStyle(t *testing.T) {
	s := New(&mockDescriber{}, &mockGenerator{})

	require.Equal(t, "Photorealistic and Digital art", s.State().Style)

	err := s.SetStyle("Cubism")
	require.ErrorIs(t, err, ErrInvalidStyle)
	require.Equal(t, "Photorealistic and Digital art", s.State().Style)

	custom := New(&mockDescriber{}, &mockGenerator{}, WithStyles([]string{"Cubism", "Anime"}))
	require.Equal(t, "Cubism", custom.State().Style)
	require.NoError(t, custom.SetStyle("Anime"))
}

func TestSetSketchRejectsInvalidCanvas(t *testing.T) {
	s := New(&mockDescriber{}, &mockGenerator{})

	err := s.SetSketch(imaging.Drawn{Width: 2, Height: 2, Pix: make([]byte, 3)})
	require.ErrorIs(t, err, imaging.ErrInvalidCanvas)
	require.False(t, s.State().HasSketch)

	require.NoError(t, s.SetSketch(imaging.Drawn{Width: 2, Height: 2, Pix: make([]byte, 16)}))
	require.True(t, s.State().HasSketch)
}

func TestConcurrentOperationIsBusy(t *testing.T) {
	describer := &mockDescriber{
		text: "a dog",

		block:   make(chan struct{}),
		started: make(chan struct{}),
	}

	s := New(describer, &mockGenerator{result: generatedImage()})
	require.NoError(t, s.SetSketch(uploaded(10, 10)))

	errc := make(chan error, 1)

	go func() {
		_, err := s.SubmitDescription(context.Background())
		errc <- err
	}()

	<-describer.started
	require.True(t, s.Busy())
	require.True(t, s.State().Busy)

	_, err := s.SubmitGeneration(context.Background())
	require.ErrorIs(t, err, ErrBusy)

	require.ErrorIs(t, s.EditDescription("x"), ErrBusy)

	close(describer.block)

	require.NoError(t, <-errc)
	require.False(t, s.Busy())
	require.Equal(t, "a dog", s.Description())
}

func TestCloseCancelsOperation(t *testing.T) {
	describer := &mockDescriber{
		text: "a dog",

		block:   make(chan struct{}),
		started: make(chan struct{}),
	}

	s := New(describer, &mockGenerator{})
	require.NoError(t, s.SetSketch(uploaded(10, 10)))

	errc := make(chan error, 1)

	go func() {
		_, err := s.SubmitDescription(context.Background())
		errc <- err
	}()

	<-describer.started
	s.Close()

	select {
	case err := <-errc:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("operation was not cancelled")
	}

	require.Empty(t, s.Description())

	_, err := s.SubmitDescription(context.Background())
	require.ErrorIs(t, err, ErrClosed)
}

func TestConvert(t *testing.T) {
	describer := &mockDescriber{text: "a dog"}
	generator := &mockGenerator{result: generatedImage()}

	s := New(describer, generator)
	require.NoError(t, s.SetSketch(uploaded(10, 10)))
	require.NoError(t, s.SetStyle("Oil painting"))

	job, err := s.Convert(context.Background())
	require.NoError(t, err)

	require.NoError(t, job.Wait())
	require.Equal(t, "a dog", job.Description())
	require.Same(t, generator.result, job.Image())

	require.Equal(t, []string{"a dog\nStyle: Oil painting"}, generator.prompts)
	require.Same(t, generator.result, s.Generated())

	require.Eventually(t, func() bool { return !s.Busy() }, time.Second, 10*time.Millisecond)
}

func TestConvertPropagatesGenerationError(t *testing.T) {
	generator := &mockGenerator{err: provider.BadRequestError()}

	s := New(&mockDescriber{text: "a dog"}, generator)
	require.NoError(t, s.SetSketch(uploaded(10, 10)))

	job, err := s.Convert(context.Background())
	require.NoError(t, err)

	<-job.Done()

	var serviceErr *provider.ServiceError
	require.True(t, errors.As(job.Err(), &serviceErr))
	require.Equal(t, provider.ErrorKindBadRequest, serviceErr.Kind)

	require.Equal(t, "a dog", s.Description())
	require.Nil(t, s.Generated())
}

func TestSetSketchRejectsOversizedCanvas(t *testing.T) {
	describer := &mockDescriber{text: "a dog"}
	s := New(describer, &mockGenerator{})

	err := s.SetSketch(imaging.Drawn{Width: math.MaxInt, Height: math.MaxInt})
	require.ErrorIs(t, err, imaging.ErrImageTooLarge)
	require.False(t, s.State().HasSketch)

	_, err = s.Convert(context.Background())
	require.ErrorIs(t, err, ErrNoSketch)
	require.Empty(t, describer.calls)
}

type panicGenerator struct{}

func (panicGenerator) Generate(ctx context.Context, prompt string, img image.Image) (image.Image, error) {
	panic("renderer exploded")
}

func TestConvertRecoversFromPanic(t *testing.T) {
	s := New(&mockDescriber{text: "a dog"}, panicGenerator{})
	require.NoError(t, s.SetSketch(uploaded(10, 10)))

	job, err := s.Convert(context.Background())
	require.NoError(t, err)

	err = job.Wait()
	require.ErrorContains(t, err, "renderer exploded")
	require.Nil(t, job.Image())

	require.Eventually(t, func() bool { return !s.Busy() }, time.Second, 10*time.Millisecond)

	_, err = s.SubmitDescription(context.Background())
	require.NoError(t, err)
}
