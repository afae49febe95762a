package sketch

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adrianliechti/sketchify/pkg/describer"
	"github.com/adrianliechti/sketchify/pkg/generator"
	"github.com/adrianliechti/sketchify/pkg/imaging"
	"github.com/adrianliechti/sketchify/pkg/provider/openai"
	"github.com/adrianliechti/sketchify/pkg/provider/stability"

	"github.com/stretchr/testify/require"
)

func TestPipelineAgainstServices(t *testing.T) {
	var prompt string

	completions := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Content []map[string]any `json:"content"`
			} `json:"messages"`
		}

		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Messages, 1)
		require.Len(t, body.Messages[0].Content, 2)

		prompt, _ = body.Messages[0].Content[1]["text"].(string)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "## Scene\n\n**A dog** running through a #park"}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 8, "total_tokens": 18}
		}`))
	}))

	defer completions.Close()

	result := image.NewRGBA(image.Rect(0, 0, 48, 32))
	result.Set(3, 3, color.RGBA{0, 0, 255, 255})

	resultData, err := imaging.EncodePNG(result)
	require.NoError(t, err)

	var renderPrompt string
	var renderSize image.Point

	renderings := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))

		renderPrompt = r.FormValue("prompt")

		require.Equal(t, "image-to-image", r.FormValue("mode"))
		require.Equal(t, "png", r.FormValue("output_format"))

		file, _, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()

		config, _, err := image.DecodeConfig(file)
		require.NoError(t, err)

		renderSize = image.Pt(config.Width, config.Height)

		w.Header().Set("Content-Type", "image/png")
		w.Write(resultData)
	}))

	defer renderings.Close()

	completer, err := openai.NewCompleter(completions.URL+"/v1", "gpt-4o-mini", openai.WithToken("sk-test"))
	require.NoError(t, err)

	renderer, err := stability.NewRenderer(renderings.URL+"/v2beta/stable-image/generate", "ultra", stability.WithToken("sk-test"))
	require.NoError(t, err)

	s := New(describer.New(completer), generator.New(renderer))

	require.NoError(t, s.SetSketch(uploaded(2000, 1500)))
	require.NoError(t, s.SetStyle("Anime"))
	s.SetHint("a dog running")

	job, err := s.Convert(context.Background())
	require.NoError(t, err)
	require.NoError(t, job.Wait())

	require.True(t, strings.HasPrefix(prompt, "The overall main key features are: a dog running."))

	description := s.Description()

	require.Equal(t, job.Description(), description)
	require.NotContains(t, description, "*")
	require.NotContains(t, description, "#")
	require.Contains(t, description, "A dog running through a park")

	require.Equal(t, description+"\nStyle: Anime", renderPrompt)
	require.Equal(t, image.Pt(1024, 768), renderSize)

	generated := s.Generated()
	require.NotNil(t, generated)
	require.Equal(t, result.Bounds(), generated.Bounds())

	artifact, err := s.Artifact()
	require.NoError(t, err)
	require.Equal(t, "generated_image.png", artifact.Name)
}
