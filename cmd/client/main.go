package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/adrianliechti/sketchify/config"
	"github.com/adrianliechti/sketchify/pkg/client"
	"github.com/adrianliechti/sketchify/pkg/imaging"
)

func main() {
	urlFlag := flag.String("url", "http://localhost:8080", "server url")
	tokenFlag := flag.String("token", "", "server token")
	configFlag := flag.String("config", "", "run locally with this config file, or \"env\" for environment keys")

	styleFlag := flag.String("style", "", "generation style")
	hintFlag := flag.String("hint", "", "main features to emphasize")
	outputFlag := flag.String("o", "generated_image.png", "output file")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: client [flags] <sketch image>")
		os.Exit(2)
	}

	ctx := context.Background()

	data, err := os.ReadFile(flag.Arg(0))

	if err != nil {
		panic(err)
	}

	var description string
	var image []byte

	if *configFlag != "" {
		description, image, err = runLocal(ctx, *configFlag, data, *styleFlag, *hintFlag)
	} else {
		description, image, err = runRemote(ctx, *urlFlag, *tokenFlag, data, *styleFlag, *hintFlag)
	}

	if description != "" {
		fmt.Println(description)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := os.WriteFile(*outputFlag, image, 0644); err != nil {
		panic(err)
	}
}

func runRemote(ctx context.Context, url, token string, data []byte, style, hint string) (string, []byte, error) {
	var options []client.RequestOption

	if token != "" {
		options = append(options, client.WithToken(token))
	}

	c := client.New(url, options...)

	session, err := c.Sessions.New(ctx)

	if err != nil {
		return "", nil, err
	}

	defer c.Sessions.Delete(context.WithoutCancel(ctx), session.ID)

	if _, err := c.Sessions.UploadSketch(ctx, session.ID, client.File{Content: data}); err != nil {
		return "", nil, err
	}

	sessionOptions := client.SessionOptions{
		Hint: client.Ptr(hint),
	}

	if style != "" {
		sessionOptions.Style = client.Ptr(style)
	}

	if _, err := c.Sessions.SetOptions(ctx, session.ID, sessionOptions); err != nil {
		return "", nil, err
	}

	description, err := c.Sessions.Describe(ctx, session.ID)

	if err != nil {
		return "", nil, err
	}

	result, err := c.Sessions.Generate(ctx, session.ID)

	if err != nil {
		return description, nil, err
	}

	return description, result.Content, nil
}

func runLocal(ctx context.Context, path string, data []byte, style, hint string) (string, []byte, error) {
	cfg, err := config.Load(ctx, path)

	if err != nil {
		return "", nil, err
	}

	source, err := imaging.Decode(bytes.NewReader(data))

	if err != nil {
		return "", nil, err
	}

	session := cfg.NewSession()
	defer session.Close()

	if err := session.SetSketch(source); err != nil {
		return "", nil, err
	}

	if style != "" {
		if err := session.SetStyle(style); err != nil {
			return "", nil, err
		}
	}

	session.SetHint(hint)

	job, err := session.Convert(ctx)

	if err != nil {
		return "", nil, err
	}

	if err := job.Wait(); err != nil {
		return job.Description(), nil, err
	}

	artifact, err := session.Artifact()

	if err != nil {
		return job.Description(), nil, err
	}

	return job.Description(), artifact.Content, nil
}
