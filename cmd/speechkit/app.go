package main

import (
	"context"
	"fmt"

	"github.com/AltairaLabs/speechkit/pkg/config"
	"github.com/AltairaLabs/speechkit/runtime/artifacts"
	"github.com/AltairaLabs/speechkit/runtime/artifacts/local"
	"github.com/AltairaLabs/speechkit/runtime/artifacts/s3"
	"github.com/AltairaLabs/speechkit/runtime/stt"
	"github.com/AltairaLabs/speechkit/runtime/tools"
	"github.com/AltairaLabs/speechkit/runtime/tts"
)

// app holds the components built from the resolved settings.
type app struct {
	cfg   *config.SpeechConfig
	store artifacts.Store

	// files is set for the local backend so the server can sweep it.
	files *local.FileStore
}

func newApp(ctx context.Context, cfg *config.SpeechConfig) (*app, error) {
	a := &app{cfg: cfg}
	switch cfg.Spec.Artifacts.Backend {
	case config.ArtifactBackendS3:
		store, err := s3.New(ctx, cfg.Spec.Artifacts.S3Config())
		if err != nil {
			return nil, fmt.Errorf("artifact store: %w", err)
		}
		a.store = store
	default:
		fsCfg, err := cfg.Spec.Artifacts.FileStoreConfig()
		if err != nil {
			return nil, fmt.Errorf("artifact store: %w", err)
		}
		files, err := local.NewFileStore(fsCfg)
		if err != nil {
			return nil, fmt.Errorf("artifact store: %w", err)
		}
		a.store, a.files = files, files
	}
	return a, nil
}

func (a *app) transcriber(mutate func(*stt.Config)) *stt.Client {
	cfg := a.cfg.Spec.STT.ClientConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return stt.NewClient(cfg)
}

func (a *app) synthesizer(mutate func(*tts.Config)) *tts.Client {
	cfg := a.cfg.Spec.TTS.ClientConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return tts.NewClient(cfg, tts.WithArtifactStore(a.store))
}

func (a *app) registry(opts ...tools.RegistryOption) (*tools.Registry, error) {
	r := tools.NewRegistry(opts...)
	err := tools.RegisterBuiltins(r,
		tools.NewTranscribeTool(a.cfg.Spec.STT.ClientConfig()),
		tools.NewSynthesizeTool(a.cfg.Spec.TTS.ClientConfig(), tts.WithArtifactStore(a.store)),
		tools.NewReadTextTool(a.cfg.Spec.Reader.TextReader()),
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}
