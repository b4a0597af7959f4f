package model

import (
	"context"
	"errors"
	"fmt"
)

// Resolver is one strategy for locating the model.
type Resolver interface {
	Resolve(ctx context.Context) (Predictor, error)
	Source() string
}

// FileResolver loads a linear artifact from Path.
type FileResolver struct {
	Path string
}

func (r FileResolver) Source() string { return "file:" + r.Path }

func (r FileResolver) Resolve(ctx context.Context) (Predictor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a, err := LoadArtifact(r.Path)
	if err != nil {
		return nil, err
	}
	return NewLinear(a), nil
}

// RemoteResolver builds a Remote predictor.
type RemoteResolver struct {
	Config RemoteConfig
}

func (r RemoteResolver) Source() string { return "remote:" + r.Config.Endpoint }

func (r RemoteResolver) Resolve(ctx context.Context) (Predictor, error) {
	return NewRemote(ctx, r.Config)
}

// Chain tries resolvers in order and returns the first success along with
// its source. If all fail, the error lists every attempt.
func Chain(ctx context.Context, resolvers ...Resolver) (Predictor, string, error) {
	if len(resolvers) == 0 {
		return nil, "", &UnavailableError{Attempts: []string{"no model sources configured"}}
	}
	var attempts []string
	for _, r := range resolvers {
		p, err := r.Resolve(ctx)
		if err == nil {
			return p, r.Source(), nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, "", err
		}
		attempts = append(attempts, fmt.Sprintf("%s: %v", r.Source(), err))
	}
	return nil, "", &UnavailableError{Attempts: attempts}
}

// Resolvers builds the default chain: each path in order, then the remote
// endpoint if set.
func Resolvers(paths []string, remote RemoteConfig) []Resolver {
	out := make([]Resolver, 0, len(paths)+1)
	for _, p := range paths {
		out = append(out, FileResolver{Path: p})
	}
	if remote.Endpoint != "" {
		out = append(out, RemoteResolver{Config: remote})
	}
	return out
}
