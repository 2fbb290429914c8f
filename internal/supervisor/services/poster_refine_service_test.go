// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// fakeRefiner runs until cancelled unless exitEarly is set.
type fakeRefiner struct {
	exitEarly bool
	serves    atomic.Int32
}

func (f *fakeRefiner) Serve(ctx context.Context) error {
	f.serves.Add(1)
	if f.exitEarly {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeRefiner) Pending() int { return 0 }

var _ suture.Service = (*PosterRefineService)(nil)

func TestPosterRefineService_StopsOnCancel(t *testing.T) {
	refiner := &fakeRefiner{}
	svc := NewPosterRefineService(refiner, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestPosterRefineService_UnexpectedExitIsError(t *testing.T) {
	svc := NewPosterRefineService(&fakeRefiner{exitEarly: true}, zerolog.Nop())
	if err := svc.Serve(context.Background()); err == nil {
		t.Error("an early worker exit should be reported so suture restarts it")
	}
	if svc.String() != "poster-refine-service" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestPosterRefineService_RestartedBySupervisor(t *testing.T) {
	refiner := &fakeRefiner{exitEarly: true}
	sup := suture.New("test", suture.Spec{
		FailureThreshold: 100,
		FailureBackoff:   time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(NewPosterRefineService(refiner, zerolog.Nop()))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	errCh := sup.ServeBackground(ctx)

	deadline := time.Now().Add(time.Second)
	for refiner.serves.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if refiner.serves.Load() < 2 {
		t.Errorf("serves = %d, want restarts", refiner.serves.Load())
	}
	cancel()
	<-errCh
}
