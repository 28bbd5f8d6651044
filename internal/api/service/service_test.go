package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dtsonov/jobprocessor/internal/api/domain"
	"github.com/dtsonov/jobprocessor/internal/api/model"
	"github.com/dtsonov/jobprocessor/internal/api/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	mu         sync.Mutex
	dispatched []string
	err        error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, job *model.Job) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.dispatched = append(d.dispatched, job.JobID)
	return nil
}

func newTestService(dispatcher Dispatcher) *JobService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewJobService(storage.NewMemoryStorage(), dispatcher, logger)
}

func TestJobService_Create(t *testing.T) {
	tests := []struct {
		name       string
		prompt     string
		wantErr    bool
		wantPrompt string
	}{
		{
			name:       "valid prompt",
			prompt:     "summarize X",
			wantPrompt: "summarize X",
		},
		{
			name:       "prompt is trimmed",
			prompt:     "  summarize X  \n",
			wantPrompt: "summarize X",
		},
		{
			name:       "single character",
			prompt:     "a",
			wantPrompt: "a",
		},
		{
			name:       "max length",
			prompt:     strings.Repeat("a", 5000),
			wantPrompt: strings.Repeat("a", 5000),
		},
		{
			// 3000 characters but 6000 bytes; bounds count characters
			name:       "multibyte prompt under the limit",
			prompt:     strings.Repeat("é", 3000),
			wantPrompt: strings.Repeat("é", 3000),
		},
		{
			name:       "multibyte prompt at max length",
			prompt:     strings.Repeat("é", 5000),
			wantPrompt: strings.Repeat("é", 5000),
		},
		{
			name:    "empty prompt",
			prompt:  "",
			wantErr: true,
		},
		{
			name:    "whitespace-only prompt",
			prompt:  "   \t\n  ",
			wantErr: true,
		},
		{
			name:    "too long",
			prompt:  strings.Repeat("a", 5001),
			wantErr: true,
		},
		{
			name:    "multibyte prompt over the limit",
			prompt:  strings.Repeat("é", 5001),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := &fakeDispatcher{}
			svc := newTestService(dispatcher)

			job, err := svc.Create(context.Background(), tt.prompt)

			if tt.wantErr {
				require.Error(t, err)
				var validationErr *domain.ValidationError
				assert.ErrorAs(t, err, &validationErr)
				assert.Nil(t, job)
				// Nothing persisted, nothing dispatched
				jobs, listErr := svc.List(context.Background())
				require.NoError(t, listErr)
				assert.Empty(t, jobs)
				assert.Empty(t, dispatcher.dispatched)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, job)
			assert.NotEmpty(t, job.JobID)
			assert.Equal(t, tt.wantPrompt, job.Prompt)
			assert.Equal(t, domain.JobStatusPending, job.Status)
			assert.Nil(t, job.Result)
			assert.Equal(t, job.CreatedAt, job.UpdatedAt)

			// Dispatched exactly once, after the create succeeded
			assert.Equal(t, []string{job.JobID}, dispatcher.dispatched)
		})
	}
}

func TestJobService_Create_DispatchFailureDoesNotFailCreate(t *testing.T) {
	dispatcher := &fakeDispatcher{err: errors.New("broker unavailable")}
	svc := newTestService(dispatcher)

	job, err := svc.Create(context.Background(), "summarize X")
	require.NoError(t, err)

	// Job persisted and still PENDING
	got, err := svc.Get(context.Background(), job.JobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPending, got.Status)
}

func TestJobService_Get(t *testing.T) {
	svc := newTestService(&fakeDispatcher{})

	created, err := svc.Create(context.Background(), "summarize X")
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.JobID)
	require.NoError(t, err)
	assert.Equal(t, created.JobID, got.JobID)
	assert.Equal(t, domain.JobStatusPending, got.Status)

	_, err = svc.Get(context.Background(), "6f1c9e6e-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)

	_, err = svc.Get(context.Background(), "")
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestJobService_List_NewestFirst(t *testing.T) {
	svc := newTestService(&fakeDispatcher{})

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	next := base
	svc.now = func() time.Time {
		next = next.Add(time.Second)
		return next
	}

	a, err := svc.Create(context.Background(), "job A")
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), "job B")
	require.NoError(t, err)
	c, err := svc.Create(context.Background(), "job C")
	require.NoError(t, err)

	jobs, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	assert.Equal(t, c.JobID, jobs[0].JobID)
	assert.Equal(t, b.JobID, jobs[1].JobID)
	assert.Equal(t, a.JobID, jobs[2].JobID)
}

func TestJobService_List_Empty(t *testing.T) {
	svc := newTestService(&fakeDispatcher{})

	jobs, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestJobService_Complete(t *testing.T) {
	svc := newTestService(&fakeDispatcher{})

	created, err := svc.Create(context.Background(), "summarize X")
	require.NoError(t, err)

	updated, err := svc.Complete(context.Background(), created.JobID, `{"ok":true}`)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, updated.Status)
	require.NotNil(t, updated.Result)
	assert.Equal(t, `{"ok":true}`, *updated.Result)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	got, err := svc.Get(context.Background(), created.JobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, `{"ok":true}`, *got.Result)
}

func TestJobService_Complete_Validation(t *testing.T) {
	svc := newTestService(&fakeDispatcher{})

	var validationErr *domain.ValidationError

	_, err := svc.Complete(context.Background(), "", "result")
	assert.ErrorAs(t, err, &validationErr)

	_, err = svc.Complete(context.Background(), "some-id", "")
	assert.ErrorAs(t, err, &validationErr)
}

func TestJobService_Complete_NotFound(t *testing.T) {
	svc := newTestService(&fakeDispatcher{})

	_, err := svc.Complete(context.Background(), "6f1c9e6e-0000-0000-0000-000000000000", "result")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestJobService_Complete_AlreadyFinished(t *testing.T) {
	svc := newTestService(&fakeDispatcher{})

	created, err := svc.Create(context.Background(), "summarize X")
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), created.JobID, "first")
	require.NoError(t, err)

	// A replayed callback must not clobber the stored result
	_, err = svc.Complete(context.Background(), created.JobID, "second")
	assert.ErrorIs(t, err, domain.ErrJobAlreadyFinished)

	got, err := svc.Get(context.Background(), created.JobID)
	require.NoError(t, err)
	require.NotNil(t, got.Result)
	assert.Equal(t, "first", *got.Result)
}

func TestJobService_Fail(t *testing.T) {
	svc := newTestService(&fakeDispatcher{})

	created, err := svc.Create(context.Background(), "summarize X")
	require.NoError(t, err)

	updated, err := svc.Fail(context.Background(), created.JobID, "worker gave up")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusFailed, updated.Status)
	require.NotNil(t, updated.Result)
	assert.Equal(t, "worker gave up", *updated.Result)

	// FAILED is terminal too
	_, err = svc.Complete(context.Background(), created.JobID, "too late")
	assert.ErrorIs(t, err, domain.ErrJobAlreadyFinished)
}

func TestJobService_ConcurrentCompleteAndGet(t *testing.T) {
	svc := newTestService(&fakeDispatcher{})

	created, err := svc.Create(context.Background(), "summarize X")
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	// Readers must never observe a torn record: COMPLETED without a
	// result, or PENDING with one.
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}

				job, err := svc.Get(context.Background(), created.JobID)
				if !assert.NoError(t, err) {
					return
				}

				switch job.Status {
				case domain.JobStatusPending:
					assert.Nil(t, job.Result)
				case domain.JobStatusCompleted:
					assert.NotNil(t, job.Result)
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Complete(context.Background(), created.JobID, `{"ok":true}`)
		assert.NoError(t, err)
		close(stop)
	}()

	wg.Wait()
}

func TestJobService_ConcurrentComplete_OnlyOneWins(t *testing.T) {
	svc := newTestService(&fakeDispatcher{})

	created, err := svc.Create(context.Background(), "summarize X")
	require.NoError(t, err)

	const attempts = 8
	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.Complete(context.Background(), created.JobID, "result")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var succeeded, conflicted int
	for err := range errs {
		if err == nil {
			succeeded++
		} else if errors.Is(err, domain.ErrJobAlreadyFinished) {
			conflicted++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicted)
}
