package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"lecture-qa/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSweeper_Sweep(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	lectures := new(MockLectureRepository)
	c := newMemCache()
	tracker := NewStatusTracker(c, time.Hour, nil)

	sweeper := NewSweeper(lectures, tracker, 30*time.Minute)
	sweeper.now = func() time.Time { return now }

	lectures.On("ListStale", mock.Anything, domain.StatusProcessing, now.Add(-30*time.Minute)).
		Return([]*domain.Lecture{{ID: "L1"}, {ID: "L2"}, {ID: "L3"}}, nil)
	lectures.On("UpdateStatus", mock.Anything, "L1", domain.StatusError, StaleProcessingMessage).Return(nil)
	lectures.On("UpdateStatus", mock.Anything, "L2", domain.StatusError, StaleProcessingMessage).Return(errors.New("locked"))
	lectures.On("UpdateStatus", mock.Anything, "L3", domain.StatusError, StaleProcessingMessage).Return(nil)

	marked, err := sweeper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, marked)
	assert.Equal(t, StageFailed, tracker.Get(context.Background(), "L1")[FieldStage])
	assert.Nil(t, tracker.Get(context.Background(), "L2"))
	lectures.AssertExpectations(t)
}

func TestSweeper_ListError(t *testing.T) {
	lectures := new(MockLectureRepository)
	lectures.On("ListStale", mock.Anything, domain.StatusProcessing, mock.Anything).Return(nil, errors.New("db down"))

	marked, err := NewSweeper(lectures, nil, time.Minute).Sweep(context.Background())

	assert.Error(t, err)
	assert.Zero(t, marked)
}

func TestSweeper_StartRejectsBadSchedule(t *testing.T) {
	sweeper := NewSweeper(new(MockLectureRepository), nil, time.Minute)

	assert.Error(t, sweeper.Start(context.Background(), "every now and then"))
	assert.NotPanics(t, sweeper.Stop)
}

func TestSweeper_StartAndStop(t *testing.T) {
	lectures := new(MockLectureRepository)
	lectures.On("ListStale", mock.Anything, domain.StatusProcessing, mock.Anything).Return([]*domain.Lecture{}, nil).Maybe()
	sweeper := NewSweeper(lectures, nil, time.Minute)

	require.NoError(t, sweeper.Start(context.Background(), "@every 1h"))
	sweeper.Stop()
}
