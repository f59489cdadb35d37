//go:build !integration

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/loadplan-service/internal/domain/model"
	"github.com/guttosm/loadplan-service/internal/mocks"
	"github.com/guttosm/loadplan-service/internal/repository"
)

func TestLoggingService_CreateLog(t *testing.T) {
	tests := []struct {
		name      string
		entry     *model.LogEntry
		setupMock func(*mocks.MockLogsRepositoryInterface)
		wantError bool
	}{
		{
			name:  "audit entry keeps subject and action",
			entry: &model.LogEntry{Level: "info", Message: "Allocation planned", Subject: "planner-ui", ActionType: model.ActionPlanAllocate},
			setupMock: func(m *mocks.MockLogsRepositoryInterface) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(doc *repository.LogEntryDocument) bool {
					return doc.Subject == "planner-ui" && doc.ActionType == model.ActionPlanAllocate && !doc.ID.IsZero()
				})).Return(nil)
			},
		},
		{
			name:  "existing id is kept",
			entry: &model.LogEntry{ID: primitive.NewObjectID(), Level: "info"},
			setupMock: func(m *mocks.MockLogsRepositoryInterface) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*repository.LogEntryDocument")).Return(nil)
			},
		},
		{
			name:  "repository error",
			entry: &model.LogEntry{Level: "info"},
			setupMock: func(m *mocks.MockLogsRepositoryInterface) {
				m.On("Create", mock.Anything, mock.Anything).Return(errors.New("database error"))
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockLogsRepositoryInterface)
			tt.setupMock(repo)

			err := NewLoggingService(repo).CreateLog(context.Background(), tt.entry)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.False(t, tt.entry.ID.IsZero())
				assert.False(t, tt.entry.Timestamp.IsZero())
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestLoggingService_CreateLogs(t *testing.T) {
	tests := []struct {
		name      string
		entries   []*model.LogEntry
		setupMock func(*mocks.MockLogsRepositoryInterface)
		wantError bool
	}{
		{
			name:    "batch",
			entries: []*model.LogEntry{{Message: "one"}, {Message: "two"}},
			setupMock: func(m *mocks.MockLogsRepositoryInterface) {
				m.On("CreateMany", mock.Anything, mock.MatchedBy(func(docs []*repository.LogEntryDocument) bool {
					return len(docs) == 2
				})).Return(nil)
			},
		},
		{
			name:      "empty batch skips the store",
			entries:   nil,
			setupMock: func(m *mocks.MockLogsRepositoryInterface) {},
		},
		{
			name:    "repository error",
			entries: []*model.LogEntry{{Message: "one"}},
			setupMock: func(m *mocks.MockLogsRepositoryInterface) {
				m.On("CreateMany", mock.Anything, mock.Anything).Return(errors.New("database error"))
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockLogsRepositoryInterface)
			tt.setupMock(repo)

			err := NewLoggingService(repo).CreateLogs(context.Background(), tt.entries)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestLoggingService_QueryAndCount(t *testing.T) {
	since := time.Now().Add(-time.Hour)
	opts := model.LogQueryOptions{ActionType: model.ActionPlanMulti, StartTime: &since, Limit: 10}
	matches := mock.MatchedBy(func(o repository.LogQueryOptions) bool {
		return o.ActionType == model.ActionPlanMulti && o.StartTime == &since && o.Limit == 10
	})

	repo := new(mocks.MockLogsRepositoryInterface)
	repo.On("Query", mock.Anything, matches).Return([]*repository.LogEntryDocument{
		{ID: primitive.NewObjectID(), Subject: "svc", ActionType: model.ActionPlanMulti},
	}, nil)
	repo.On("Count", mock.Anything, matches).Return(int64(1), nil)

	svc := NewLoggingService(repo)
	entries, err := svc.QueryLogs(context.Background(), opts)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "svc", entries[0].Subject)

	count, err := svc.CountLogs(context.Background(), opts)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
	repo.AssertExpectations(t)
}

func TestLoggingService_QueryError(t *testing.T) {
	repo := new(mocks.MockLogsRepositoryInterface)
	repo.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("database error"))

	entries, err := NewLoggingService(repo).QueryLogs(context.Background(), model.LogQueryOptions{})
	assert.Error(t, err)
	assert.Nil(t, entries)
}

func TestLogDocumentConversion(t *testing.T) {
	entry := &model.LogEntry{
		Level:      "error",
		Message:    "export failed",
		RequestID:  "req-1",
		Method:     "POST",
		Path:       "/api/plans/export",
		StatusCode: 500,
		Duration:   12,
		IP:         "127.0.0.1",
		UserAgent:  "curl",
		Error:      "boom",
		Subject:    "svc",
		ActionType: model.ActionPlanExport,
		Fields:     map[string]interface{}{"format": "pdf"},
	}

	back := toEntry(toDocument(entry))
	assert.Equal(t, *entry, back)
}
