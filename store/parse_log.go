package store

import (
	"context"

	"github.com/lithammer/shortuuid/v4"
)

// ParseLog records one natural-language parse attempt and how the user
// reacted to it.
type ParseLog struct {
	ID     int32
	UID    string
	UserID string

	InputText string
	// ParsedResult is the raw JSON the client received, if any.
	ParsedResult *string
	Success      bool
	Title        string
	Timezone     string

	ConfidenceScore *float64 // 0-1
	UserAccepted    *bool

	CreatedTs int64
}

// FindParseLog specifies the conditions for finding parse logs.
// Results are ordered newest first.
type FindParseLog struct {
	ID            *int32
	UID           *string
	UserID        *string
	CreatedBefore *int64
	Limit         int
}

// DeleteParseLog specifies the conditions for deleting parse logs.
type DeleteParseLog struct {
	UserID        *string
	CreatedBefore *int64
}

// CreateParseLog stores a parse log, generating a UID when none is set.
func (s *Store) CreateParseLog(ctx context.Context, create *ParseLog) (*ParseLog, error) {
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	return s.driver.CreateParseLog(ctx, create)
}

func (s *Store) ListParseLogs(ctx context.Context, find *FindParseLog) ([]*ParseLog, error) {
	return s.driver.ListParseLogs(ctx, find)
}

func (s *Store) GetParseLog(ctx context.Context, find *FindParseLog) (*ParseLog, error) {
	list, err := s.ListParseLogs(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// DeleteParseLogs removes matching logs and reports how many were deleted.
func (s *Store) DeleteParseLogs(ctx context.Context, delete *DeleteParseLog) (int64, error) {
	return s.driver.DeleteParseLogs(ctx, delete)
}
