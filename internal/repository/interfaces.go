package repository

import (
	"context"
	"errors"
	"time"

	"github.com/deeg9/rfqengine/internal/blueprint"
	"github.com/deeg9/rfqengine/internal/engine"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// BlueprintRecord is a stored blueprint with its optional completeness
// config. A nil Config means the engine defaults apply.
type BlueprintRecord struct {
	Blueprint blueprint.Blueprint
	Config    *engine.Config
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Draft is a saved in-progress form: which blueprint it fills, the
// serialized answers, and the wizard position and score at save time.
type Draft struct {
	ID        string
	FormID    string
	Name      string
	Answers   []byte
	Step      int
	Score     int
	Band      engine.Band
	CreatedAt time.Time
	UpdatedAt time.Time
}

type BlueprintRepo interface {
	Put(ctx context.Context, rec *BlueprintRecord) error
	GetByFormID(ctx context.Context, formID string) (*BlueprintRecord, error)
	List(ctx context.Context) ([]*BlueprintRecord, error)
	ListByCategory(ctx context.Context, category string) ([]*BlueprintRecord, error)
	Delete(ctx context.Context, formID string) error
}

type DraftRepo interface {
	Save(ctx context.Context, d *Draft) error
	GetByID(ctx context.Context, id string) (*Draft, error)
	ListByForm(ctx context.Context, formID string) ([]*Draft, error)
	List(ctx context.Context) ([]*Draft, error)
	Delete(ctx context.Context, id string) error
}
