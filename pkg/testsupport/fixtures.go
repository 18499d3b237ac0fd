// Package testsupport provides in-memory wiring and entity builders shared
// by tests across the module.
package testsupport

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GuRuGuMaWaRu/jobprep/auth"
	"github.com/GuRuGuMaWaRu/jobprep/model"
	"github.com/GuRuGuMaWaRu/jobprep/pkg/di"
	"github.com/GuRuGuMaWaRu/jobprep/storage"
	"github.com/GuRuGuMaWaRu/jobprep/storage/memstore"
)

// MemTables holds in-memory tables for every entity kind, exposed
// concretely so tests can inject faults or inspect row counts.
type MemTables struct {
	Users      *memstore.Table[model.User]
	JobInfos   *memstore.Table[model.JobInfo]
	Interviews *memstore.Table[model.Interview]
	Questions  *memstore.Table[model.Question]
}

// NewMemTables builds in-memory tables with the ownership and parent
// filters each entity kind uses in production.
func NewMemTables() *MemTables {
	return &MemTables{
		Users: memstore.New(memstore.Options[model.User]{
			ID: func(u model.User) string { return u.ID },
		}),
		JobInfos: memstore.New(memstore.Options[model.JobInfo]{
			ID: func(j model.JobInfo) string { return j.ID },
			Match: func(j model.JobInfo, f storage.Filter) bool {
				return f.OwnerID == "" || j.UserID == f.OwnerID
			},
		}),
		Interviews: memstore.New(memstore.Options[model.Interview]{
			ID: func(i model.Interview) string { return i.ID },
			Match: func(i model.Interview, f storage.Filter) bool {
				return f.ParentID == "" || i.JobInfoID == f.ParentID
			},
		}),
		Questions: memstore.New(memstore.Options[model.Question]{
			ID: func(q model.Question) string { return q.ID },
			Match: func(q model.Question, f storage.Filter) bool {
				return f.ParentID == "" || q.JobInfoID == f.ParentID
			},
		}),
	}
}

// Tables adapts the in-memory tables to the container's wiring shape.
func (m *MemTables) Tables() di.Tables {
	return di.Tables{
		Users:      m.Users,
		JobInfos:   m.JobInfos,
		Interviews: m.Interviews,
		Questions:  m.Questions,
	}
}

// NewContainer builds a fully wired container over fresh in-memory tables.
func NewContainer(t testing.TB, opts ...di.Option) (*di.Container, *MemTables) {
	t.Helper()

	tables := NewMemTables()
	c, err := di.NewContainerWithDefaults(tables.Tables(), opts...)
	if err != nil {
		t.Fatalf("build container: %v", err)
	}
	return c, tables
}

// AsUser returns a context authenticated as the given user id.
func AsUser(userID string) context.Context {
	return auth.WithUser(context.Background(), userID)
}

// SequentialIDs returns an id generator producing "id-1", "id-2", ... for
// deterministic assertions.
func SequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("id-%d", n.Add(1))
	}
}

// User builds a stored user record.
func User(id string) model.User {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return model.User{
		ID:        id,
		Name:      "User " + id,
		Email:     id + "@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// JobInfo builds a stored job info record owned by ownerID.
func JobInfo(id, ownerID, name string) model.JobInfo {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return model.JobInfo{
		ID:              id,
		UserID:          ownerID,
		Name:            name,
		Description:     "Build and operate backend services.",
		ExperienceLevel: model.ExperienceMid,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Interview builds a stored interview record under jobInfoID.
func Interview(id, jobInfoID string) model.Interview {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return model.Interview{
		ID:        id,
		JobInfoID: jobInfoID,
		Duration:  "00:00:00",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Question builds a stored question record under jobInfoID.
func Question(id, jobInfoID, text string) model.Question {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return model.Question{
		ID:         id,
		JobInfoID:  jobInfoID,
		Text:       text,
		Difficulty: model.DifficultyMedium,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T {
	return &v
}
