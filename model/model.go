// Package model defines the entities the core operates on. Every entity is
// owned, directly or through its parent chain, by a User.
package model

import (
	"time"

	"github.com/uptrace/bun"
)

// ExperienceLevel is the seniority a job info targets.
type ExperienceLevel string

const (
	ExperienceJunior ExperienceLevel = "junior"
	ExperienceMid    ExperienceLevel = "mid-level"
	ExperienceSenior ExperienceLevel = "senior"
)

// ExperienceLevels returns every valid experience level.
func ExperienceLevels() []ExperienceLevel {
	return []ExperienceLevel{ExperienceJunior, ExperienceMid, ExperienceSenior}
}

// Valid reports whether l is a known experience level.
func (l ExperienceLevel) Valid() bool {
	switch l {
	case ExperienceJunior, ExperienceMid, ExperienceSenior:
		return true
	}
	return false
}

// QuestionDifficulty grades a generated question.
type QuestionDifficulty string

const (
	DifficultyEasy   QuestionDifficulty = "easy"
	DifficultyMedium QuestionDifficulty = "medium"
	DifficultyHard   QuestionDifficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d QuestionDifficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// User is an account synced from the identity provider. The id is the
// provider's subject and is immutable once created.
type User struct {
	bun.BaseModel `bun:"table:users" msgpack:"-"`

	ID        string    `bun:"id,pk" json:"id" msgpack:"id"`
	Name      string    `bun:"name,notnull" json:"name" msgpack:"name"`
	Email     string    `bun:"email,notnull,unique" json:"email" msgpack:"email"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt" msgpack:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updatedAt" msgpack:"updated_at"`
}

// UserDraft is the insert shape for User. The ID comes from the identity
// provider rather than being generated.
type UserDraft struct {
	ID    string
	Name  string
	Email string
}

// JobInfo is a job posting a user prepares for. UserID is set at creation
// and never reassigned.
type JobInfo struct {
	bun.BaseModel `bun:"table:job_infos" msgpack:"-"`

	ID              string          `bun:"id,pk" json:"id" msgpack:"id"`
	UserID          string          `bun:"user_id,notnull" json:"userId" msgpack:"user_id"`
	Name            string          `bun:"name,notnull" json:"name" msgpack:"name"`
	Title           *string         `bun:"title" json:"title,omitempty" msgpack:"title"`
	Description     string          `bun:"description,notnull" json:"description" msgpack:"description"`
	ExperienceLevel ExperienceLevel `bun:"experience_level,notnull" json:"experienceLevel" msgpack:"experience_level"`
	CreatedAt       time.Time       `bun:"created_at,notnull" json:"createdAt" msgpack:"created_at"`
	UpdatedAt       time.Time       `bun:"updated_at,notnull" json:"updatedAt" msgpack:"updated_at"`
}

// Clone returns a copy sharing no pointer fields with j.
func (j JobInfo) Clone() JobInfo {
	j.Title = cloneString(j.Title)
	return j
}

// JobInfoDraft is the insert shape for JobInfo. The service layer stamps
// UserID with the authenticated caller.
type JobInfoDraft struct {
	UserID          string
	Name            string
	Title           *string
	Description     string
	ExperienceLevel ExperienceLevel
}

// JobInfoPatch carries the fields an update may change. Nil fields are left
// untouched.
type JobInfoPatch struct {
	Name            *string
	Title           *string
	Description     *string
	ExperienceLevel *ExperienceLevel
}

// Interview is one practice session under a job info. It is visible only to
// the owner of its job info.
type Interview struct {
	bun.BaseModel `bun:"table:interviews" msgpack:"-"`

	ID         string    `bun:"id,pk" json:"id" msgpack:"id"`
	JobInfoID  string    `bun:"job_info_id,notnull" json:"jobInfoId" msgpack:"job_info_id"`
	Duration   string    `bun:"duration,notnull" json:"duration" msgpack:"duration"`
	HumeChatID *string   `bun:"hume_chat_id" json:"humeChatId,omitempty" msgpack:"hume_chat_id"`
	Feedback   *string   `bun:"feedback" json:"feedback,omitempty" msgpack:"feedback"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"createdAt" msgpack:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,notnull" json:"updatedAt" msgpack:"updated_at"`
}

// Clone returns a copy sharing no pointer fields with i.
func (i Interview) Clone() Interview {
	i.HumeChatID = cloneString(i.HumeChatID)
	i.Feedback = cloneString(i.Feedback)
	return i
}

// InterviewDraft is the insert shape for Interview. OwnerID is the parent
// job info's owner; it is not persisted on the row and exists so the write
// can invalidate owner-scoped caches.
type InterviewDraft struct {
	JobInfoID string
	Duration  string
	OwnerID   string
}

// InterviewPatch carries the fields an interview update may change.
type InterviewPatch struct {
	Duration   *string
	HumeChatID *string
	Feedback   *string
}

// Question is a generated practice question under a job info, with the same
// ownership rule as Interview.
type Question struct {
	bun.BaseModel `bun:"table:questions" msgpack:"-"`

	ID         string             `bun:"id,pk" json:"id" msgpack:"id"`
	JobInfoID  string             `bun:"job_info_id,notnull" json:"jobInfoId" msgpack:"job_info_id"`
	Text       string             `bun:"text,notnull" json:"text" msgpack:"text"`
	Difficulty QuestionDifficulty `bun:"difficulty,notnull" json:"difficulty" msgpack:"difficulty"`
	CreatedAt  time.Time          `bun:"created_at,notnull" json:"createdAt" msgpack:"created_at"`
	UpdatedAt  time.Time          `bun:"updated_at,notnull" json:"updatedAt" msgpack:"updated_at"`
}

// QuestionDraft is the insert shape for Question. OwnerID plays the same
// invalidation-only role as on InterviewDraft.
type QuestionDraft struct {
	JobInfoID  string
	Text       string
	Difficulty QuestionDifficulty
	OwnerID    string
}

// QuestionPatch carries the fields a question update may change.
type QuestionPatch struct {
	Text       *string
	Difficulty *QuestionDifficulty
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
