package dal

import (
	"context"

	"github.com/GuRuGuMaWaRu/jobprep/cache"
	"github.com/GuRuGuMaWaRu/jobprep/datacache"
	"github.com/GuRuGuMaWaRu/jobprep/model"
	"github.com/GuRuGuMaWaRu/jobprep/storage"
)

// QuestionDAL is the data access module for questions. Ownership joins
// through the job info table, like interviews.
type QuestionDAL struct {
	table    storage.Table[model.Question]
	jobInfos storage.Table[model.JobInfo]
	deps     Deps
}

// NewQuestionDAL creates a QuestionDAL over the given tables.
func NewQuestionDAL(table storage.Table[model.Question], jobInfos storage.Table[model.JobInfo], deps Deps) *QuestionDAL {
	return &QuestionDAL{table: table, jobInfos: jobInfos, deps: deps.withDefaults()}
}

// FindByID returns the question with the given id regardless of owner.
func (d *QuestionDAL) FindByID(ctx context.Context, id string) (model.Question, bool, error) {
	key := d.deps.Keys.SerializeKey("questions.find_by_id", id)
	tags := []string{datacache.IDTag(datacache.KindQuestion, id)}

	res, err := cache.GetOrCompute(ctx, d.deps.Cache, key, tags, func(ctx context.Context) (lookup[model.Question], error) {
		rec, ok, err := d.table.Load(ctx, id)
		if err != nil {
			return lookup[model.Question]{}, d.deps.fault(ctx, "load question", err)
		}
		if !ok {
			return lookup[model.Question]{}, nil
		}
		cache.AddTags(ctx, datacache.IDTag(datacache.KindJobInfo, rec.JobInfoID))
		return lookup[model.Question]{Rec: rec, OK: true}, nil
	})
	if err != nil {
		return model.Question{}, false, err
	}
	return res.Rec, res.OK, nil
}

// FindByIDForOwner returns the question only when its job info is owned by
// ownerID. Absence and foreign ownership are indistinguishable.
func (d *QuestionDAL) FindByIDForOwner(ctx context.Context, id, ownerID string) (model.Question, bool, error) {
	key := d.deps.Keys.SerializeKey("questions.find_by_id_for_owner", id, ownerID)
	tags := []string{datacache.IDTag(datacache.KindQuestion, id)}

	res, err := cache.GetOrCompute(ctx, d.deps.Cache, key, tags, func(ctx context.Context) (lookup[model.Question], error) {
		rec, ok, err := d.table.Load(ctx, id)
		if err != nil {
			return lookup[model.Question]{}, d.deps.fault(ctx, "load question", err)
		}
		if !ok {
			return lookup[model.Question]{}, nil
		}

		jobInfo, ok, err := d.jobInfos.Load(ctx, rec.JobInfoID)
		if err != nil {
			return lookup[model.Question]{}, d.deps.fault(ctx, "load question job info", err)
		}
		if !ok {
			return lookup[model.Question]{}, nil
		}
		cache.AddTags(ctx,
			datacache.IDTag(datacache.KindJobInfo, jobInfo.ID),
			datacache.OwnerTag(datacache.KindQuestion, jobInfo.UserID),
		)
		if jobInfo.UserID != ownerID {
			return lookup[model.Question]{}, nil
		}
		return lookup[model.Question]{Rec: rec, OK: true}, nil
	})
	if err != nil {
		return model.Question{}, false, err
	}
	return res.Rec, res.OK, nil
}

// ListForJobInfo returns every question under the job info, newest first.
func (d *QuestionDAL) ListForJobInfo(ctx context.Context, jobInfoID string) ([]model.Question, error) {
	key := d.deps.Keys.SerializeKey("questions.list_for_job_info", jobInfoID)
	tags := []string{
		datacache.ParentTag(datacache.KindQuestion, jobInfoID),
		datacache.IDTag(datacache.KindJobInfo, jobInfoID),
	}

	recs, err := cache.GetOrCompute(ctx, d.deps.Cache, key, tags, func(ctx context.Context) ([]model.Question, error) {
		recs, err := d.table.LoadWhere(ctx, storage.Filter{ParentID: jobInfoID})
		if err != nil {
			return nil, d.deps.fault(ctx, "list questions", err)
		}
		return recs, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]model.Question(nil), recs...), nil
}

// FindAllForOwner returns every question under any of the owner's job
// infos, tagged like InterviewDAL.FindAllForOwner.
func (d *QuestionDAL) FindAllForOwner(ctx context.Context, ownerID string) ([]model.Question, error) {
	key := d.deps.Keys.SerializeKey("questions.find_all_for_owner", ownerID)
	tags := []string{
		datacache.OwnerTag(datacache.KindQuestion, ownerID),
		datacache.GlobalTag(datacache.KindQuestion),
	}

	recs, err := cache.GetOrCompute(ctx, d.deps.Cache, key, tags, func(ctx context.Context) ([]model.Question, error) {
		jobInfos, err := d.jobInfos.LoadWhere(ctx, storage.Filter{OwnerID: ownerID})
		if err != nil {
			return nil, d.deps.fault(ctx, "list job infos", err)
		}
		var out []model.Question
		for _, jobInfo := range jobInfos {
			cache.AddTags(ctx,
				datacache.IDTag(datacache.KindJobInfo, jobInfo.ID),
				datacache.ParentTag(datacache.KindQuestion, jobInfo.ID),
			)
			recs, err := d.table.LoadWhere(ctx, storage.Filter{ParentID: jobInfo.ID})
			if err != nil {
				return nil, d.deps.fault(ctx, "list questions", err)
			}
			out = append(out, recs...)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]model.Question(nil), recs...), nil
}

// Insert stores a new question and invalidates its derivation tags.
func (d *QuestionDAL) Insert(ctx context.Context, draft model.QuestionDraft) (model.Question, error) {
	now := d.deps.Now()
	rec := model.Question{
		ID:         d.deps.NewID(),
		JobInfoID:  draft.JobInfoID,
		Text:       draft.Text,
		Difficulty: draft.Difficulty,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	stored, err := d.table.Insert(ctx, rec)
	if err != nil {
		return model.Question{}, d.deps.fault(ctx, "insert question", err)
	}

	if err := d.deps.Revalidate.Dispatch(ctx, datacache.WriteEvent{
		Kind:     datacache.KindQuestion,
		ID:       stored.ID,
		OwnerID:  draft.OwnerID,
		ParentID: stored.JobInfoID,
	}); err != nil {
		return model.Question{}, err
	}
	return stored, nil
}

// Update applies the patch to the question and invalidates its tags.
func (d *QuestionDAL) Update(ctx context.Context, id string, patch model.QuestionPatch) (model.Question, error) {
	fields := storage.Fields{"updated_at": d.deps.Now()}
	if patch.Text != nil {
		fields["text"] = *patch.Text
	}
	if patch.Difficulty != nil {
		fields["difficulty"] = string(*patch.Difficulty)
	}

	rec, ok, err := d.table.Update(ctx, id, fields)
	if err != nil {
		return model.Question{}, d.deps.fault(ctx, "update question", err)
	}
	if !ok {
		return model.Question{}, d.deps.fault(ctx, "update question", errNoRows)
	}

	// Owner resolution is best effort: the kind's global tag is always in
	// the dispatched closure, so owner-scoped entries refresh either way.
	ownerID := ""
	jobInfo, ok, err := d.jobInfos.Load(ctx, rec.JobInfoID)
	if err != nil {
		d.deps.Logger.ErrorContext(ctx, "storage fault", "op", "load question job info", "error", err)
	} else if ok {
		ownerID = jobInfo.UserID
	}

	if err := d.deps.Revalidate.Dispatch(ctx, datacache.WriteEvent{
		Kind:     datacache.KindQuestion,
		ID:       rec.ID,
		OwnerID:  ownerID,
		ParentID: rec.JobInfoID,
	}); err != nil {
		return model.Question{}, err
	}
	return rec, nil
}
