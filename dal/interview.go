package dal

import (
	"context"

	"github.com/GuRuGuMaWaRu/jobprep/cache"
	"github.com/GuRuGuMaWaRu/jobprep/datacache"
	"github.com/GuRuGuMaWaRu/jobprep/model"
	"github.com/GuRuGuMaWaRu/jobprep/storage"
)

// InterviewDAL is the data access module for interviews. Interviews are
// addressed through their job info, so ownership checks join through the
// job info table and cached reads additionally carry job-info tags.
type InterviewDAL struct {
	table    storage.Table[model.Interview]
	jobInfos storage.Table[model.JobInfo]
	deps     Deps
}

// NewInterviewDAL creates an InterviewDAL over the given tables.
func NewInterviewDAL(table storage.Table[model.Interview], jobInfos storage.Table[model.JobInfo], deps Deps) *InterviewDAL {
	return &InterviewDAL{table: table, jobInfos: jobInfos, deps: deps.withDefaults()}
}

// FindByID returns the interview with the given id regardless of owner.
func (d *InterviewDAL) FindByID(ctx context.Context, id string) (model.Interview, bool, error) {
	key := d.deps.Keys.SerializeKey("interviews.find_by_id", id)
	tags := []string{datacache.IDTag(datacache.KindInterview, id)}

	res, err := cache.GetOrCompute(ctx, d.deps.Cache, key, tags, func(ctx context.Context) (lookup[model.Interview], error) {
		rec, ok, err := d.table.Load(ctx, id)
		if err != nil {
			return lookup[model.Interview]{}, d.deps.fault(ctx, "load interview", err)
		}
		if !ok {
			return lookup[model.Interview]{}, nil
		}
		cache.AddTags(ctx, datacache.IDTag(datacache.KindJobInfo, rec.JobInfoID))
		return lookup[model.Interview]{Rec: rec, OK: true}, nil
	})
	if err != nil {
		return model.Interview{}, false, err
	}
	return res.Rec.Clone(), res.OK, nil
}

// FindByIDForOwner returns the interview only when its job info is owned by
// ownerID. Absence and foreign ownership are indistinguishable.
func (d *InterviewDAL) FindByIDForOwner(ctx context.Context, id, ownerID string) (model.Interview, bool, error) {
	key := d.deps.Keys.SerializeKey("interviews.find_by_id_for_owner", id, ownerID)
	tags := []string{datacache.IDTag(datacache.KindInterview, id)}

	res, err := cache.GetOrCompute(ctx, d.deps.Cache, key, tags, func(ctx context.Context) (lookup[model.Interview], error) {
		rec, ok, err := d.table.Load(ctx, id)
		if err != nil {
			return lookup[model.Interview]{}, d.deps.fault(ctx, "load interview", err)
		}
		if !ok {
			return lookup[model.Interview]{}, nil
		}

		jobInfo, ok, err := d.jobInfos.Load(ctx, rec.JobInfoID)
		if err != nil {
			return lookup[model.Interview]{}, d.deps.fault(ctx, "load interview job info", err)
		}
		if !ok {
			return lookup[model.Interview]{}, nil
		}
		cache.AddTags(ctx,
			datacache.IDTag(datacache.KindJobInfo, jobInfo.ID),
			datacache.OwnerTag(datacache.KindInterview, jobInfo.UserID),
		)
		if jobInfo.UserID != ownerID {
			return lookup[model.Interview]{}, nil
		}
		return lookup[model.Interview]{Rec: rec, OK: true}, nil
	})
	if err != nil {
		return model.Interview{}, false, err
	}
	return res.Rec.Clone(), res.OK, nil
}

// ListForJobInfo returns every interview under the job info, newest first.
func (d *InterviewDAL) ListForJobInfo(ctx context.Context, jobInfoID string) ([]model.Interview, error) {
	key := d.deps.Keys.SerializeKey("interviews.list_for_job_info", jobInfoID)
	tags := []string{
		datacache.ParentTag(datacache.KindInterview, jobInfoID),
		datacache.IDTag(datacache.KindJobInfo, jobInfoID),
	}

	recs, err := cache.GetOrCompute(ctx, d.deps.Cache, key, tags, func(ctx context.Context) ([]model.Interview, error) {
		recs, err := d.table.LoadWhere(ctx, storage.Filter{ParentID: jobInfoID})
		if err != nil {
			return nil, d.deps.fault(ctx, "list interviews", err)
		}
		return recs, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneInterviews(recs), nil
}

// FindAllForOwner returns every interview under any of the owner's job
// infos. The result is tagged with the owner scope plus each contributing
// job info, so both interview writes and job info writes refresh it.
func (d *InterviewDAL) FindAllForOwner(ctx context.Context, ownerID string) ([]model.Interview, error) {
	key := d.deps.Keys.SerializeKey("interviews.find_all_for_owner", ownerID)
	tags := []string{
		datacache.OwnerTag(datacache.KindInterview, ownerID),
		datacache.GlobalTag(datacache.KindInterview),
	}

	recs, err := cache.GetOrCompute(ctx, d.deps.Cache, key, tags, func(ctx context.Context) ([]model.Interview, error) {
		jobInfos, err := d.jobInfos.LoadWhere(ctx, storage.Filter{OwnerID: ownerID})
		if err != nil {
			return nil, d.deps.fault(ctx, "list job infos", err)
		}
		var out []model.Interview
		for _, jobInfo := range jobInfos {
			cache.AddTags(ctx,
				datacache.IDTag(datacache.KindJobInfo, jobInfo.ID),
				datacache.ParentTag(datacache.KindInterview, jobInfo.ID),
			)
			recs, err := d.table.LoadWhere(ctx, storage.Filter{ParentID: jobInfo.ID})
			if err != nil {
				return nil, d.deps.fault(ctx, "list interviews", err)
			}
			out = append(out, recs...)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneInterviews(recs), nil
}

// cloneInterviews copies cached rows so callers cannot mutate the cached
// snapshot, including through pointer fields.
func cloneInterviews(recs []model.Interview) []model.Interview {
	out := make([]model.Interview, len(recs))
	for i, rec := range recs {
		out[i] = rec.Clone()
	}
	return out
}

// Insert stores a new interview and invalidates its derivation tags.
func (d *InterviewDAL) Insert(ctx context.Context, draft model.InterviewDraft) (model.Interview, error) {
	now := d.deps.Now()
	duration := draft.Duration
	if duration == "" {
		duration = "00:00:00"
	}
	rec := model.Interview{
		ID:        d.deps.NewID(),
		JobInfoID: draft.JobInfoID,
		Duration:  duration,
		CreatedAt: now,
		UpdatedAt: now,
	}

	stored, err := d.table.Insert(ctx, rec)
	if err != nil {
		return model.Interview{}, d.deps.fault(ctx, "insert interview", err)
	}

	if err := d.deps.Revalidate.Dispatch(ctx, datacache.WriteEvent{
		Kind:     datacache.KindInterview,
		ID:       stored.ID,
		OwnerID:  draft.OwnerID,
		ParentID: stored.JobInfoID,
	}); err != nil {
		return model.Interview{}, err
	}
	return stored, nil
}

// Update applies the patch to the interview and invalidates its tags. The
// owner scope is resolved through the job info so owner-scoped caches
// refresh too.
func (d *InterviewDAL) Update(ctx context.Context, id string, patch model.InterviewPatch) (model.Interview, error) {
	fields := storage.Fields{"updated_at": d.deps.Now()}
	if patch.Duration != nil {
		fields["duration"] = *patch.Duration
	}
	if patch.HumeChatID != nil {
		fields["hume_chat_id"] = *patch.HumeChatID
	}
	if patch.Feedback != nil {
		fields["feedback"] = *patch.Feedback
	}

	rec, ok, err := d.table.Update(ctx, id, fields)
	if err != nil {
		return model.Interview{}, d.deps.fault(ctx, "update interview", err)
	}
	if !ok {
		return model.Interview{}, d.deps.fault(ctx, "update interview", errNoRows)
	}

	// Owner resolution is best effort: the kind's global tag is always in
	// the dispatched closure, so owner-scoped entries refresh either way.
	ownerID := ""
	jobInfo, ok, err := d.jobInfos.Load(ctx, rec.JobInfoID)
	if err != nil {
		d.deps.Logger.ErrorContext(ctx, "storage fault", "op", "load interview job info", "error", err)
	} else if ok {
		ownerID = jobInfo.UserID
	}

	if err := d.deps.Revalidate.Dispatch(ctx, datacache.WriteEvent{
		Kind:     datacache.KindInterview,
		ID:       rec.ID,
		OwnerID:  ownerID,
		ParentID: rec.JobInfoID,
	}); err != nil {
		return model.Interview{}, err
	}
	return rec, nil
}
