package dal

import (
	"context"

	"github.com/GuRuGuMaWaRu/jobprep/cache"
	"github.com/GuRuGuMaWaRu/jobprep/datacache"
	"github.com/GuRuGuMaWaRu/jobprep/model"
	"github.com/GuRuGuMaWaRu/jobprep/storage"
)

// JobInfoDAL is the data access module for job infos.
type JobInfoDAL struct {
	table storage.Table[model.JobInfo]
	deps  Deps
}

// NewJobInfoDAL creates a JobInfoDAL over the given table.
func NewJobInfoDAL(table storage.Table[model.JobInfo], deps Deps) *JobInfoDAL {
	return &JobInfoDAL{table: table, deps: deps.withDefaults()}
}

// FindByID returns the job info with the given id regardless of owner.
func (d *JobInfoDAL) FindByID(ctx context.Context, id string) (model.JobInfo, bool, error) {
	key := d.deps.Keys.SerializeKey("job_infos.find_by_id", id)
	tags := []string{datacache.IDTag(datacache.KindJobInfo, id)}

	res, err := cache.GetOrCompute(ctx, d.deps.Cache, key, tags, func(ctx context.Context) (lookup[model.JobInfo], error) {
		rec, ok, err := d.table.Load(ctx, id)
		if err != nil {
			return lookup[model.JobInfo]{}, d.deps.fault(ctx, "load job info", err)
		}
		if !ok {
			return lookup[model.JobInfo]{}, nil
		}
		cache.AddTags(ctx, datacache.OwnerTag(datacache.KindJobInfo, rec.UserID))
		return lookup[model.JobInfo]{Rec: rec, OK: true}, nil
	})
	if err != nil {
		return model.JobInfo{}, false, err
	}
	return res.Rec.Clone(), res.OK, nil
}

// FindByIDForOwner returns the job info only when it exists and is owned by
// ownerID. An existing row with a different owner is reported exactly like
// an absent row.
func (d *JobInfoDAL) FindByIDForOwner(ctx context.Context, id, ownerID string) (model.JobInfo, bool, error) {
	key := d.deps.Keys.SerializeKey("job_infos.find_by_id_for_owner", id, ownerID)
	tags := []string{datacache.IDTag(datacache.KindJobInfo, id)}

	res, err := cache.GetOrCompute(ctx, d.deps.Cache, key, tags, func(ctx context.Context) (lookup[model.JobInfo], error) {
		rec, ok, err := d.table.Load(ctx, id)
		if err != nil {
			return lookup[model.JobInfo]{}, d.deps.fault(ctx, "load job info", err)
		}
		if !ok {
			return lookup[model.JobInfo]{}, nil
		}
		cache.AddTags(ctx, datacache.OwnerTag(datacache.KindJobInfo, rec.UserID))
		if rec.UserID != ownerID {
			return lookup[model.JobInfo]{}, nil
		}
		return lookup[model.JobInfo]{Rec: rec, OK: true}, nil
	})
	if err != nil {
		return model.JobInfo{}, false, err
	}
	return res.Rec.Clone(), res.OK, nil
}

// FindAllForOwner returns every job info owned by ownerID, newest first.
func (d *JobInfoDAL) FindAllForOwner(ctx context.Context, ownerID string) ([]model.JobInfo, error) {
	key := d.deps.Keys.SerializeKey("job_infos.find_all_for_owner", ownerID)
	tags := []string{
		datacache.OwnerTag(datacache.KindJobInfo, ownerID),
		datacache.GlobalTag(datacache.KindJobInfo),
	}

	recs, err := cache.GetOrCompute(ctx, d.deps.Cache, key, tags, func(ctx context.Context) ([]model.JobInfo, error) {
		recs, err := d.table.LoadWhere(ctx, storage.Filter{OwnerID: ownerID})
		if err != nil {
			return nil, d.deps.fault(ctx, "list job infos", err)
		}
		return recs, nil
	})
	if err != nil {
		return nil, err
	}
	// Fresh slice and rows so callers cannot mutate the cached snapshot,
	// including through pointer fields.
	out := make([]model.JobInfo, len(recs))
	for i, rec := range recs {
		out[i] = rec.Clone()
	}
	return out, nil
}

// Insert stores a new job info and invalidates its derivation tags.
func (d *JobInfoDAL) Insert(ctx context.Context, draft model.JobInfoDraft) (model.JobInfo, error) {
	now := d.deps.Now()
	rec := model.JobInfo{
		ID:              d.deps.NewID(),
		UserID:          draft.UserID,
		Name:            draft.Name,
		Title:           draft.Title,
		Description:     draft.Description,
		ExperienceLevel: draft.ExperienceLevel,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	stored, err := d.table.Insert(ctx, rec)
	if err != nil {
		return model.JobInfo{}, d.deps.fault(ctx, "insert job info", err)
	}

	if err := d.deps.Revalidate.Dispatch(ctx, datacache.WriteEvent{
		Kind:    datacache.KindJobInfo,
		ID:      stored.ID,
		OwnerID: stored.UserID,
	}); err != nil {
		return model.JobInfo{}, err
	}
	return stored, nil
}

// Update applies the patch to the job info and invalidates the full cascade
// closure, including dependent interview and question scopes.
func (d *JobInfoDAL) Update(ctx context.Context, id string, patch model.JobInfoPatch) (model.JobInfo, error) {
	fields := storage.Fields{"updated_at": d.deps.Now()}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.ExperienceLevel != nil {
		fields["experience_level"] = string(*patch.ExperienceLevel)
	}

	rec, ok, err := d.table.Update(ctx, id, fields)
	if err != nil {
		return model.JobInfo{}, d.deps.fault(ctx, "update job info", err)
	}
	if !ok {
		return model.JobInfo{}, d.deps.fault(ctx, "update job info", errNoRows)
	}

	if err := d.deps.Revalidate.Dispatch(ctx, datacache.WriteEvent{
		Kind:    datacache.KindJobInfo,
		ID:      rec.ID,
		OwnerID: rec.UserID,
	}); err != nil {
		return model.JobInfo{}, err
	}
	return rec, nil
}
