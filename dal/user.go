package dal

import (
	"context"

	"github.com/GuRuGuMaWaRu/jobprep/cache"
	"github.com/GuRuGuMaWaRu/jobprep/datacache"
	"github.com/GuRuGuMaWaRu/jobprep/model"
	"github.com/GuRuGuMaWaRu/jobprep/storage"
)

// UserDAL is the data access module for users. Users own themselves, so the
// id doubles as the owner scope; writes come from identity provider syncs.
type UserDAL struct {
	table storage.Table[model.User]
	deps  Deps
}

// NewUserDAL creates a UserDAL over the given table.
func NewUserDAL(table storage.Table[model.User], deps Deps) *UserDAL {
	return &UserDAL{table: table, deps: deps.withDefaults()}
}

// FindByID returns the user with the given id.
func (d *UserDAL) FindByID(ctx context.Context, id string) (model.User, bool, error) {
	key := d.deps.Keys.SerializeKey("users.find_by_id", id)
	tags := []string{datacache.IDTag(datacache.KindUser, id)}

	res, err := cache.GetOrCompute(ctx, d.deps.Cache, key, tags, func(ctx context.Context) (lookup[model.User], error) {
		rec, ok, err := d.table.Load(ctx, id)
		if err != nil {
			return lookup[model.User]{}, d.deps.fault(ctx, "load user", err)
		}
		return lookup[model.User]{Rec: rec, OK: ok}, nil
	})
	if err != nil {
		return model.User{}, false, err
	}
	return res.Rec, res.OK, nil
}

// Upsert creates the user row or refreshes its name and email, keeping the
// store in step with the identity provider. The id never changes.
func (d *UserDAL) Upsert(ctx context.Context, draft model.UserDraft) (model.User, error) {
	now := d.deps.Now()

	_, exists, err := d.table.Load(ctx, draft.ID)
	if err != nil {
		return model.User{}, d.deps.fault(ctx, "load user", err)
	}

	var rec model.User
	if exists {
		updated, ok, err := d.table.Update(ctx, draft.ID, storage.Fields{
			"name":       draft.Name,
			"email":      draft.Email,
			"updated_at": now,
		})
		if err != nil {
			return model.User{}, d.deps.fault(ctx, "update user", err)
		}
		if !ok {
			return model.User{}, d.deps.fault(ctx, "update user", errNoRows)
		}
		rec = updated
	} else {
		inserted, err := d.table.Insert(ctx, model.User{
			ID:        draft.ID,
			Name:      draft.Name,
			Email:     draft.Email,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return model.User{}, d.deps.fault(ctx, "insert user", err)
		}
		rec = inserted
	}

	if err := d.deps.Revalidate.Dispatch(ctx, datacache.WriteEvent{
		Kind:    datacache.KindUser,
		ID:      rec.ID,
		OwnerID: rec.ID,
	}); err != nil {
		return model.User{}, err
	}
	return rec, nil
}

// Remove deletes the user row and invalidates its tags.
func (d *UserDAL) Remove(ctx context.Context, id string) error {
	ok, err := d.table.Delete(ctx, id)
	if err != nil {
		return d.deps.fault(ctx, "delete user", err)
	}
	if !ok {
		return d.deps.fault(ctx, "delete user", errNoRows)
	}

	return d.deps.Revalidate.Dispatch(ctx, datacache.WriteEvent{
		Kind:    datacache.KindUser,
		ID:      id,
		OwnerID: id,
	})
}
