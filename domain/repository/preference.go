package repository

import (
	"context"

	"mytube/domain/model"
)

// IPreferenceStore is the per-user list storage. Writes replace the whole
// list under its key; reads of an absent key return an empty list, not an
// error. Data is partitioned strictly by the user id inside the key.
type IPreferenceStore interface {
	LoadList(ctx context.Context, key model.StorageKey) ([]model.Video, error)
	SaveList(ctx context.Context, key model.StorageKey, videos []model.Video) error
}
