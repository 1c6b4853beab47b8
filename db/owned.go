package db

import "context"

// findOwned loads the row of type T with the given id, if it belongs to the
// scope's owner.
func findOwned[T any](ctx context.Context, o *OwnerScope, id string) (*T, error) {
	var v T
	if err := o.query(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

// updateOwned writes only the named columns of value to row id.
func updateOwned[T any](ctx context.Context, o *OwnerScope, id string, value *T, columns ...string) error {
	res := o.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ? AND owner_id = ?", id, o.ownerID).
		Select(columns).
		Updates(value)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteOwned[T any](ctx context.Context, o *OwnerScope, id string) error {
	res := o.query(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
