package ports

import (
	"context"
	"errors"

	"facility-kpi-service/internal/sync/core/domain"
	"facility-kpi-service/internal/sync/core/listschema"
)

var ErrLockNotObtained = errors.New("idempotency key lock not obtained")

type SummaryStorePort interface {
	// FindByKey:
	//   rec != nil, err = nil  -> record carrying the key
	//   rec == nil, err = nil  -> not found
	//   rec == nil, err != nil -> store error
	FindByKey(ctx context.Context, listName, key string) (*listschema.ExternalRecord, error)

	// Create must return the record with its assigned identifier.
	Create(ctx context.Context, listName string, fields listschema.ExternalRecord) (listschema.ExternalRecord, error)

	Update(ctx context.Context, listName string, id int, fields listschema.ExternalRecord) (listschema.ExternalRecord, error)
}

// NativeUpsertPort is implemented by stores that can upsert by unique key
// atomically. The write happens only when no record exists or the existing
// LastUpdated is strictly older.
type NativeUpsertPort interface {
	UpsertByKey(ctx context.Context, listName string, fields listschema.ExternalRecord) (domain.Outcome, error)
}

// KeyLockerPort serialises work on one idempotency key. The returned unlock
// func is always safe to call.
type KeyLockerPort interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
