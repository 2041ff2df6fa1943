package media

import (
	"context"

	"github.com/simp-lee/recipebook/internal/domain"
)

// OperationRecorder receives the outcome of every media store call.
type OperationRecorder interface {
	MediaOperation(operation string, err error)
}

type instrumented struct {
	store    domain.MediaStore
	recorder OperationRecorder
}

// Instrument wraps store so each upload and delete is reported to recorder.
func Instrument(store domain.MediaStore, recorder OperationRecorder) domain.MediaStore {
	if recorder == nil {
		return store
	}
	return &instrumented{store: store, recorder: recorder}
}

func (i *instrumented) Upload(ctx context.Context, localPath, folder string) (domain.MediaRef, error) {
	ref, err := i.store.Upload(ctx, localPath, folder)
	i.recorder.MediaOperation("upload", err)
	return ref, err
}

func (i *instrumented) Delete(ctx context.Context, handle string) error {
	err := i.store.Delete(ctx, handle)
	i.recorder.MediaOperation("delete", err)
	return err
}
