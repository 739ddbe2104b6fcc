package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/andresuchdata/reorder-advisor/internal/domain"
)

const archivePrefix = "advice"

// AdviceArchive keeps a copy of every advice response for later audit.
type AdviceArchive interface {
	Archive(ctx context.Context, resp *domain.AdviceResponse) error
	List(ctx context.Context, sku string) ([]ObjectInfo, error)
}

type objectAdviceArchive struct {
	store ObjectStorage
}

type noopAdviceArchive struct{}

func NewAdviceArchive(store ObjectStorage) AdviceArchive {
	if store == nil {
		return &noopAdviceArchive{}
	}
	return &objectAdviceArchive{store: store}
}

func NewNoopAdviceArchive() AdviceArchive {
	return &noopAdviceArchive{}
}

func (a *objectAdviceArchive) Archive(ctx context.Context, resp *domain.AdviceResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode advice archive: %w", err)
	}
	return a.store.UploadObject(ctx, adviceKey(resp), payload, "application/json")
}

func (a *objectAdviceArchive) List(ctx context.Context, sku string) ([]ObjectInfo, error) {
	return a.store.ListObjects(ctx, path.Join(archivePrefix, sku)+"/")
}

func (n *noopAdviceArchive) Archive(ctx context.Context, resp *domain.AdviceResponse) error {
	return nil
}

func (n *noopAdviceArchive) List(ctx context.Context, sku string) ([]ObjectInfo, error) {
	return []ObjectInfo{}, nil
}

// adviceKey lays objects out as advice/<sku>/<yyyy-mm-dd>/<request id>.json.
func adviceKey(resp *domain.AdviceResponse) string {
	return path.Join(archivePrefix, resp.SKU, resp.GeneratedAt.UTC().Format("2006-01-02"), resp.RequestID+".json")
}
