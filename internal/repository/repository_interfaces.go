package repository

import "context"

// ContainerRepositoryInterface is the container catalog store.
type ContainerRepositoryInterface interface {
	Get(ctx context.Context, id int) (*ContainerDocument, error)
	GetMany(ctx context.Context, ids []int) ([]ContainerDocument, error)
	List(ctx context.Context, limit int) ([]ContainerDocument, error)
	Create(ctx context.Context, doc *ContainerDocument) error
	Update(ctx context.Context, doc *ContainerDocument) (*ContainerDocument, error)
	Delete(ctx context.Context, id int) error
}

// ItemRepositoryInterface is the item catalog store.
type ItemRepositoryInterface interface {
	Get(ctx context.Context, sku string) (*ItemDocument, error)
	List(ctx context.Context, limit int) ([]ItemDocument, error)
	Upsert(ctx context.Context, doc *ItemDocument) (bool, error)
	Delete(ctx context.Context, sku string) error
}

// LogsRepositoryInterface is the audit log store.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *LogEntryDocument) error
	CreateMany(ctx context.Context, entries []*LogEntryDocument) error
	Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error)
	Count(ctx context.Context, opts LogQueryOptions) (int64, error)
}

var (
	_ ContainerRepositoryInterface = (*ContainerRepository)(nil)
	_ ContainerRepositoryInterface = (*ContainerRepositoryWithCircuitBreaker)(nil)
	_ ItemRepositoryInterface      = (*ItemRepository)(nil)
	_ ItemRepositoryInterface      = (*ItemRepositoryWithCircuitBreaker)(nil)
	_ LogsRepositoryInterface      = (*LogsRepository)(nil)
	_ LogsRepositoryInterface      = (*LogsRepositoryWithCircuitBreaker)(nil)
)
