package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/guttosm/loadplan-service/internal/domain/model"
	"github.com/guttosm/loadplan-service/internal/engine"
	"github.com/guttosm/loadplan-service/internal/repository"
)

// ErrCatalogDisabled is returned by catalog operations when no database is configured.
var ErrCatalogDisabled = errors.New("catalog not configured")

// ContainerCatalog manages the stored container types.
type ContainerCatalog interface {
	Get(ctx context.Context, id int) (*repository.ContainerDocument, error)
	List(ctx context.Context, limit int) ([]repository.ContainerDocument, error)
	Create(ctx context.Context, c model.Container, by string) (*repository.ContainerDocument, error)
	Update(ctx context.Context, c model.Container, by string) (*repository.ContainerDocument, error)
	Delete(ctx context.Context, id int) error
	// Resolve returns the containers with the given ids in request order,
	// or the whole catalog when ids is empty.
	Resolve(ctx context.Context, ids []int) ([]model.Container, error)
}

// ItemCatalog manages the stored item types.
type ItemCatalog interface {
	Get(ctx context.Context, sku string) (*repository.ItemDocument, error)
	List(ctx context.Context, limit int) ([]repository.ItemDocument, error)
	Put(ctx context.Context, item model.Item, by string) (*repository.ItemDocument, bool, error)
	Delete(ctx context.Context, sku string) error
	// Resolve fills in a SKU-only reference from the catalog. Items with dimensions pass through.
	Resolve(ctx context.Context, ref model.Item) (model.Item, error)
}

// CatalogOption configures the catalog services.
type CatalogOption func(*catalogHooks)

type catalogHooks struct {
	onChange func()
}

// WithChangeHook registers fn to run after every successful catalog write.
func WithChangeHook(fn func()) CatalogOption {
	return func(h *catalogHooks) {
		h.onChange = fn
	}
}

func newHooks(opts []CatalogOption) catalogHooks {
	var h catalogHooks
	for _, opt := range opts {
		opt(&h)
	}
	return h
}

func (h catalogHooks) changed() {
	if h.onChange != nil {
		h.onChange()
	}
}

// ContainerCatalogService implements ContainerCatalog on a repository.
type ContainerCatalogService struct {
	repo  repository.ContainerRepositoryInterface
	hooks catalogHooks
}

// NewContainerCatalogService creates a container catalog. A nil repo disables it.
func NewContainerCatalogService(repo repository.ContainerRepositoryInterface, opts ...CatalogOption) *ContainerCatalogService {
	return &ContainerCatalogService{repo: repo, hooks: newHooks(opts)}
}

func (s *ContainerCatalogService) Get(ctx context.Context, id int) (*repository.ContainerDocument, error) {
	if s.repo == nil {
		return nil, ErrCatalogDisabled
	}
	return s.repo.Get(ctx, id)
}

func (s *ContainerCatalogService) List(ctx context.Context, limit int) ([]repository.ContainerDocument, error) {
	if s.repo == nil {
		return nil, ErrCatalogDisabled
	}
	return s.repo.List(ctx, limit)
}

func (s *ContainerCatalogService) Create(ctx context.Context, c model.Container, by string) (*repository.ContainerDocument, error) {
	if s.repo == nil {
		return nil, ErrCatalogDisabled
	}
	if err := validateCatalogContainer(c); err != nil {
		return nil, err
	}

	doc := repository.NewContainerDocument(c)
	doc.UpdatedBy = by
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create container %d: %w", c.ID, err)
	}
	s.hooks.changed()
	return doc, nil
}

func (s *ContainerCatalogService) Update(ctx context.Context, c model.Container, by string) (*repository.ContainerDocument, error) {
	if s.repo == nil {
		return nil, ErrCatalogDisabled
	}
	if err := validateCatalogContainer(c); err != nil {
		return nil, err
	}

	doc := repository.NewContainerDocument(c)
	doc.UpdatedBy = by
	updated, err := s.repo.Update(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("update container %d: %w", c.ID, err)
	}
	s.hooks.changed()
	return updated, nil
}

func (s *ContainerCatalogService) Delete(ctx context.Context, id int) error {
	if s.repo == nil {
		return ErrCatalogDisabled
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete container %d: %w", id, err)
	}
	s.hooks.changed()
	return nil
}

func (s *ContainerCatalogService) Resolve(ctx context.Context, ids []int) ([]model.Container, error) {
	if s.repo == nil {
		return nil, ErrCatalogDisabled
	}

	if len(ids) == 0 {
		docs, err := s.repo.List(ctx, 0)
		if err != nil {
			return nil, fmt.Errorf("list containers: %w", err)
		}
		return containerModels(docs), nil
	}

	docs, err := s.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load containers: %w", err)
	}
	byID := make(map[int]repository.ContainerDocument, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}

	out := make([]model.Container, 0, len(ids))
	for _, id := range ids {
		d, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("container %d: %w", id, repository.ErrNotFound)
		}
		out = append(out, d.Model())
	}
	return out, nil
}

func containerModels(docs []repository.ContainerDocument) []model.Container {
	out := make([]model.Container, len(docs))
	for i, d := range docs {
		out[i] = d.Model()
	}
	return out
}

func validateCatalogContainer(c model.Container) error {
	if c.ID <= 0 {
		return &engine.ValidationError{Field: "id", Reason: "must be greater than 0"}
	}
	return engine.ValidateContainer(c)
}

// ItemCatalogService implements ItemCatalog on a repository.
type ItemCatalogService struct {
	repo  repository.ItemRepositoryInterface
	hooks catalogHooks
}

// NewItemCatalogService creates an item catalog. A nil repo disables it.
func NewItemCatalogService(repo repository.ItemRepositoryInterface, opts ...CatalogOption) *ItemCatalogService {
	return &ItemCatalogService{repo: repo, hooks: newHooks(opts)}
}

func (s *ItemCatalogService) Get(ctx context.Context, sku string) (*repository.ItemDocument, error) {
	if s.repo == nil {
		return nil, ErrCatalogDisabled
	}
	return s.repo.Get(ctx, sku)
}

func (s *ItemCatalogService) List(ctx context.Context, limit int) ([]repository.ItemDocument, error) {
	if s.repo == nil {
		return nil, ErrCatalogDisabled
	}
	return s.repo.List(ctx, limit)
}

func (s *ItemCatalogService) Put(ctx context.Context, item model.Item, by string) (*repository.ItemDocument, bool, error) {
	if s.repo == nil {
		return nil, false, ErrCatalogDisabled
	}
	if item.SKU == "" {
		return nil, false, &engine.ValidationError{Field: "sku", Reason: "is required"}
	}
	if err := engine.ValidateItem(item); err != nil {
		return nil, false, err
	}

	doc := repository.NewItemDocument(item)
	doc.UpdatedBy = by
	created, err := s.repo.Upsert(ctx, doc)
	if err != nil {
		return nil, false, fmt.Errorf("store item %s: %w", item.SKU, err)
	}
	s.hooks.changed()
	return doc, created, nil
}

func (s *ItemCatalogService) Delete(ctx context.Context, sku string) error {
	if s.repo == nil {
		return ErrCatalogDisabled
	}
	if err := s.repo.Delete(ctx, sku); err != nil {
		return fmt.Errorf("delete item %s: %w", sku, err)
	}
	s.hooks.changed()
	return nil
}

func (s *ItemCatalogService) Resolve(ctx context.Context, ref model.Item) (model.Item, error) {
	if ref.SKU == "" || ref.Width > 0 || ref.Depth > 0 || ref.Height > 0 {
		return ref, nil
	}
	if s.repo == nil {
		return model.Item{}, ErrCatalogDisabled
	}

	doc, err := s.repo.Get(ctx, ref.SKU)
	if err != nil {
		return model.Item{}, fmt.Errorf("item %s: %w", ref.SKU, err)
	}
	return doc.Model(), nil
}

// CatalogSeed is the YAML document loaded at startup into empty catalogs.
type CatalogSeed struct {
	Containers []model.Container `yaml:"containers"`
	Items      []model.Item      `yaml:"items"`
}

// LoadCatalogSeed reads a seed file.
func LoadCatalogSeed(path string) (*CatalogSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog seed: %w", err)
	}

	var seed CatalogSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse catalog seed %s: %w", path, err)
	}
	return &seed, nil
}

// Apply inserts seed containers that do not exist yet and upserts seed items.
// It returns the number of containers and items written.
func (s *CatalogSeed) Apply(ctx context.Context, containers ContainerCatalog, items ItemCatalog) (int, int, error) {
	var addedContainers, addedItems int
	for _, c := range s.Containers {
		_, err := containers.Create(ctx, c, "seed")
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			log.Debug().Int("container_id", c.ID).Msg("Seed container already present")
		case err != nil:
			return addedContainers, addedItems, err
		default:
			addedContainers++
		}
	}

	for _, it := range s.Items {
		if _, _, err := items.Put(ctx, it, "seed"); err != nil {
			return addedContainers, addedItems, err
		}
		addedItems++
	}
	return addedContainers, addedItems, nil
}
