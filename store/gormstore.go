package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Node is one document in the path-keyed tree.
type Node struct {
	Path      string `gorm:"primaryKey;size:512"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName provides the explicit table binding for GORM.
func (Node) TableName() string {
	return "store_nodes"
}

// GormStore persists the document tree in a relational node table. It
// backs the same Store contract the engine uses in tests with MemoryStore.
type GormStore struct {
	db  *gorm.DB
	hub *notifier
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Node{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db, hub: newNotifier()}, nil
}

func (s *GormStore) ReadOnce(ctx context.Context, path string) (json.RawMessage, error) {
	var exact json.RawMessage
	var node Node
	err := s.db.WithContext(ctx).Where("path = ?", path).First(&node).Error
	switch {
	case err == nil:
		exact = json.RawMessage(node.Value)
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to the descendant scan
	default:
		return nil, err
	}

	var descendants []Node
	pattern := escapeLike(path+"/") + "%"
	if err := s.db.WithContext(ctx).
		Where("path LIKE ? ESCAPE '\\'", pattern).
		Find(&descendants).Error; err != nil {
		return nil, err
	}

	children := make(map[string]json.RawMessage, len(descendants))
	for _, d := range descendants {
		rel := strings.TrimPrefix(d.Path, path+"/")
		children[rel] = json.RawMessage(d.Value)
	}
	return assemble(exact, children)
}

func (s *GormStore) Subscribe(path string, fn func(changedPath string)) func() {
	return s.hub.subscribe(path, fn)
}

func (s *GormStore) WriteWhole(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteUnder(tx, path); err != nil {
			return err
		}
		return tx.Create(&Node{Path: path, Value: string(raw)}).Error
	})
	if err != nil {
		return err
	}
	s.hub.notify(path)
	return nil
}

func (s *GormStore) WritePartial(ctx context.Context, path string, fields map[string]any) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing json.RawMessage
		var node Node
		err := tx.Where("path = ?", path).First(&node).Error
		switch {
		case err == nil:
			existing = json.RawMessage(node.Value)
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}

		merged, err := mergeFields(existing, fields)
		if err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&Node{Path: path, Value: string(merged)}).Error
	})
	if err != nil {
		return err
	}
	s.hub.notify(path)
	return nil
}

func (s *GormStore) DeleteSubtree(ctx context.Context, path string) error {
	if err := deleteUnder(s.db.WithContext(ctx), path); err != nil {
		return err
	}
	s.hub.notify(path)
	return nil
}

func (s *GormStore) AllocateID(parentPath string) (string, error) {
	return gonanoid.New()
}

func deleteUnder(tx *gorm.DB, path string) error {
	pattern := escapeLike(path+"/") + "%"
	return tx.
		Where("path = ? OR path LIKE ? ESCAPE '\\'", path, pattern).
		Delete(&Node{}).Error
}

// escapeLike protects LIKE metacharacters in path segments. Allocated ids
// can contain underscores, which LIKE would otherwise treat as wildcards.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
