package catalog

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rentgrip/internal/domain"
)

type itemRecord struct {
	ID               int64  `gorm:"primaryKey;autoIncrement:false"`
	Name             string `gorm:"not null"`
	ShortDescription string
	Description      string
	Brand            string `gorm:"index"`
	Category         string `gorm:"index"`
	Subcategory      string
	Leaf             string
	Price            float64
	Period           string
	Condition        string
	Location         string
	Rating           *float64
}

func (itemRecord) TableName() string { return "catalog_items" }

type categoryRecord struct {
	ID          uint `gorm:"primaryKey"`
	Position    int  `gorm:"index"`
	Category    string
	Subcategory string
	Leaf        string
}

func (categoryRecord) TableName() string { return "catalog_categories" }

// SQLiteProvider serves a catalog stored in a SQLite database
type SQLiteProvider struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the database at dsn
func OpenSQLite(dsn string) (*SQLiteProvider, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return NewSQLiteProvider(db)
}

// NewSQLiteProvider wraps an open gorm handle and migrates the schema
func NewSQLiteProvider(db *gorm.DB) (*SQLiteProvider, error) {
	if err := db.AutoMigrate(&itemRecord{}, &categoryRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return &SQLiteProvider{db: db}, nil
}

// Fetch loads every item ordered by id plus the category tree
func (p *SQLiteProvider) Fetch(ctx context.Context) (Catalog, error) {
	var items []itemRecord
	if err := p.db.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return Catalog{}, fmt.Errorf("failed to query items: %w", err)
	}
	var cats []categoryRecord
	if err := p.db.WithContext(ctx).Order("position").Find(&cats).Error; err != nil {
		return Catalog{}, fmt.Errorf("failed to query categories: %w", err)
	}

	c := Catalog{Items: make([]domain.Item, 0, len(items))}
	for _, r := range items {
		c.Items = append(c.Items, domain.Item{
			ID:               r.ID,
			Name:             r.Name,
			ShortDescription: r.ShortDescription,
			Description:      r.Description,
			Brand:            r.Brand,
			Category:         domain.CategoryRef{Name: r.Category, Subcategory: r.Subcategory, Leaf: r.Leaf},
			PricePerPeriod:   r.Price,
			Period:           r.Period,
			Condition:        r.Condition,
			Location:         r.Location,
			Rating:           r.Rating,
		})
	}
	c.Categories = treeFromRecords(cats)
	return c, nil
}

// Save replaces the stored catalog with c in one transaction
func (p *SQLiteProvider) Save(ctx context.Context, c Catalog) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&itemRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear items: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&categoryRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear categories: %w", err)
		}

		if len(c.Items) > 0 {
			records := make([]itemRecord, 0, len(c.Items))
			for _, it := range c.Items {
				records = append(records, itemRecord{
					ID:               it.ID,
					Name:             it.Name,
					ShortDescription: it.ShortDescription,
					Description:      it.Description,
					Brand:            it.Brand,
					Category:         it.Category.Name,
					Subcategory:      it.Category.Subcategory,
					Leaf:             it.Category.Leaf,
					Price:            it.PricePerPeriod,
					Period:           it.Period,
					Condition:        it.Condition,
					Location:         it.Location,
					Rating:           it.Rating,
				})
			}
			if err := tx.CreateInBatches(records, 200).Error; err != nil {
				return fmt.Errorf("failed to insert items: %w", err)
			}
		}

		if cats := recordsFromTree(c.Categories); len(cats) > 0 {
			if err := tx.CreateInBatches(cats, 200).Error; err != nil {
				return fmt.Errorf("failed to insert categories: %w", err)
			}
		}
		return nil
	})
}

// Close releases the database handle
func (p *SQLiteProvider) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// one row per tree node: (c), (c, s) or (c, s, l)
func recordsFromTree(tree []domain.CategoryNode) []categoryRecord {
	var out []categoryRecord
	add := func(c, s, l string) {
		out = append(out, categoryRecord{Position: len(out), Category: c, Subcategory: s, Leaf: l})
	}
	for _, node := range tree {
		add(node.Name, "", "")
		for _, sub := range node.Subcategories {
			add(node.Name, sub.Name, "")
			for _, leaf := range sub.Leaves {
				add(node.Name, sub.Name, leaf)
			}
		}
	}
	return out
}

func treeFromRecords(rows []categoryRecord) []domain.CategoryNode {
	var tree []domain.CategoryNode
	catIdx := make(map[string]int)
	subIdx := make(map[[2]string]int)

	for _, r := range rows {
		ci, ok := catIdx[r.Category]
		if !ok {
			ci = len(tree)
			catIdx[r.Category] = ci
			tree = append(tree, domain.CategoryNode{Name: r.Category})
		}
		if r.Subcategory == "" {
			continue
		}
		key := [2]string{r.Category, r.Subcategory}
		si, ok := subIdx[key]
		if !ok {
			si = len(tree[ci].Subcategories)
			subIdx[key] = si
			tree[ci].Subcategories = append(tree[ci].Subcategories, domain.SubcategoryNode{Name: r.Subcategory})
		}
		if r.Leaf != "" {
			tree[ci].Subcategories[si].Leaves = append(tree[ci].Subcategories[si].Leaves, r.Leaf)
		}
	}
	return tree
}
