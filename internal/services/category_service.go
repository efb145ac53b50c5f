package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fintrack/fintrack-be/internal/models"
)

// CategoryServiceProvider defines the interface for category services.
type CategoryServiceProvider interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (models.Category, error)
	CreateCategory(ctx context.Context, name string) (models.Category, error)
	UpdateCategory(ctx context.Context, id int64, name *string) (models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// CategoryService provides business logic for category management.
type CategoryService struct {
	db           *sql.DB
	eventService EventServiceProvider
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(db *sql.DB, eventService EventServiceProvider) *CategoryService {
	return &CategoryService{db: db, eventService: eventService}
}

// GetAllCategories retrieves all categories ordered by creation time.
func (s *CategoryService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM categories ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// GetCategoryByID retrieves a single category by its ID.
func (s *CategoryService) GetCategoryByID(ctx context.Context, id int64) (models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM categories WHERE id = ?", id)
	return scanCategory(row)
}

// GetCategoryByName retrieves a single category by its label.
func (s *CategoryService) GetCategoryByName(ctx context.Context, name string) (models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM categories WHERE name = ?", name)
	return scanCategory(row)
}

// CreateCategory inserts a new category. Labels are unique.
func (s *CategoryService) CreateCategory(ctx context.Context, name string) (models.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Category{}, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM categories WHERE name = ?", name).Scan(&exists); err != nil {
		return models.Category{}, err
	}
	if exists > 0 {
		return models.Category{}, fmt.Errorf("category %q: %w", name, ErrDuplicate)
	}

	category := models.Category{Name: name, CreatedAt: time.Now().UTC()}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO categories (name, created_at) VALUES (?, ?)",
		category.Name, category.CreatedAt)
	if err != nil {
		return models.Category{}, err
	}
	if category.ID, err = res.LastInsertId(); err != nil {
		return models.Category{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Category{}, err
	}

	s.eventService.CreateEvent(ctx, "category.create", "info",
		fmt.Sprintf("Category %q created.", category.Name))
	return category, nil
}

// UpdateCategory replaces the label of an existing category when one is
// provided in the request.
func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, name *string) (models.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Category{}, err
	}
	defer tx.Rollback()

	category, err := scanCategory(tx.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM categories WHERE id = ?", id))
	if err != nil {
		return models.Category{}, err
	}

	if name != nil {
		category.Name = *name
		if _, err := tx.ExecContext(ctx,
			"UPDATE categories SET name = ? WHERE id = ?", category.Name, id); err != nil {
			return models.Category{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return models.Category{}, err
	}

	s.eventService.CreateEvent(ctx, "category.update", "info",
		fmt.Sprintf("Category %d updated.", id))
	return category, nil
}

// DeleteCategory removes a category; owned expenses go with it via the
// cascade rule.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	category, err := scanCategory(tx.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM categories WHERE id = ?", id))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.eventService.CreateEvent(ctx, "category.delete", "warn",
		fmt.Sprintf("Category %q was deleted with its expenses.", category.Name))
	return nil
}

// scanCategory is a helper to scan a single row into a Category struct.
func scanCategory(scanner interface{ Scan(...interface{}) error }) (models.Category, error) {
	var category models.Category
	err := scanner.Scan(&category.ID, &category.Name, &category.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Category{}, fmt.Errorf("category: %w", ErrNotFound)
		}
		return models.Category{}, err
	}
	return category, nil
}
