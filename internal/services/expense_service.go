package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/fintrack/fintrack-be/internal/models"
)

// ExpenseFilter holds the optional predicates of a filter query. Nil or
// zero-valued fields are skipped; the rest combine conjunctively.
type ExpenseFilter struct {
	CategoryName string
	AmountMin    *int64
	AmountMax    *int64
	DateFrom     *time.Time
	DateTo       *time.Time
}

// ExpenseServiceProvider defines the interface for expense services.
type ExpenseServiceProvider interface {
	GetAllExpenses(ctx context.Context) ([]models.Expense, error)
	CreateExpense(ctx context.Context, payedWith, categoryName string, amount int64) (models.Expense, error)
	UpdateExpense(ctx context.Context, id int64, payedWith *string, amount *int64) (models.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
	FilterExpenses(ctx context.Context, filter ExpenseFilter) ([]models.Expense, error)
	CategoryTotals(ctx context.Context) (map[string]int64, error)
}

// ExpenseService provides business logic for expense management.
type ExpenseService struct {
	db           *sql.DB
	eventService EventServiceProvider
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(db *sql.DB, eventService EventServiceProvider) *ExpenseService {
	return &ExpenseService{db: db, eventService: eventService}
}

// GetAllExpenses retrieves all expenses ordered by creation time.
func (s *ExpenseService) GetAllExpenses(ctx context.Context) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, payed_with, amount, category_id, created_at FROM expenses ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExpenses(rows)
}

// CreateExpense resolves the category by label and inserts the expense in
// the same transaction, so the category cannot vanish in between.
func (s *ExpenseService) CreateExpense(ctx context.Context, payedWith, categoryName string, amount int64) (models.Expense, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Expense{}, err
	}
	defer tx.Rollback()

	category, err := scanCategory(tx.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM categories WHERE name = ?", categoryName))
	if err != nil {
		return models.Expense{}, err
	}

	expense := models.Expense{
		PayedWith:  payedWith,
		Amount:     amount,
		CategoryID: category.ID,
		Category:   category.Name,
		// UTC keeps sqlite's textual timestamp comparisons chronological.
		CreatedAt:  time.Now().UTC(),
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO expenses (payed_with, amount, category_id, created_at) VALUES (?, ?, ?, ?)",
		expense.PayedWith, expense.Amount, expense.CategoryID, expense.CreatedAt)
	if err != nil {
		return models.Expense{}, err
	}
	if expense.ID, err = res.LastInsertId(); err != nil {
		return models.Expense{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Expense{}, err
	}

	s.eventService.CreateEvent(ctx, "expense.create", "info",
		fmt.Sprintf("Expense of %d added to category %q.", expense.Amount, category.Name))
	return expense, nil
}

// UpdateExpense updates the payment method and/or amount of an expense.
// The category of an expense is fixed at creation.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id int64, payedWith *string, amount *int64) (models.Expense, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Expense{}, err
	}
	defer tx.Rollback()

	expense, err := scanExpense(tx.QueryRowContext(ctx,
		"SELECT id, payed_with, amount, category_id, created_at FROM expenses WHERE id = ?", id))
	if err != nil {
		return models.Expense{}, err
	}

	if payedWith != nil {
		expense.PayedWith = *payedWith
	}
	if amount != nil {
		expense.Amount = *amount
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE expenses SET payed_with = ?, amount = ? WHERE id = ?",
		expense.PayedWith, expense.Amount, id); err != nil {
		return models.Expense{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Expense{}, err
	}

	s.eventService.CreateEvent(ctx, "expense.update", "info",
		fmt.Sprintf("Expense %d updated.", id))
	return expense, nil
}

// DeleteExpense removes a single expense by its ID.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := scanExpense(tx.QueryRowContext(ctx,
		"SELECT id, payed_with, amount, category_id, created_at FROM expenses WHERE id = ?", id)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.eventService.CreateEvent(ctx, "expense.delete", "warn",
		fmt.Sprintf("Expense %d was deleted.", id))
	return nil
}

// FilterExpenses returns the expenses matching every predicate of the
// filter, with the category label joined in.
func (s *ExpenseService) FilterExpenses(ctx context.Context, filter ExpenseFilter) ([]models.Expense, error) {
	query := sq.Select("e.id", "e.payed_with", "e.amount", "e.category_id", "e.created_at", "c.name").
		From("expenses e").
		Join("categories c ON c.id = e.category_id").
		OrderBy("e.created_at")

	if filter.CategoryName != "" {
		category, err := s.lookupCategory(ctx, filter.CategoryName)
		if err != nil {
			return nil, err
		}
		query = query.Where(sq.Eq{"e.category_id": category.ID})
	}
	if filter.AmountMin != nil {
		query = query.Where(sq.GtOrEq{"e.amount": *filter.AmountMin})
	}
	if filter.AmountMax != nil {
		query = query.Where(sq.LtOrEq{"e.amount": *filter.AmountMax})
	}
	if filter.DateFrom != nil {
		query = query.Where(sq.GtOrEq{"e.created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		query = query.Where(sq.LtOrEq{"e.created_at": *filter.DateTo})
	}

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]models.Expense, 0)
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.PayedWith, &e.Amount, &e.CategoryID, &e.CreatedAt, &e.Category); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// CategoryTotals sums expense amounts per category label. Categories
// without expenses do not appear in the result.
func (s *ExpenseService) CategoryTotals(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, SUM(e.amount)
		FROM categories c
		JOIN expenses e ON e.category_id = c.id
		GROUP BY c.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]int64)
	for rows.Next() {
		var name string
		var sum int64
		if err := rows.Scan(&name, &sum); err != nil {
			return nil, err
		}
		totals[name] = sum
	}
	return totals, rows.Err()
}

func (s *ExpenseService) lookupCategory(ctx context.Context, name string) (models.Category, error) {
	return scanCategory(s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM categories WHERE name = ?", name))
}

// scanExpenses is a helper to scan multiple rows into a slice of Expenses.
func scanExpenses(rows *sql.Rows) ([]models.Expense, error) {
	var expenses []models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// scanExpense is a helper to scan a single row into an Expense struct.
func scanExpense(scanner interface{ Scan(...interface{}) error }) (models.Expense, error) {
	var expense models.Expense
	err := scanner.Scan(&expense.ID, &expense.PayedWith, &expense.Amount, &expense.CategoryID, &expense.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Expense{}, fmt.Errorf("expense: %w", ErrNotFound)
		}
		return models.Expense{}, err
	}
	return expense, nil
}
