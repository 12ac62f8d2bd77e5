package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spendsmart/expense-api/internal/core/domain"
	"github.com/spendsmart/expense-api/internal/core/ports"
)

const collectionExpenses = "expenses"

type ExpenseRepository struct {
	col *mongo.Collection
}

func NewExpenseRepository(db *mongo.Database) *ExpenseRepository {
	return &ExpenseRepository{col: db.Collection(collectionExpenses)}
}

type mongoExpense struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Title     string             `bson:"title"`
	Amount    float64            `bson:"amount"`
	Category  string             `bson:"category"`
	Date      time.Time          `bson:"date"`
	Note      string             `bson:"note"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (m mongoExpense) toDomain() *domain.Expense {
	return &domain.Expense{
		ID:        m.ID.Hex(),
		UserID:    m.UserID,
		Title:     m.Title,
		Amount:    m.Amount,
		Category:  m.Category,
		Date:      m.Date,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Create inserts a new expense document and returns it with the assigned id
// and timestamps.
func (r *ExpenseRepository) Create(ctx context.Context, e *domain.Expense) (*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := mongoExpense{
		UserID:    e.UserID,
		Title:     e.Title,
		Amount:    e.Amount,
		Category:  e.Category,
		Date:      e.Date,
		Note:      e.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// FindByID retrieves an expense by id with no owner filter; the ownership
// check belongs to the service layer.
func (r *ExpenseRepository) FindByID(ctx context.Context, id string) (*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrExpenseNotFound
	}

	var doc mongoExpense
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("find expense: %w", err)
	}
	return doc.toDomain(), nil
}

// Update replaces all mutable fields of the expense and refreshes updated_at.
// user_id and created_at are never part of the $set.
func (r *ExpenseRepository) Update(ctx context.Context, id string, e *domain.Expense) (*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrExpenseNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":      e.Title,
		"amount":     e.Amount,
		"category":   e.Category,
		"date":       e.Date,
		"note":       e.Note,
		"updated_at": time.Now().UTC(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoExpense
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return doc.toDomain(), nil
}

// Delete removes the expense. Deleting an already-deleted id reports not found.
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrExpenseNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// List returns one page of expenses matching filter plus the total count
// ignoring pagination.
func (r *ExpenseRepository) List(ctx context.Context, filter ports.ListExpensesFilter) ([]*domain.Expense, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := buildQuery(filter)

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: sortDirection(filter)}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list expenses: %w", err)
	}
	expenses, err := decodeExpenses(ctx, cur)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count expenses: %w", err)
	}

	return expenses, total, nil
}

// FindAll returns the entire sorted matching set, unpaginated.
func (r *ExpenseRepository) FindAll(ctx context.Context, filter ports.ListExpensesFilter) ([]*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: sortDirection(filter)}})
	cur, err := r.col.Find(ctx, buildQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find expenses: %w", err)
	}
	return decodeExpenses(ctx, cur)
}

// DeleteByUser removes every expense owned by userID.
func (r *ExpenseRepository) DeleteByUser(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("delete expenses by user: %w", err)
	}
	return nil
}

// Count returns the total number of expense documents across all users.
func (r *ExpenseRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return n, nil
}

// TotalsByCategory groups all expenses by category and sums amounts, pushed
// down to the server as an aggregation pipeline. Ordering is left to the
// service layer.
func (r *ExpenseRepository) TotalsByCategory(ctx context.Context) ([]ports.CategoryTotal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate by category: %w", err)
	}
	defer cur.Close(ctx)

	var out []ports.CategoryTotal
	for cur.Next(ctx) {
		var row struct {
			Category string  `bson:"_id"`
			Total    float64 `bson:"total"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode category total: %w", err)
		}
		out = append(out, ports.CategoryTotal{Category: row.Category, Total: row.Total})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("aggregate by category: %w", err)
	}
	return out, nil
}

// MonthlyTotals groups all expenses by the (year, month) of their date and
// sums amounts. Key formatting and ordering are owned by the service layer.
func (r *ExpenseRepository) MonthlyTotals(ctx context.Context) ([]ports.MonthlyTotal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "year", Value: bson.D{{Key: "$year", Value: "$date"}}},
				{Key: "month", Value: bson.D{{Key: "$month", Value: "$date"}}},
			}},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate by month: %w", err)
	}
	defer cur.Close(ctx)

	var out []ports.MonthlyTotal
	for cur.Next(ctx) {
		var row struct {
			ID struct {
				Year  int `bson:"year"`
				Month int `bson:"month"`
			} `bson:"_id"`
			Total float64 `bson:"total"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode monthly total: %w", err)
		}
		out = append(out, ports.MonthlyTotal{Year: row.ID.Year, Month: row.ID.Month, Total: row.Total})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("aggregate by month: %w", err)
	}
	return out, nil
}

// EnsureIndexes creates necessary indexes on the expenses collection.
func (r *ExpenseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func buildQuery(filter ports.ListExpensesFilter) bson.M {
	query := bson.M{"user_id": filter.UserID}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if !filter.MonthStart.IsZero() {
		query["date"] = bson.M{"$gte": filter.MonthStart, "$lt": filter.MonthEnd}
	}
	return query
}

func sortDirection(filter ports.ListExpensesFilter) int {
	if filter.SortAsc {
		return 1
	}
	return -1
}

func decodeExpenses(ctx context.Context, cur *mongo.Cursor) ([]*domain.Expense, error) {
	defer cur.Close(ctx)

	var out []*domain.Expense
	for cur.Next(ctx) {
		var doc mongoExpense
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode expense: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}
