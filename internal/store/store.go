package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/keramy/formulapmv2-sub001/internal/apperrors"
	"github.com/keramy/formulapmv2-sub001/internal/database"
	"github.com/keramy/formulapmv2-sub001/internal/query"
	"gorm.io/gorm"
)

// List runs a scoped list query into dest. Reads are retried once when the
// failure looks transient; writes never are.
func List(q *query.Query, dest interface{}, preloads ...string) error {
	return withReadRetry(func() error {
		db := apply(database.DB.Model(dest), q)
		for _, p := range preloads {
			db = db.Preload(p)
		}
		if q.Sort != "" {
			db = db.Order(q.Sort)
		}
		if q.Limit > 0 {
			db = db.Offset(q.Offset).Limit(q.Limit)
		}
		return translate(db.Find(dest).Error)
	})
}

// Count returns the total row count for the query, ignoring pagination.
func Count(q *query.Query, model interface{}) (int64, error) {
	var total int64
	err := withReadRetry(func() error {
		return translate(apply(database.DB.Model(model), q).Count(&total).Error)
	})
	return total, err
}

// Get fetches a single record by id within the query's scope. A record that
// exists but falls outside the scope comes back as not found; existence must
// not leak to out-of-scope actors.
func Get(q *query.Query, id uuid.UUID, dest interface{}, preloads ...string) error {
	return withReadRetry(func() error {
		db := apply(database.DB.Model(dest), q).Where("id = ?", id)
		for _, p := range preloads {
			db = db.Preload(p)
		}
		return translate(db.First(dest).Error)
	})
}

func Create(value interface{}) error {
	return translate(database.DB.Create(value).Error)
}

func Save(value interface{}) error {
	return translate(database.DB.Save(value).Error)
}

func Delete(value interface{}) error {
	return translate(database.DB.Delete(value).Error)
}

// WithTransaction wraps multi-record writes in the store's own transaction.
func WithTransaction(fn func(tx *gorm.DB) error) error {
	return translate(database.DB.Transaction(fn))
}

// apply stacks the query's clauses onto a gorm handle, literally. No
// authorization decisions happen here.
func apply(db *gorm.DB, q *query.Query) *gorm.DB {
	if q.Scope != nil {
		db = db.Where("("+q.Scope.Expr+")", q.Scope.Args...)
	}
	if q.Search != nil {
		db = applySearch(db, q.Search)
	}
	for _, clause := range q.Where {
		db = db.Where(clause.Expr, clause.Args...)
	}
	return db
}

func applySearch(db *gorm.DB, s *query.SearchClause) *gorm.DB {
	op := "LIKE"
	if database.DB.Dialector.Name() == "postgres" {
		op = "ILIKE"
	}

	var conditions []string
	var args []interface{}
	for _, field := range s.Fields {
		conditions = append(conditions, field+" "+op+" ?")
		args = append(args, "%"+s.Term+"%")
	}
	return db.Where("("+strings.Join(conditions, " OR ")+")", args...)
}

func withReadRetry(fn func() error) error {
	err := fn()

	var accErr *apperrors.AccessError
	if err != nil && errors.As(err, &accErr) && accErr.Transient() {
		return fn()
	}
	return err
}

// translate maps gorm and driver failures onto the access error kinds.
func translate(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Access(apperrors.AccessNotFound, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Access(apperrors.AccessConflict, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Access(apperrors.AccessTimeout, err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed"):
		return apperrors.Access(apperrors.AccessConflict, err)
	case strings.Contains(msg, "violates foreign key constraint") || strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return apperrors.Access(apperrors.AccessConflict, err)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return apperrors.Access(apperrors.AccessTimeout, err)
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "connection reset"):
		return apperrors.Access(apperrors.AccessUnavailable, err)
	default:
		return apperrors.Access(apperrors.AccessInternal, err)
	}
}
