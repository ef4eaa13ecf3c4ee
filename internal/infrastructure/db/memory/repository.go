// Package memory keeps users in a go-memdb database. It backs tests and the
// service when no Postgres DSN is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/go-memdb"

	"user-registry-api/internal/domain/user"
)

const (
	usersTable = "users"
	idIndex    = "id"
	emailIndex = "email"
)

// record is what is stored, so callers never share a *user.User with the store.
type record struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			usersTable: {
				Name: usersTable,
				Indexes: map[string]*memdb.IndexSchema{
					idIndex: {
						Name:    idIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					emailIndex: {
						Name:    emailIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Email"},
					},
				},
			},
		},
	}
}

type Repository struct {
	db *memdb.MemDB
}

func NewRepository() (*Repository, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("memdb: %w", err)
	}

	return &Repository{db: db}, nil
}

// Save upserts by id. go-memdb does not enforce unique secondary indexes,
// so the email check runs inside the write transaction.
func (r *Repository) Save(_ context.Context, u *user.User) (*user.User, error) {
	rec := toRecord(u)

	txn := r.db.Txn(true)
	defer txn.Abort()

	holder, err := txn.First(usersTable, emailIndex, rec.Email)
	if err != nil {
		return nil, err
	}
	if holder != nil && holder.(*record).ID != rec.ID {
		return nil, user.ErrDuplicateEmail
	}
	if err = txn.Insert(usersTable, rec); err != nil {
		return nil, err
	}
	txn.Commit()

	return fromRecord(rec)
}

func (r *Repository) FindByID(_ context.Context, id user.ID) (*user.User, error) {
	return r.first(idIndex, id.Key())
}

func (r *Repository) FindByEmail(_ context.Context, email user.Email) (*user.User, error) {
	return r.first(emailIndex, email.String())
}

func (r *Repository) first(index, value string) (*user.User, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(usersTable, index, value)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	return fromRecord(raw.(*record))
}

// FindAll returns newest first.
func (r *Repository) FindAll(_ context.Context, skip, limit int) (user.Users, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(usersTable, idIndex)
	if err != nil {
		return nil, err
	}

	var recs []*record
	for raw := it.Next(); raw != nil; raw = it.Next() {
		recs = append(recs, raw.(*record))
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})

	if skip >= len(recs) {
		return user.Users{}, nil
	}
	recs = recs[skip:]
	if limit >= 0 && limit < len(recs) {
		recs = recs[:limit]
	}

	us := make(user.Users, 0, len(recs))
	for _, rec := range recs {
		u, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		us = append(us, u)
	}

	return us, nil
}

func (r *Repository) Delete(_ context.Context, id user.ID) (bool, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	n, err := txn.DeleteAll(usersTable, idIndex, id.Key())
	if err != nil {
		return false, err
	}
	txn.Commit()

	return n > 0, nil
}

func (r *Repository) ExistsByEmail(_ context.Context, email user.Email) (bool, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(usersTable, emailIndex, email.String())
	if err != nil {
		return false, err
	}

	return raw != nil, nil
}

func toRecord(u *user.User) *record {
	return &record{
		ID:        u.ID().Key(),
		Email:     u.Email().String(),
		FirstName: u.FirstName(),
		LastName:  u.LastName(),
		IsActive:  u.IsActive(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func fromRecord(rec *record) (*user.User, error) {
	id, err := user.ParseID(rec.ID)
	if err != nil {
		return nil, err
	}
	email, err := user.ParseEmail(rec.Email)
	if err != nil {
		return nil, err
	}

	var updated *time.Time
	if rec.UpdatedAt != nil {
		t := *rec.UpdatedAt
		updated = &t
	}

	return user.Restore(id, email, rec.FirstName, rec.LastName, rec.IsActive, rec.CreatedAt, updated), nil
}
