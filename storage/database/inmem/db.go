// Package inmemdb keeps every table in memory. It backs the service and API tests.
package inmemdb

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/divyang/core/attendance"
	"github.com/trezcool/divyang/core/beneficiary"
	"github.com/trezcool/divyang/core/document"
	"github.com/trezcool/divyang/core/user"
)

type DB struct {
	mutex         sync.RWMutex
	users         map[string]*user.User
	beneficiaries map[string]*beneficiary.Beneficiary
	documents     map[string]*document.Document
	attendance    map[string]*attendance.Record

	// FailNextWrite makes the next write fail with this error, then resets.
	FailNextWrite error
}

func NewDB() *DB {
	return &DB{
		users:         make(map[string]*user.User),
		beneficiaries: make(map[string]*beneficiary.Beneficiary),
		documents:     make(map[string]*document.Document),
		attendance:    make(map[string]*attendance.Record),
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.users = make(map[string]*user.User)
	db.beneficiaries = make(map[string]*beneficiary.Beneficiary)
	db.documents = make(map[string]*document.Document)
	db.attendance = make(map[string]*attendance.Record)
	db.FailNextWrite = nil
}

// writeErr must be called with the write lock held.
func (db *DB) writeErr() error {
	err := db.FailNextWrite
	db.FailNextWrite = nil
	return err
}

func newID() string { return uuid.New().String() }

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
