package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createStoreTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE stores (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		merchant_id TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		store_id TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createProductTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		buying_price REAL NOT NULL DEFAULT 0,
		selling_price REAL NOT NULL DEFAULT 0,
		stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
		spoiled_quantity INTEGER NOT NULL DEFAULT 0 CHECK (spoiled_quantity >= 0),
		payment_status TEXT NOT NULL DEFAULT 'not paid',
		store_id TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (store_id, name)
	);`)
}

func createSupplyRequestTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE supply_requests (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		quantity_requested INTEGER NOT NULL CHECK (quantity_requested > 0),
		status TEXT NOT NULL DEFAULT 'pending',
		requested_by TEXT NOT NULL,
		store_id TEXT NOT NULL,
		requested_at DATETIME NOT NULL,
		resolved_at DATETIME,
		resolved_by TEXT
	);`)
}

func createAllTables(t *testing.T, db *gorm.DB) {
	createStoreTable(t, db)
	createUserTable(t, db)
	createProductTable(t, db)
	createSupplyRequestTable(t, db)
}

func seedProduct(t *testing.T, db *gorm.DB, storeID uuid.UUID, name string, stock int) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := time.Now()
	mustExec(t, db, `INSERT INTO products (id, name, buying_price, selling_price, stock_quantity, spoiled_quantity, payment_status, store_id, created_at, updated_at)
		VALUES (?, ?, 10, 15, ?, 0, 'not paid', ?, ?, ?)`, id, name, stock, storeID, now, now)
	return id
}
