// Package testdb opens throwaway sqlite databases with the production schema
// and seeds the rows most tests need.
package testdb

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"pawnledger/internal/adapters/persistence/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens an isolated in-memory database with foreign keys enforced.
// The pool is capped at one connection, so every query issued while a
// transaction is open must go through that transaction.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// Date returns midnight UTC of the given day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

var customerSeq atomic.Int64

// Customer inserts a customer with a unique national ID and phone
func Customer(t testing.TB, db *gorm.DB, firstName string) *models.Customer {
	t.Helper()
	seq := customerSeq.Add(1)
	c := &models.Customer{
		FirstName:  firstName,
		LastName:   "Test",
		NationalID: fmt.Sprintf("1%012d", seq),
		Phone:      fmt.Sprintf("+668%08d", seq%100_000_000),
		KYCStatus:  "PENDING",
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

// Employee inserts a staff member
func Employee(t testing.TB, db *gorm.DB, firstName string) *models.Employee {
	t.Helper()
	e := &models.Employee{FirstName: firstName, LastName: "Staff", Position: "STAFF"}
	require.NoError(t, db.Create(e).Error)
	return e
}

// Item inserts an item in storage
func Item(t testing.TB, db *gorm.DB, itemType string, value int64) *models.PawnItem {
	t.Helper()
	i := &models.PawnItem{
		ItemType:       itemType,
		AppraisedValue: decimal.NewFromInt(value),
		ItemStatus:     "IN_STORAGE",
	}
	require.NoError(t, db.Create(i).Error)
	return i
}

// Ticket inserts an ACTIVE ticket running from contract for thirty days
func Ticket(t testing.TB, db *gorm.DB, customerID, employeeID, itemID uint, loan int64, contract time.Time) *models.PawnTicket {
	t.Helper()
	tk := &models.PawnTicket{
		CustomerID:     customerID,
		EmployeeID:     employeeID,
		ItemID:         itemID,
		LoanAmount:     decimal.NewFromInt(loan),
		InterestRate:   decimal.NewFromFloat(2.5),
		ContractDate:   contract,
		DueDate:        contract.AddDate(0, 0, 30),
		ContractStatus: "ACTIVE",
	}
	require.NoError(t, db.Create(tk).Error)
	return tk
}

// Payment inserts a cash payment against a ticket
func Payment(t testing.TB, db *gorm.DB, ticketID uint, amount int64, paidAt time.Time) *models.Payment {
	t.Helper()
	p := &models.Payment{
		TicketID:    ticketID,
		Amount:      decimal.NewFromInt(amount),
		PaymentDate: paidAt,
		PaymentType: "CASH",
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// Count counts the rows of table
func Count(t testing.TB, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}
