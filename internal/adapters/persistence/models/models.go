package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// People
// ============================================================

// Customer represents customers table
type Customer struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	FirstName  string     `gorm:"size:100;not null" json:"first_name"`
	LastName   string     `gorm:"size:100;not null" json:"last_name"`
	NationalID string     `gorm:"column:national_id;size:20;uniqueIndex;not null" json:"national_id"`
	Phone      string     `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Address    string     `gorm:"type:text" json:"address"`
	BirthDate  *time.Time `gorm:"type:date" json:"birth_date"`
	KYCStatus  string     `gorm:"column:kyc_status;size:20;not null;default:'PENDING'" json:"kyc_status"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

// CustomerResponse DTO
type CustomerResponse struct {
	ID         uint       `json:"id"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	NationalID string     `json:"nationalId"`
	Phone      string     `json:"phone"`
	Address    string     `json:"address"`
	BirthDate  *time.Time `json:"birthDate"`
	KYCStatus  string     `json:"kycStatus"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (c *Customer) ToResponse() *CustomerResponse {
	return &CustomerResponse{
		ID:         c.ID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		NationalID: c.NationalID,
		Phone:      c.Phone,
		Address:    c.Address,
		BirthDate:  c.BirthDate,
		KYCStatus:  c.KYCStatus,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// Employee represents employees table
type Employee struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"size:100;not null" json:"first_name"`
	LastName  string    `gorm:"size:100;not null" json:"last_name"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Position  string    `gorm:"size:20;not null;default:'STAFF'" json:"position"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// EmployeeResponse DTO
type EmployeeResponse struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone"`
	Position  string    `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

func (e *Employee) ToResponse() *EmployeeResponse {
	return &EmployeeResponse{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Phone:     e.Phone,
		Position:  e.Position,
		CreatedAt: e.CreatedAt,
	}
}

// ============================================================
// Collateral
// ============================================================

// PawnItem represents pawn_items table
type PawnItem struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	ItemType       string           `gorm:"size:50;not null" json:"item_type"`
	Description    string           `gorm:"type:text" json:"description"`
	Brand          string           `gorm:"size:100" json:"brand"`
	Model          string           `gorm:"size:100" json:"model"`
	SerialNumber   string           `gorm:"size:100" json:"serial_number"`
	Weight         *decimal.Decimal `gorm:"type:decimal(10,2)" json:"weight"`
	AppraisedValue decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"appraised_value"`
	ItemStatus     string           `gorm:"size:30;not null;default:'IN_STORAGE';index" json:"item_status"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PawnItem) TableName() string {
	return "pawn_items"
}

// PawnItemResponse DTO
type PawnItemResponse struct {
	ID             uint      `json:"id"`
	ItemType       string    `json:"itemType"`
	Description    string    `json:"description"`
	Brand          string    `json:"brand"`
	Model          string    `json:"model"`
	SerialNumber   string    `json:"serialNumber"`
	Weight         *float64  `json:"weight"`
	AppraisedValue float64   `json:"appraisedValue"`
	ItemStatus     string    `json:"itemStatus"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (p *PawnItem) ToResponse() *PawnItemResponse {
	resp := &PawnItemResponse{
		ID:             p.ID,
		ItemType:       p.ItemType,
		Description:    p.Description,
		Brand:          p.Brand,
		Model:          p.Model,
		SerialNumber:   p.SerialNumber,
		AppraisedValue: p.AppraisedValue.InexactFloat64(),
		ItemStatus:     p.ItemStatus,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.Weight != nil {
		w := p.Weight.InexactFloat64()
		resp.Weight = &w
	}
	return resp
}

// Appraisal represents appraisals table
type Appraisal struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ItemID         *uint           `gorm:"index" json:"item_id"`
	EmployeeID     uint            `gorm:"not null;index" json:"employee_id"`
	AppraisedValue decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"appraised_value"`
	AppraisalDate  time.Time       `gorm:"type:datetime;not null" json:"appraisal_date"`
	Note           string          `gorm:"type:text" json:"note"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Item     *PawnItem `gorm:"foreignKey:ItemID" json:"-"`
	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"-"`
}

func (Appraisal) TableName() string {
	return "appraisals"
}

// AppraisalResponse DTO
type AppraisalResponse struct {
	ID             uint      `json:"id"`
	ItemID         *uint     `json:"itemId"`
	EmployeeID     uint      `json:"employeeId"`
	AppraisedValue float64   `json:"appraisedValue"`
	AppraisalDate  time.Time `json:"appraisalDate"`
	Note           string    `json:"note"`
}

func (a *Appraisal) ToResponse() *AppraisalResponse {
	return &AppraisalResponse{
		ID:             a.ID,
		ItemID:         a.ItemID,
		EmployeeID:     a.EmployeeID,
		AppraisedValue: a.AppraisedValue.InexactFloat64(),
		AppraisalDate:  a.AppraisalDate,
		Note:           a.Note,
	}
}

// ============================================================
// Contracts
// ============================================================

// PawnTicket represents pawn_tickets table (the loan contract)
type PawnTicket struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	CustomerID     uint            `gorm:"not null;index" json:"customer_id"`
	EmployeeID     uint            `gorm:"not null;index" json:"employee_id"`
	ItemID         uint            `gorm:"not null;index" json:"item_id"`
	LoanAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"loan_amount"`
	InterestRate   decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	ContractDate   time.Time       `gorm:"type:datetime;not null" json:"contract_date"`
	DueDate        time.Time       `gorm:"type:datetime;not null;index" json:"due_date"`
	ContractStatus string          `gorm:"size:20;not null;default:'ACTIVE';index" json:"contract_status"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"-"`
	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"-"`
	Item     *PawnItem `gorm:"foreignKey:ItemID" json:"-"`
}

func (PawnTicket) TableName() string {
	return "pawn_tickets"
}

// PawnTicketResponse DTO
type PawnTicketResponse struct {
	ID             uint      `json:"id"`
	CustomerID     uint      `json:"customerId"`
	EmployeeID     uint      `json:"employeeId"`
	ItemID         uint      `json:"itemId"`
	LoanAmount     float64   `json:"loanAmount"`
	InterestRate   float64   `json:"interestRate"`
	ContractDate   time.Time `json:"contractDate"`
	DueDate        time.Time `json:"dueDate"`
	ContractStatus string    `json:"contractStatus"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (t *PawnTicket) ToResponse() *PawnTicketResponse {
	return &PawnTicketResponse{
		ID:             t.ID,
		CustomerID:     t.CustomerID,
		EmployeeID:     t.EmployeeID,
		ItemID:         t.ItemID,
		LoanAmount:     t.LoanAmount.InexactFloat64(),
		InterestRate:   t.InterestRate.InexactFloat64(),
		ContractDate:   t.ContractDate,
		DueDate:        t.DueDate,
		ContractStatus: t.ContractStatus,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// Payment represents payments table
type Payment struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	TicketID    uint            `gorm:"not null;index" json:"ticket_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentDate time.Time       `gorm:"type:datetime;not null" json:"payment_date"`
	PaymentType string          `gorm:"size:20;not null" json:"payment_type"`
	Note        string          `gorm:"type:text" json:"note"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Ticket *PawnTicket `gorm:"foreignKey:TicketID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentResponse DTO
type PaymentResponse struct {
	ID          uint      `json:"id"`
	TicketID    uint      `json:"ticketId"`
	Amount      float64   `json:"amount"`
	PaymentDate time.Time `json:"paymentDate"`
	PaymentType string    `json:"paymentType"`
	Note        string    `json:"note"`
}

func (p *Payment) ToResponse() *PaymentResponse {
	return &PaymentResponse{
		ID:          p.ID,
		TicketID:    p.TicketID,
		Amount:      p.Amount.InexactFloat64(),
		PaymentDate: p.PaymentDate,
		PaymentType: p.PaymentType,
		Note:        p.Note,
	}
}

// Disposition represents dispositions table
type Disposition struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ItemID     uint            `gorm:"not null;index" json:"item_id"`
	SaleDate   time.Time       `gorm:"type:datetime;not null" json:"sale_date"`
	SalePrice  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"sale_price"`
	SaleMethod string          `gorm:"size:20;not null" json:"sale_method"`
	Buyer      string          `gorm:"size:200" json:"buyer"`
	Note       string          `gorm:"type:text" json:"note"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Item *PawnItem `gorm:"foreignKey:ItemID" json:"-"`
}

func (Disposition) TableName() string {
	return "dispositions"
}

// DispositionResponse DTO
type DispositionResponse struct {
	ID         uint      `json:"id"`
	ItemID     uint      `json:"itemId"`
	SaleDate   time.Time `json:"saleDate"`
	SalePrice  float64   `json:"salePrice"`
	SaleMethod string    `json:"saleMethod"`
	Buyer      string    `json:"buyer"`
	Note       string    `json:"note"`
}

func (d *Disposition) ToResponse() *DispositionResponse {
	return &DispositionResponse{
		ID:         d.ID,
		ItemID:     d.ItemID,
		SaleDate:   d.SaleDate,
		SalePrice:  d.SalePrice.InexactFloat64(),
		SaleMethod: d.SaleMethod,
		Buyer:      d.Buyer,
		Note:       d.Note,
	}
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates every table, parents before children
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Customer{},
		&Employee{},
		&PawnItem{},
		&Appraisal{},
		&PawnTicket{},
		&Payment{},
		&Disposition{},
	)
}
