package domain

// ItemStatus is the storage state of a pawned item
type ItemStatus string

const (
	ItemInStorage          ItemStatus = "IN_STORAGE"
	ItemReturnedToCustomer ItemStatus = "RETURNED_TO_CUSTOMER"
	ItemForfeited          ItemStatus = "FORFEITED_READY_FOR_SALE"
	ItemSold               ItemStatus = "SOLD"
	ItemOther              ItemStatus = "OTHER"
)

// ContractStatus is the state of a pawn ticket
type ContractStatus string

const (
	ContractActive     ContractStatus = "ACTIVE"
	ContractRolledOver ContractStatus = "ROLLED_OVER"
	ContractCancelled  ContractStatus = "CANCELLED"
	ContractExpired    ContractStatus = "EXPIRED"
)

// KYCStatus is the identity verification state of a customer
type KYCStatus string

const (
	KYCPending  KYCStatus = "PENDING"
	KYCPassed   KYCStatus = "PASSED"
	KYCFailed   KYCStatus = "FAILED"
	KYCRejected KYCStatus = "REJECTED"
)

// Position of an employee
type Position string

const (
	PositionStaff      Position = "STAFF"
	PositionSupervisor Position = "SUPERVISOR"
	PositionManager    Position = "MANAGER"
)

// PaymentType is how a payment was settled
type PaymentType string

const (
	PaymentCash     PaymentType = "CASH"
	PaymentTransfer PaymentType = "TRANSFER"
	PaymentCard     PaymentType = "CARD"
	PaymentOnline   PaymentType = "ONLINE"
)

// SaleMethod is how a forfeited item was liquidated
type SaleMethod string

const (
	SaleAuction SaleMethod = "AUCTION"
	SaleDirect  SaleMethod = "DIRECT_SALE"
	SaleOnline  SaleMethod = "ONLINE"
	SaleScrap   SaleMethod = "SCRAP"
)

// Allowed value sets, in display order
var (
	ItemStatuses     = []string{string(ItemInStorage), string(ItemReturnedToCustomer), string(ItemForfeited), string(ItemSold), string(ItemOther)}
	ContractStatuses = []string{string(ContractActive), string(ContractRolledOver), string(ContractCancelled), string(ContractExpired)}
	KYCStatuses      = []string{string(KYCPending), string(KYCPassed), string(KYCFailed), string(KYCRejected)}
	Positions        = []string{string(PositionStaff), string(PositionSupervisor), string(PositionManager)}
	PaymentTypes     = []string{string(PaymentCash), string(PaymentTransfer), string(PaymentCard), string(PaymentOnline)}
	SaleMethods      = []string{string(SaleAuction), string(SaleDirect), string(SaleOnline), string(SaleScrap)}
)

var contractTransitions = map[ContractStatus][]ContractStatus{
	ContractActive:     {ContractRolledOver, ContractCancelled, ContractExpired},
	ContractRolledOver: {ContractActive, ContractCancelled, ContractExpired},
	ContractExpired:    {ContractRolledOver},
	ContractCancelled:  {},
}

var itemTransitions = map[ItemStatus][]ItemStatus{
	ItemInStorage:          {ItemReturnedToCustomer, ItemForfeited, ItemOther},
	ItemForfeited:          {ItemSold, ItemInStorage, ItemOther},
	ItemOther:              {ItemInStorage, ItemReturnedToCustomer, ItemForfeited, ItemSold},
	ItemReturnedToCustomer: {},
	ItemSold:               {},
}

// StateMachine guards status writes. With Strict unset every member of the
// allowed set may overwrite any other.
type StateMachine struct {
	Strict bool
}

// CheckContract validates a contract status change from -> to
func (m StateMachine) CheckContract(from, to ContractStatus) error {
	if !containsString(ContractStatuses, string(to)) {
		return ErrInvalidContractStatus
	}
	if !m.Strict || from == to {
		return nil
	}
	for _, next := range contractTransitions[from] {
		if next == to {
			return nil
		}
	}
	return ErrInvalidTransition
}

// CheckItem validates an item status change from -> to
func (m StateMachine) CheckItem(from, to ItemStatus) error {
	if !containsString(ItemStatuses, string(to)) {
		return ErrInvalidStatus
	}
	if !m.Strict || from == to {
		return nil
	}
	for _, next := range itemTransitions[from] {
		if next == to {
			return nil
		}
	}
	return ErrInvalidTransition
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
