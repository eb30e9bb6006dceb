package services

import (
	"context"
	"fmt"
	"io"

	"pawnledger/internal/adapters/persistence/repositories"

	"github.com/xuri/excelize/v2"
)

const ticketSheet = "Tickets"

var ticketColumns = []string{
	"Ticket ID", "Customer", "Item Type", "Loan Amount", "Interest Rate",
	"Contract Date", "Due Date", "Status", "Total Paid",
}

// ReportService renders spreadsheet exports
type ReportService struct {
	tickets *repositories.TicketRepository
}

// NewReportService creates a new report service
func NewReportService(tickets *repositories.TicketRepository) *ReportService {
	return &ReportService{tickets: tickets}
}

// ExportTickets writes every ticket as an XLSX workbook to w
func (s *ReportService) ExportTickets(ctx context.Context, w io.Writer) error {
	rows, err := s.tickets.ExportRows(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ticketSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(ticketSheet, "A1", &ticketColumns); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.ID,
			fmt.Sprintf("%s %s", r.FirstName, r.LastName),
			r.ItemType,
			r.LoanAmount.InexactFloat64(),
			r.InterestRate.InexactFloat64(),
			r.ContractDate.Format("2006-01-02"),
			r.DueDate.Format("2006-01-02"),
			r.ContractStatus,
			r.TotalPaid.InexactFloat64(),
		}
		if err := f.SetSheetRow(ticketSheet, cell, &values); err != nil {
			return err
		}
	}

	return f.Write(w)
}
