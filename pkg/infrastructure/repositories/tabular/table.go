package tabular

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/palletplan/pkg/application/dto"
	"github.com/vsinha/palletplan/pkg/domain/entities"
)

// DateLayout is used when writing last-sale dates
const DateLayout = "2006-01-02"

// palletPlaces is the precision of pallet columns in written files
const palletPlaces = 2

// Table is a view rendered into a header row and typed cells. Cells hold string,
// int64, bool, decimal.Decimal or nil.
type Table struct {
	Header []string
	Rows   [][]any
}

var planHeader = []string{
	"id",
	"description",
	"demand21",
	"virtual_stock",
	"case_pack",
	"pallet_pack",
	"last_sale_date",
	"needed_stock",
	"excess_stock",
	"raw_order",
	"base_order",
	"original_pallets",
	"selected_for_extra",
	"additional_order",
	"additional_pallets",
	"total_pallets",
	"complete_order",
	"adjustment",
	"final_order",
}

var submittableHeader = []string{
	"id",
	"description",
	"base_order",
	"original_pallets",
	"additional_order",
	"additional_pallets",
	"total_pallets",
	"final_order",
}

// ViewTable renders one view of a plan result
func ViewTable(view dto.View, result *dto.PlanResult) (*Table, error) {
	switch view {
	case dto.ViewPlan:
		return orderTable(result.Plan, false), nil
	case dto.ViewErrors:
		return orderTable(result.Errors, true), nil
	case dto.ViewDiscontinue:
		return orderTable(result.DiscontinueCandidates, false), nil
	case dto.ViewSubmittable:
		return submittableTable(result.Submittable), nil
	default:
		return nil, fmt.Errorf("unsupported view: %v", view)
	}
}

func orderTable(orders []*entities.ComputedOrder, withIssues bool) *Table {
	header := append([]string(nil), planHeader...)
	if withIssues {
		header = append(header, "issues")
	}

	table := &Table{Header: header, Rows: make([][]any, 0, len(orders))}
	for _, order := range orders {
		article := order.Article
		row := []any{
			string(article.ID),
			article.Description,
			article.Demand21,
			article.VirtualStock,
			int64(article.CasePack),
			int64(article.PalletPack),
			dateCell(article.LastSaleDate),
			order.NeededStock,
			order.ExcessStock,
			order.RawOrder,
			int64(order.BaseOrder),
			pallets(order.OriginalPallets),
			order.Selected,
			int64(order.AdditionalOrder),
			pallets(order.AdditionalPallets),
			pallets(order.TotalPallets),
			int64(order.CompleteOrder()),
			int64(order.Adjustment),
			int64(order.FinalOrder),
		}
		if withIssues {
			row = append(row, issuesCell(article.PackagingIssues()))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func submittableTable(lines []entities.SubmittableLine) *Table {
	table := &Table{
		Header: append([]string(nil), submittableHeader...),
		Rows:   make([][]any, 0, len(lines)),
	}
	for _, line := range lines {
		table.Rows = append(table.Rows, []any{
			string(line.ID),
			line.Description,
			int64(line.BaseOrder),
			pallets(line.OriginalPallets),
			int64(line.AdditionalOrder),
			pallets(line.AdditionalPallets),
			pallets(line.TotalPallets),
			int64(line.FinalOrder),
		})
	}
	return table
}

func pallets(d decimal.Decimal) decimal.Decimal {
	return d.Round(palletPlaces)
}

func dateCell(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(DateLayout)
}

func issuesCell(issues []entities.PackagingIssue) string {
	names := make([]string, len(issues))
	for i, issue := range issues {
		names[i] = issue.String()
	}
	return strings.Join(names, ",")
}

// FormatCell renders a table cell as text
func FormatCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return fmt.Sprintf("%d", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case decimal.Decimal:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// StringRows renders the whole table, header first, as text rows
func (t *Table) StringRows() [][]string {
	rows := make([][]string, 0, len(t.Rows)+1)
	rows = append(rows, append([]string(nil), t.Header...))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = FormatCell(cell)
		}
		rows = append(rows, cells)
	}
	return rows
}
