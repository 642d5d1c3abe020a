package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/codehercare/clinic-api/internal/model"
	"github.com/codehercare/clinic-api/internal/repository"
	apperrors "github.com/codehercare/clinic-api/pkg/errors"
)

// Result summarizes one bulk import run.
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Column aliases accepted in uploaded sheets, keyed by canonical field.
// Matching is case-insensitive on the trimmed header cell.
var (
	resourceColumns = map[string][]string{
		"name":      {"Item", "Name"},
		"category":  {"Category"},
		"region":    {"Region"},
		"available": {"Available Stock", "Available"},
		"cost":      {"Cost (KES)", "Cost"},
		"unit":      {"Unit"},
	}

	costColumns = map[string][]string{
		"treatment":       {"Service", "Treatment"},
		"cost":            {"Base Cost (KES)", "Cost (KES)", "Cost"},
		"facility":        {"Facility"},
		"region":          {"Region"},
		"category":        {"Category"},
		"nhif_covered":    {"NHIF Covered"},
		"insurance_copay": {"Insurance Copay (KES)", "Insurance Copay"},
		"out_of_pocket":   {"Out-of-Pocket (KES)", "Out of Pocket"},
	}
)

type Service struct {
	inventory repository.InventoryRepository
	costs     repository.CostRepository
}

func NewService(inventory repository.InventoryRepository, costs repository.CostRepository) *Service {
	return &Service{inventory: inventory, costs: costs}
}

// ImportResources bulk-upserts inventory rows from an uploaded xlsx sheet,
// keyed on item name. Rows without a name are skipped, not failed.
func (s *Service) ImportResources(ctx context.Context, r io.Reader) (*Result, error) {
	rows, err := readSheet(r, resourceColumns)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, row := range rows {
		name := strings.TrimSpace(row["name"])
		if name == "" {
			result.Skipped++
			continue
		}

		available := parseInt(row["available"])
		item := &model.Inventory{
			Name:           name,
			Category:       row["category"],
			Region:         row["region"],
			AvailableStock: available,
			TotalStock:     available,
		}
		if cost := parseFloat(row["cost"]); cost != 0 {
			item.Cost = &cost
		}
		if unit := strings.TrimSpace(row["unit"]); unit != "" {
			item.Unit = &unit
		}

		created, err := s.inventory.Upsert(ctx, item)
		if err != nil {
			return nil, apperrors.NewPersistence(err)
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result, nil
}

// ImportCosts bulk-upserts treatment cost rows, keyed on treatment name.
func (s *Service) ImportCosts(ctx context.Context, r io.Reader) (*Result, error) {
	rows, err := readSheet(r, costColumns)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, row := range rows {
		treatment := strings.TrimSpace(row["treatment"])
		if treatment == "" {
			result.Skipped++
			continue
		}

		cost := &model.Cost{
			Treatment: treatment,
			Cost:      parseFloat(row["cost"]),
		}
		if facility := strings.TrimSpace(row["facility"]); facility != "" {
			cost.Facility = &facility
		}
		if region := strings.TrimSpace(row["region"]); region != "" {
			cost.Region = &region
		}
		if category := strings.TrimSpace(row["category"]); category != "" {
			cost.Category = &category
		}
		if nhif := strings.TrimSpace(row["nhif_covered"]); nhif != "" {
			cost.NHIFCovered = &nhif
		}
		if copay := parseFloat(row["insurance_copay"]); copay != 0 {
			cost.InsuranceCopay = &copay
		}
		if oop := parseFloat(row["out_of_pocket"]); oop != 0 {
			cost.OutOfPocket = &oop
		}

		created, err := s.costs.Upsert(ctx, cost)
		if err != nil {
			return nil, apperrors.NewPersistence(err)
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result, nil
}

// readSheet maps each data row of the first sheet to canonical field names
// using the alias table. The first row is the header.
func readSheet(r io.Reader, columns map[string][]string) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid xlsx file", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewBadRequest("workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewBadRequest("failed to read sheet", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	index := headerIndex(rows[0], columns)
	if len(index) == 0 {
		return nil, apperrors.NewBadRequest(
			fmt.Sprintf("sheet %q has no recognized columns", sheets[0]), nil)
	}

	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		mapped := make(map[string]string, len(index))
		for field, col := range index {
			if col < len(row) {
				mapped[field] = row[col]
			}
		}
		out = append(out, mapped)
	}
	return out, nil
}

func headerIndex(header []string, columns map[string][]string) map[string]int {
	index := make(map[string]int)
	for col, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		for field, aliases := range columns {
			if _, done := index[field]; done {
				continue
			}
			for _, alias := range aliases {
				if name == strings.ToLower(alias) {
					index[field] = col
					break
				}
			}
		}
	}
	return index
}

func parseInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func parseFloat(s string) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
