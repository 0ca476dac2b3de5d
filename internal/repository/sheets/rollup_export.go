package sheets

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/nebsam/opsdash/internal/domain/models"
)

// RollupExporter appends month-to-date rollup snapshots to a sheet, one row
// per department code:
//
//	asOf | code | reports | installs | renewals | sales | offline | checkups
type RollupExporter struct {
	repo       Repository
	sheetRange string
	logger     *zap.Logger
}

// NewRollupExporter wires an exporter writing into sheetRange.
func NewRollupExporter(repo Repository, sheetRange string, logger *zap.Logger) *RollupExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RollupExporter{repo: repo, sheetRange: sheetRange, logger: logger}
}

// ExportMonthly appends the current period of rollup labelled asOf. A
// snapshot already present for asOf is left untouched.
func (e *RollupExporter) ExportMonthly(ctx context.Context, asOf string, rollup models.MonthlyRollup) error {
	existing, err := e.repo.ReadRange(ctx, e.sheetRange)
	if err != nil {
		return err
	}
	for _, row := range existing {
		if len(row) > 0 && fmt.Sprint(row[0]) == asOf {
			e.logger.Info("rollup snapshot already exported", zap.String("as_of", asOf))
			return nil
		}
	}

	rows := RollupRows(asOf, rollup.Current)
	if err := e.repo.AppendRows(ctx, e.sheetRange, rows); err != nil {
		return err
	}
	e.logger.Info("monthly rollup exported", zap.String("as_of", asOf), zap.Int("rows", len(rows)))
	return nil
}

// RollupRows flattens a rollup into sheet rows ordered by department code.
func RollupRows(asOf string, rollup models.Rollup) [][]interface{} {
	codes := make([]models.DepartmentCode, 0, len(rollup))
	for code := range rollup {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	rows := make([][]interface{}, 0, len(codes))
	for _, code := range codes {
		t := rollup[code]
		rows = append(rows, []interface{}{asOf, string(code), t.Reports, t.Installs, t.Renewals, t.Sales, t.Offline, t.Checkups})
	}
	return rows
}
