package report

import (
	"github.com/liserjrqlxue/goUtil/simpleUtil"
	"github.com/xuri/excelize/v2"
)

// SetRow writes values into sheet starting at the 1-based cell (col, row).
func SetRow(xlsx *excelize.File, sheet string, col, row int, values []interface{}) {
	var cell = simpleUtil.HandleError(excelize.CoordinatesToCellName(col, row))
	simpleUtil.CheckErr(xlsx.SetSheetRow(sheet, cell, &values))
}
