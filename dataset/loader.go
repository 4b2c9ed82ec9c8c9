// Package dataset 负责原始交互数据的加载与聚合：
// CSV 数据源 -> Interaction 行 -> 用户商品统计 / 商品热度统计 / 品牌映射。
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rushteam/shoprec/core"
)

// 数据源必需列，顺序不限，允许出现额外列。
var requiredColumns = []string{"uid", "pid", "brand", "click", "add_to_cart", "purchase"}

// Load 从 CSV 文件加载原始交互数据。
// 文件不可读或数据不合法时返回数据加载错误（core.IsDataLoad 为 true）。
func Load(path string) ([]core.Interaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewDataLoadError(fmt.Sprintf("dataset: open %s: %v", path, err))
	}
	defer f.Close()
	return Read(f)
}

// Read 从任意 reader 读取 CSV 交互数据。
// 首行必须是表头；缺列、非数值计数或负数计数都是致命错误，不做静默丢行。
func Read(r io.Reader) ([]core.Interaction, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, core.NewDataLoadError(fmt.Sprintf("dataset: read header: %v", err))
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, core.NewDataLoadError(fmt.Sprintf("dataset: missing required column %q", col))
		}
	}

	var rows []core.Interaction
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, core.NewDataLoadError(fmt.Sprintf("dataset: line %d: %v", line, err))
		}

		row, err := parseRecord(record, idx, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseRecord(record []string, idx map[string]int, line int) (core.Interaction, error) {
	var row core.Interaction
	var err error

	if row.UID, err = parseID(record, idx, "uid", line); err != nil {
		return row, err
	}
	if row.PID, err = parseID(record, idx, "pid", line); err != nil {
		return row, err
	}
	row.Brand = strings.TrimSpace(record[idx["brand"]])

	if row.Clicks, err = parseCount(record, idx, "click", line); err != nil {
		return row, err
	}
	if row.AddToCart, err = parseCount(record, idx, "add_to_cart", line); err != nil {
		return row, err
	}
	if row.Purchases, err = parseCount(record, idx, "purchase", line); err != nil {
		return row, err
	}

	return row, nil
}

func parseID(record []string, idx map[string]int, col string, line int) (int64, error) {
	raw := strings.TrimSpace(record[idx[col]])
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, core.NewDataLoadError(fmt.Sprintf("dataset: line %d: column %q: invalid id %q", line, col, raw))
	}
	return v, nil
}

func parseCount(record []string, idx map[string]int, col string, line int) (int64, error) {
	raw := strings.TrimSpace(record[idx[col]])
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, core.NewDataLoadError(fmt.Sprintf("dataset: line %d: column %q: invalid count %q", line, col, raw))
	}
	if v < 0 {
		return 0, core.NewDataLoadError(fmt.Sprintf("dataset: line %d: column %q: negative count %d", line, col, v))
	}
	return v, nil
}
