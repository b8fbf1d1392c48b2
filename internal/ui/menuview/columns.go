package menuview

import (
	"strconv"

	"go.trai.ch/menucache/internal/core/domain"
)

type column struct {
	title string
	value func(domain.MenuItem) string
}

var columns = map[string]column{
	"menu_id":      {title: "ID", value: func(m domain.MenuItem) string { return string(m.ID) }},
	"dish_name":    {title: "DISH", value: func(m domain.MenuItem) string { return m.Name }},
	"category":     {title: "CATEGORY", value: func(m domain.MenuItem) string { return m.Category }},
	"price":        {title: "PRICE", value: func(m domain.MenuItem) string { return formatPrice(m.Price) }},
	"stock_status": {title: "STOCK", value: func(m domain.MenuItem) string { return stockLabel(m.Stock) }},
	"description":  {title: "DESCRIPTION", value: func(m domain.MenuItem) string { return m.Description }},
	"image_url":    {title: "IMAGE", value: func(m domain.MenuItem) string { return m.ImageURL }},
}

var defaultFields = []string{"menu_id", "dish_name", "price", "stock_status"}

// selectColumns maps requested field names onto known columns, keeping order
// and dropping unknown names. No fields means the default set.
func selectColumns(fields []string) []string {
	if len(fields) == 0 {
		return defaultFields
	}
	out := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		f = domain.CanonicalField(f)
		if _, ok := columns[f]; !ok || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	if len(out) == 0 {
		return defaultFields
	}
	return out
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

func stockLabel(s domain.StockStatus) string {
	switch s {
	case domain.StockIn:
		return "in stock"
	case domain.StockLow:
		return "low stock"
	case domain.StockOut:
		return "out of stock"
	default:
		return "unknown"
	}
}
