package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/domain/schema"
)

// parseTableQuery lee la consulta de tabla de la query string:
//
//	?page=2&limit=20&sort=name&dir=desc
//	&filter[status]=active&min[budget]=100&max[budget]=500
//	&from[startDate]=2024-01-01&to[startDate]=2024-12-31
//
// El tipo de cada filtro lo fija después la columna declarada.
func parseTableQuery(c *fiber.Ctx) schema.TableQuery {
	q := schema.TableQuery{
		Page: schema.PageRequest{Page: c.QueryInt("page", 0), Limit: c.QueryInt("limit", 0)},
	}
	if key := strings.TrimSpace(c.Query("sort")); key != "" {
		q.Sort = schema.SortState{Key: key, Direction: schema.ParseSortDirection(c.Query("dir", string(schema.SortAsc)))}
	}

	byKey := map[string]*schema.Filter{}
	var order []string
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		part, key, ok := bracketKey(string(k))
		if !ok {
			return
		}
		f, seen := byKey[key]
		if !seen {
			f = &schema.Filter{Key: key}
			byKey[key] = f
			order = append(order, key)
		}
		val := strings.TrimSpace(string(v))
		switch part {
		case "filter":
			f.Value = val
		case "min":
			f.Min = val
		case "max":
			f.Max = val
		case "from":
			f.From = val
		case "to":
			f.To = val
		}
	})
	for _, key := range order {
		q.Filters = append(q.Filters, *byKey[key])
	}
	return q
}

// bracketKey separa "filter[name]" en ("filter", "name").
func bracketKey(s string) (string, string, bool) {
	open := strings.IndexByte(s, '[')
	if open <= 0 || !strings.HasSuffix(s, "]") {
		return "", "", false
	}
	part, key := s[:open], s[open+1:len(s)-1]
	if key == "" {
		return "", "", false
	}
	switch part {
	case "filter", "min", "max", "from", "to":
		return part, key, true
	}
	return "", "", false
}
