package core

import "strings"

type DBOrdering struct {
	Field     string
	Ascending bool
}

// ParseOrdering parses "a,-b" into [{a ASC} {b DESC}].
func ParseOrdering(s string) []DBOrdering {
	var ordering []DBOrdering
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" || field == "-" {
			continue
		}
		if strings.HasPrefix(field, "-") {
			ordering = append(ordering, DBOrdering{Field: field[1:]})
		} else {
			ordering = append(ordering, DBOrdering{Field: field, Ascending: true})
		}
	}
	return ordering
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}
