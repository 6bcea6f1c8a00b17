package service

import "strings"

// reservedCodes совпадают с фиксированными маршрутами и были бы ими затенены.
var reservedCodes = map[string]struct{}{
	"shorten": {},
	"stats":   {},
	"health":  {},
	"ready":   {},
	"metrics": {},
}

// IsReservedCode reports whether code collides with a fixed route name,
// ignoring case.
func IsReservedCode(code string) bool {
	_, ok := reservedCodes[strings.ToLower(code)]
	return ok
}
