package db

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"modernc.org/sqlite"
)

// SQLite's built-in lower() only folds ASCII. casefold(x) lowers any text
// with Go's Unicode tables so name search stays case-insensitive for
// non-English listings.
func init() {
	err := sqlite.RegisterDeterministicScalarFunction("casefold", 1, casefold)
	if err != nil {
		panic(fmt.Sprintf("registering casefold: %v", err))
	}
}

func casefold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return nil, fmt.Errorf("casefold: unsupported argument type %T", v)
	}
}
