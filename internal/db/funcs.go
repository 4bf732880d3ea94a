package db

import (
	"database/sql/driver"
	"path/filepath"
	"regexp"
	"sync"

	sqlite "modernc.org/sqlite"
)

// regexpCache holds compiled case-insensitive patterns so repeated REGEXP
// calls within one query don't recompile.
var regexpCache sync.Map // pattern string -> *regexp.Regexp

// registerFunctions registers the regexp and dirname scalar functions with
// the driver. Must run before any connection is opened.
func registerFunctions() {
	sqlite.MustRegisterDeterministicScalarFunction("regexp", 2, regexpFunc)
	sqlite.MustRegisterDeterministicScalarFunction("dirname", 1, dirnameFunc)
}

// regexpFunc backs the SQL expression `value REGEXP pattern`. Matching is
// case-insensitive; a NULL value never matches; a bad pattern is an error.
func regexpFunc(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	pattern, ok := args[0].(string)
	if !ok {
		return int64(0), nil
	}
	value, ok := args[1].(string)
	if !ok || value == "" {
		return int64(0), nil
	}

	re, err := compileCached(pattern)
	if err != nil {
		return nil, err
	}
	if re.MatchString(value) {
		return int64(1), nil
	}
	return int64(0), nil
}

func compileCached(pattern string) (*regexp.Regexp, error) {
	if cached, ok := regexpCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}
	regexpCache.Store(pattern, re)
	return re, nil
}

// dirnameFunc backs the SQL expression `dirname(path)`, returning the
// directory portion of a path, or NULL for a NULL/empty input.
func dirnameFunc(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	path, ok := args[0].(string)
	if !ok || path == "" {
		return nil, nil
	}
	return filepath.Dir(path), nil
}
