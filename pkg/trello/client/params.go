package client

import (
	"fmt"
	"strings"
	"time"
)

type QueryOptionDecoratorFunc func(map[string]string)

type FilterValue string

const (
	FilterAll    FilterValue = "all"
	FilterClosed FilterValue = "closed"
	FilterNone   FilterValue = "none"
	FilterOpen   FilterValue = "open"
)

// QueryOptions collects decorators into the option map accepted by finders.
func QueryOptions(decorators ...QueryOptionDecoratorFunc) map[string]string {
	opts := map[string]string{}
	for _, decorate := range decorators {
		decorate(opts)
	}
	return opts
}

// Fields limits the returned attributes to the given remote keys.
func Fields(keys ...string) QueryOptionDecoratorFunc {
	return func(opts map[string]string) {
		opts["fields"] = strings.Join(keys, ",")
	}
}

func Filter(filter FilterValue) QueryOptionDecoratorFunc {
	return func(opts map[string]string) {
		opts["filter"] = string(filter)
	}
}

func Limit(count uint64) QueryOptionDecoratorFunc {
	return func(opts map[string]string) {
		opts["limit"] = fmt.Sprintf("%d", count)
	}
}

func Since(timeAt time.Time) QueryOptionDecoratorFunc {
	return func(opts map[string]string) {
		opts["since"] = timeAt.UTC().Format(time.RFC3339)
	}
}

func Before(timeAt time.Time) QueryOptionDecoratorFunc {
	return func(opts map[string]string) {
		opts["before"] = timeAt.UTC().Format(time.RFC3339)
	}
}

// Param sets an arbitrary query parameter.
func Param(name, value string) QueryOptionDecoratorFunc {
	return func(opts map[string]string) {
		opts[name] = value
	}
}
