package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Field helpers for names that recur across the loader
func Component(name string) Field {
	return String("component", name)
}

func File(path string) Field {
	return String("file", path)
}

func URL(u string) Field {
	return String("url", u)
}

func Cutoff(score float64) Field {
	return Float64("cutoff", score)
}

func Network(name string) Field {
	return String("network", name)
}

func Rows(n int) Field {
	return Int("rows", n)
}

func Duplicates(n int) Field {
	return Int("duplicates", n)
}

func Count(n int) Field {
	return Int("count", n)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}
