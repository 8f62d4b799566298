// Package debug gates tracing output behind OPAL_DEBUG_* environment
// variables. Everything is off by default.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

type Flag int

const (
	Parse Flag = iota
	Resolve
	Decode
)

type debug struct {
	Parse   bool
	Resolve bool
	Decode  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("OPAL_DEBUG_PARSE")
	d.Resolve = boolEnv("OPAL_DEBUG_RESOLVE")
	d.Decode = boolEnv("OPAL_DEBUG_DECODE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func On(f Flag) bool {
	switch f {
	case Parse:
		return d.Parse
	case Resolve:
		return d.Resolve
	case Decode:
		return d.Decode
	}
	return false
}

func Logf(f Flag, format string, args ...any) {
	if !On(f) {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
