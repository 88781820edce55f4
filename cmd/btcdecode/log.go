package main

import (
	"io"

	"github.com/2tbmz9y2xt-lang/btcdecode/btcparse"
	"github.com/2tbmz9y2xt-lang/btcdecode/txstore"
	"github.com/btcsuite/btclog/v2"
	"github.com/davecgh/go-spew/spew"
)

// Subsystem defines the logging code for the command itself.
const Subsystem = "BDEC"

// log is disabled until setupLoggers runs in the app's Before hook.
var log = btclog.Disabled

// setupLoggers builds a console logger writing to w at the given level and
// hands per-subsystem copies to every package that logs.
func setupLoggers(w io.Writer, level string) {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		lvl = btclog.LevelInfo
	}

	root := btclog.NewSLogger(btclog.NewDefaultHandler(w))
	root.SetLevel(lvl)

	newSub := func(tag string) btclog.Logger {
		l := root.WithPrefix(tag)
		l.SetLevel(lvl)
		return l
	}

	log = newSub(Subsystem)
	btcparse.UseLogger(newSub(btcparse.Subsystem))
	txstore.UseLogger(newSub(txstore.Subsystem))
}

// logClosure is used to provide a closure over expensive logging operations so
// don't have to be performed when the logging level doesn't warrant it.
type logClosure func() string

// String invokes the underlying function and returns the result.
func (c logClosure) String() string {
	return c()
}

// spewClosure dumps v with spew only when the message is actually emitted.
func spewClosure(v any) logClosure {
	return func() string {
		return spew.Sdump(v)
	}
}
