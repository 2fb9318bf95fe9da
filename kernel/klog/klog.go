// Package klog is the core's single logging seam: every package logs
// through it rather than fmt.Println, matching the discipline the pack
// shows for diagnostic output (e.g. iansmith-feelings' Console.Logf,
// QubicOS-Spark's sparkos/client/logger). It wraps the standard library's
// log/slog rather than pulling in a third-party logger — no example repo
// in the retrieval pack imports one either (see DESIGN.md), so slog is
// the idiom the pack itself would reach for.
package klog

import (
	"fmt"
	"log/slog"
	"os"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// SetLevel adjusts the minimum level logged; tests usually leave it at
// the default (Info) to keep output quiet.
func SetLevel(level slog.Level) {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func Debugf(format string, args ...any) { logger.Debug(fmt.Sprintf(format, args...)) }
func Infof(format string, args ...any)  { logger.Info(fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any)  { logger.Warn(fmt.Sprintf(format, args...)) }
