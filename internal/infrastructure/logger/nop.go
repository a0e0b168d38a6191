package logger

import "go.uber.org/zap"

// NewNop returns an adapter that discards everything. Intended for tests.
func NewNop() *LoggerAdapter {
	base := zap.NewNop()
	return &LoggerAdapter{
		sugar: base.Sugar(),
		base:  base,
	}
}
