package zvm

import (
	"go.uber.org/zap"

	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
)

// NopLog discards messages.
type NopLog struct{}

func (NopLog) SendWarning(*zinstr.Instruction, string) {}
func (NopLog) SendError(*zinstr.Instruction, string)   {}

type zapLog struct {
	l *zap.Logger
}

// NewZapLog returns a MessageLog which writes to l.
func NewZapLog(l *zap.Logger) MessageLog {
	return zapLog{l: l}
}

func (zl zapLog) SendWarning(ins *zinstr.Instruction, text string) {
	zl.l.Warn(text, insFields(ins)...)
}

func (zl zapLog) SendError(ins *zinstr.Instruction, text string) {
	zl.l.Error(text, insFields(ins)...)
}

func insFields(ins *zinstr.Instruction) []zap.Field {
	if ins == nil {
		return nil
	}
	return []zap.Field{
		zap.String("op", ins.Opcode.Name),
		zap.String("addr", hexAddr(ins.Address)),
	}
}
