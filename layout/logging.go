package layout

import "go.uber.org/zap"

// Logger 是排版引擎使用的日志对象，默认不输出任何内容。
var Logger = zap.NewNop().Sugar()

// SetLogger 替换排版日志；传入 nil 时恢复为静默。
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	Logger = l
}
