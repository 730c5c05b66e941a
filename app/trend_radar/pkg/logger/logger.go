package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log 全局日志实例。诊断信息一律写 stderr，避免污染结果输出。
var Log *logrus.Logger

// lineFormatter 单行日志格式: [TIME] [LEVEL] [FILE:LINE] MSG
type lineFormatter struct{}

func (f *lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var fileLine string
	if entry.HasCaller() {
		fileLine = fmt.Sprintf("%s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}

	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}

	msg := fmt.Sprintf("[%s] [%s] [%s] %s\n",
		entry.Time.Format("2006-01-02 15:04:05"), level, fileLine, entry.Message)
	return []byte(msg), nil
}

// Init 初始化全局日志：级别解析失败时回退到 info，
// 配置了文件路径时同时写入文件。
func Init(levelStr string, filePath string) error {
	Log = logrus.New()
	Log.SetReportCaller(true)
	Log.SetFormatter(&lineFormatter{})

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	writers := []io.Writer{os.Stderr}
	if filePath != "" {
		logDir := filepath.Dir(filePath)
		if logDir != "." {
			if err := os.MkdirAll(logDir, 0o755); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
		}

		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return err
		}
		writers = append(writers, file)
	}
	Log.SetOutput(io.MultiWriter(writers...))

	return nil
}

func init() {
	// 允许在未显式 Init 的场景（如测试）直接使用
	_ = Init("info", "")
}
