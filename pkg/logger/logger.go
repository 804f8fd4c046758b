package logger

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOption 日志初始化参数
type LogOption struct {
	Format   string // "console" 或 "json"
	LogDir   string // 为空时只输出到 stdout
	Level    string // debug / info / warn / error
	Compress bool   // 是否压缩轮转后的旧日志
}

const (
	logFileName = "app.log"
	maxSizeMB   = 100
	maxBackups  = 10
	maxAgeDays  = 7
)

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	sugared = base.Sugar()
)

// Init 根据配置初始化全局 logger，可重复调用（后一次覆盖前一次）
func Init(opt LogOption) error {
	l, err := New(opt)
	if err != nil {
		return err
	}
	mu.Lock()
	base = l
	sugared = l.Sugar()
	mu.Unlock()
	return nil
}

// New 构建一个独立的 zap.Logger，不修改全局状态
func New(opt LogOption) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(opt.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	encoder := zapcore.NewConsoleEncoder(encCfg)
	if opt.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	// stdout 留给命令输出
	if opt.LogDir == "" {
		core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
		return zap.New(core, zap.AddCaller()), nil
	}

	if err := os.MkdirAll(opt.LogDir, 0o755); err != nil {
		return nil, err
	}
	rotate := &lumberjack.Logger{
		Filename:   filepath.Join(opt.LogDir, logFileName),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   opt.Compress,
	}

	// 文件记录全部级别，warn 以上同时输出到 stderr
	fileCore := zapcore.NewCore(encoder, zapcore.AddSync(rotate), level)
	errCore := zapcore.NewCore(encoder.Clone(), zapcore.Lock(os.Stderr), zapcore.WarnLevel)
	return zap.New(zapcore.NewTee(fileCore, errCore), zap.AddCaller()), nil
}

// L 返回全局 *zap.Logger，用于注入到各组件
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func s() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugared.WithOptions(zap.AddCallerSkip(1))
}

func Debugf(template string, args ...any) { s().Debugf(template, args...) }
func Infof(template string, args ...any)  { s().Infof(template, args...) }
func Warnf(template string, args ...any)  { s().Warnf(template, args...) }
func Errorf(template string, args ...any) { s().Errorf(template, args...) }

// Sync 刷新缓冲，进程退出前调用
func Sync() {
	_ = L().Sync()
}
