package logger

import (
	"os"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"coinwatch/conf"
)

// 基于zap的日志封装，支持控制台和滚动文件双输出

var lg *zap.Logger

// Pair 构造一个结构化日志字段
func Pair(key string, value interface{}) zap.Field {
	return zap.Any(key, value)
}

// InitLogger 根据配置初始化全局logger
func InitLogger(cfg *conf.LogConfig, appName string) {
	encCfg := zap.NewProductionEncoderConfig()
	if cfg.TimeFormat != "" {
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(cfg.TimeFormat)
	} else {
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	cores := make([]zapcore.Core, 0, 2)
	if cfg.FileName != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FileName,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
			LocalTime:  cfg.LocalTime,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileWriter, level))
	}
	if cfg.Console || cfg.FileName == "" {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stdout), level))
	}

	lg = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)).
		With(zap.String("app", appName))
	zap.ReplaceGlobals(lg)
}

func logger() *zap.Logger {
	if lg == nil {
		// 未初始化时退回zap默认配置，保证测试环境可用
		lg, _ = zap.NewProduction(zap.AddCallerSkip(1))
	}
	return lg
}

func Debug(msg string, fields ...zap.Field) { logger().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { logger().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { logger().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { logger().Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { logger().Fatal(msg, fields...) }

func Debugf(format string, args ...interface{}) { logger().Sugar().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { logger().Sugar().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { logger().Sugar().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { logger().Sugar().Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { logger().Sugar().Fatalf(format, args...) }

// Sync 刷新缓冲区，进程退出前调用
func Sync() {
	if lg != nil {
		_ = lg.Sync()
	}
}
