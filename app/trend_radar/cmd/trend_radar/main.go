package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/config"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/engine"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/logger"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/storage"
)

func main() {
	// 1. 加载配置
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	// 2. 初始化日志
	if err = logger.Init(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Info("启动趋势雷达...")

	ctx := context.Background()

	// 3. 初始化数据库连接
	// 如果配置了数据库信息，则尝试连接；失败时仅生成 JSON 文件
	var store *storage.Storage
	if cfg.DB.Host != "" {
		s, err := storage.NewStorage(cfg.DB)
		if err != nil {
			logger.Log.Errorf("无法连接数据库: %v. 将仅生成 JSON 文件。", err)
		} else {
			store = s
			defer store.Close()
			logger.Log.Info("已成功连接到数据库")
		}
	} else {
		logger.Log.Info("未配置数据库信息，跳过数据库连接")
	}

	// 4. 初始化引擎并执行检索
	eng, err := engine.NewEngine(cfg, store)
	if err != nil {
		logger.Log.Fatalf("引擎初始化失败: %v", err)
	}

	report, err := eng.Run(ctx)
	if err != nil {
		logger.Log.Fatalf("检索失败: %v", err)
	}

	// 5. 写出报告
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Log.Fatalf("序列化报告失败: %v", err)
	}
	if err := os.WriteFile(cfg.Output, data, 0o644); err != nil {
		logger.Log.Fatalf("写出报告失败: %v", err)
	}

	logger.Log.Infof("✅ 趋势报告生成完毕: %s", cfg.Output)
}
