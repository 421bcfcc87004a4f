package config

import (
	"testing"
	"time"
)

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LOSTARK_AUTH_JWT_SECRET", "env-secret-for-testing-0001")
	t.Setenv("LOSTARK_SERVER_PORT", "9090")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("期望端口 9090，实际=%d", cfg.Server.Port)
	}
	if cfg.Import.LockTTL != 2*time.Minute {
		t.Errorf("期望默认导入锁 2m，实际=%v", cfg.Import.LockTTL)
	}
	if cfg.Realtime.ChannelPrefix != "lostark:" {
		t.Errorf("期望默认频道前缀 lostark:，实际=%s", cfg.Realtime.ChannelPrefix)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Auth:     AuthConfig{JWTSecret: "0123456789abcdef"},
			Import:   ImportConfig{MaxUploadSize: 1 << 20},
			Schedule: ScheduleConfig{Timezone: "Asia/Taipei"},
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("合法配置不应报错: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"密钥为空", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"密钥过短", func(c *Config) { c.Auth.JWTSecret = "short" }},
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }},
		{"上传上限为0", func(c *Config) { c.Import.MaxUploadSize = 0 }},
		{"时区无效", func(c *Config) { c.Schedule.Timezone = "Mars/Base" }},
	}
	for _, tt := range tests {
		cfg := base()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: 期望校验失败", tt.name)
		}
	}
}
