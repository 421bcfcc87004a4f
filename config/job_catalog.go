package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed jobs.toml
var defaultJobCatalog []byte

// JobCatalog 职业映射表
type JobCatalog struct {
	DefaultColor string            `toml:"default_color"`
	Categories   []JobCategoryItem `toml:"categories"`
	Jobs         []JobItem         `toml:"jobs"`
}

// JobCategoryItem 职业大类配置
type JobCategoryItem struct {
	Name  string `toml:"name"`
	Color string `toml:"color"`
}

// JobItem 单个职业配置
type JobItem struct {
	Name     string `toml:"name"`
	Category string `toml:"category"`
	Role     string `toml:"role"`
}

// LoadJobCatalog 读取职业表；path 为空时使用内置表
func LoadJobCatalog(path string) (*JobCatalog, error) {
	data := defaultJobCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取职业表失败: %w", err)
		}
		data = b
	}
	return ParseJobCatalog(data)
}

// ParseJobCatalog 解析 TOML 职业表并校验引用关系
func ParseJobCatalog(data []byte) (*JobCatalog, error) {
	var cat JobCatalog
	if err := toml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("解析职业表失败: %w", err)
	}
	if cat.DefaultColor == "" {
		cat.DefaultColor = "#808080"
	}

	for _, j := range cat.Jobs {
		if j.Role != "DPS" && j.Role != "SUPPORT" {
			return nil, fmt.Errorf("职业 %s 的定位 %q 无效", j.Name, j.Role)
		}
		if strings.TrimSpace(j.Category) == "" {
			return nil, fmt.Errorf("职业 %s 缺少大类", j.Name)
		}
	}
	return &cat, nil
}

// Lookup 按职业名查找映射
func (c *JobCatalog) Lookup(name string) (JobItem, bool) {
	name = strings.TrimSpace(name)
	for _, j := range c.Jobs {
		if j.Name == name {
			return j, true
		}
	}
	return JobItem{}, false
}

// CategoryColor 大类颜色，未登记的大类使用默认色
func (c *JobCatalog) CategoryColor(category string) string {
	for _, cat := range c.Categories {
		if cat.Name == category {
			return cat.Color
		}
	}
	return c.DefaultColor
}

// CategoryIcon 大类图标路径
func CategoryIcon(category string) string {
	return "/icons/categories/" + category + ".png"
}

// JobIcon 职业图标路径
func JobIcon(job string) string {
	return "/icons/jobs/" + job + ".png"
}
