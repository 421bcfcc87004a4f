package importer

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

type testSheet struct {
	name string
	rows [][]interface{}
}

// buildWorkbook 用 excelize 在内存中生成 xlsx 并按导入流程读回
func buildWorkbook(t *testing.T, sheets ...testSheet) *Workbook {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for _, s := range sheets {
		if _, err := f.NewSheet(s.name); err != nil {
			t.Fatalf("创建工作表 %s 失败: %v", s.name, err)
		}
		for r, row := range s.rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			values := row
			if err := f.SetSheetRow(s.name, cell, &values); err != nil {
				t.Fatalf("写入 %s 第 %d 行失败: %v", s.name, r+1, err)
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatalf("删除默认工作表失败: %v", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("生成工作簿失败: %v", err)
	}

	wb, err := OpenWorkbook(buf)
	if err != nil {
		t.Fatalf("读取工作簿失败: %v", err)
	}
	return wb
}

func mustSheet(t *testing.T, wb *Workbook, name string) *Sheet {
	t.Helper()
	s, ok := wb.Sheet(name)
	if !ok {
		t.Fatalf("找不到工作表 %s", name)
	}
	return s
}

// legacyWorkbook 一份覆盖全部工作表的旧版团务表
func legacyWorkbook(t *testing.T) *Workbook {
	return buildWorkbook(t,
		testSheet{name: "裝等表", rows: [][]interface{}{
			{"角色一覽"},
			{"名稱", "職業", "裝等", "夢幻", "天界", "瘟疫", "象牙塔"},
			{"阿福", "聖騎士", 1620.5, true, "", "v", 0},
			{"小白", "督軍", 1600, "", "v", "", ""},
			{"未知", "", 1580},
			{"無裝等", "畫家", "高"},
		}},
		testSheet{name: "暱稱", rows: [][]interface{}{
			{"暱稱", "一", "二", "三", "四", "五", "六", "日"},
			{"阿福", "", "", "", "20:00 - 23:00", "21:00-隔天02:00", "", "20-24"},
			{"路人", "19:00-22:00"},
			{"阿福", "", "", "", "20:00 - 23:30"},
		}},
		testSheet{name: "天界", rows: [][]interface{}{
			{"日期", "暱稱", "暱稱"},
			{45000, "阿福", "小白", 1620},
			{45001, "路人甲"},
		}},
		testSheet{name: "收益金", rows: [][]interface{}{
			{"本週收益"},
			{"副本", "P1", "P2", "P3", "P4", "總共", "活金", "綁金", "總收益"},
			{"天界", -500, -500, 0, 0, -1000, 1000, 500, 1500},
			{"夢幻", 0, 0, 0, 0, 0, 300, 200, ""},
			{"瘟疫", "", "", "", "", "", "未結算", 0, ""},
		}},
		testSheet{name: "副本獎勵表", rows: [][]interface{}{
			{"副本", "道具", "金值"},
			{"天界", "突破石", 120},
			{"天界", "卡片", "?"},
			{"", "無名道具", 5},
		}},
		testSheet{name: "島之心", rows: [][]interface{}{
			{"月光島", true},
			{"黃昏島", ""},
		}},
		testSheet{name: "寶石價格", rows: [][]interface{}{
			{"等級", "價格", "類型"},
			{7, 3500, "滅火"},
			{8, 9800},
			{"九", 30000, "紅"},
		}},
		testSheet{name: "副本攻略", rows: [][]interface{}{
			{"第一關 注意紅圈", "G1", 3},
			{"", ""},
			{"第二關 分組站位", "先打左邊的柱子"},
		}},
		testSheet{name: "艾波娜委託", rows: [][]interface{}{
			{"委託", "聲望", "獎勵", "狀態"},
			{"每日巡邏", 120, "金幣", "已完成"},
			{"護送商隊", "", "", "進行中"},
		}},
	)
}
