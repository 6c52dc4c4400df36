package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"vitaltrack/backend/internal/model"
	"vitaltrack/backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	if u, ok := m.users[id]; ok {
		u.LastLoginAt = &at
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock AlertRepository ──

type mockAlertRepo struct {
	alerts map[string]*model.Alert // key: alert_id
	seq    int
}

func newMockAlertRepo() *mockAlertRepo {
	return &mockAlertRepo{alerts: make(map[string]*model.Alert)}
}

func (m *mockAlertRepo) Create(_ context.Context, alert *model.Alert) error {
	if alert.AlertID == "" {
		m.seq++
		alert.AlertID = fmt.Sprintf("alert-%d", m.seq)
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now()
	}
	m.alerts[alert.AlertID] = alert
	return nil
}

func (m *mockAlertRepo) GetByIDAndUser(_ context.Context, id, userID string) (*model.Alert, error) {
	if a, ok := m.alerts[id]; ok && a.UserID == userID {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAlertRepo) Update(_ context.Context, alert *model.Alert) error {
	m.alerts[alert.AlertID] = alert
	return nil
}

func (m *mockAlertRepo) Delete(_ context.Context, id, userID string) error {
	if a, ok := m.alerts[id]; ok && a.UserID == userID {
		delete(m.alerts, id)
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockAlertRepo) List(_ context.Context, userID string, filter repository.AlertFilter, offset, limit int) ([]model.Alert, int64, error) {
	var all []model.Alert
	for _, a := range m.alerts {
		if a.UserID != userID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && a.Priority != filter.Priority {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		all = append(all, *a)
	}
	// 与 SQL 排序保持一致：严重度降序，同级按创建时间降序
	sort.Slice(all, func(i, j int) bool {
		ri, rj := model.PriorityRank(all[i].Priority), model.PriorityRank(all[j].Priority)
		if ri != rj {
			return ri > rj
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockAlertRepo) Summary(_ context.Context, userID string) (*repository.AlertSummary, error) {
	summary := &repository.AlertSummary{
		ByStatus:   make(map[string]int64),
		ByPriority: make(map[string]int64),
	}
	for _, a := range m.alerts {
		if a.UserID != userID {
			continue
		}
		summary.Total++
		summary.ByStatus[a.Status]++
		summary.ByPriority[a.Priority]++
	}
	return summary, nil
}

// ── Mock DiagnosticTestRepository ──

type mockDiagnosticTestRepo struct {
	tests map[string]*model.DiagnosticTest // key: test_id
	seq   int
}

func newMockDiagnosticTestRepo() *mockDiagnosticTestRepo {
	return &mockDiagnosticTestRepo{tests: make(map[string]*model.DiagnosticTest)}
}

func (m *mockDiagnosticTestRepo) Create(_ context.Context, test *model.DiagnosticTest) error {
	if test.TestID == "" {
		m.seq++
		test.TestID = fmt.Sprintf("test-%d", m.seq)
	}
	if test.CreatedAt.IsZero() {
		test.CreatedAt = time.Now()
	}
	m.tests[test.TestID] = test
	return nil
}

func (m *mockDiagnosticTestRepo) GetByIDAndUser(_ context.Context, id, userID string) (*model.DiagnosticTest, error) {
	if t, ok := m.tests[id]; ok && t.UserID == userID {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDiagnosticTestRepo) Update(_ context.Context, test *model.DiagnosticTest) error {
	m.tests[test.TestID] = test
	return nil
}

func (m *mockDiagnosticTestRepo) Delete(_ context.Context, id, userID string) error {
	if t, ok := m.tests[id]; ok && t.UserID == userID {
		delete(m.tests, id)
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockDiagnosticTestRepo) List(_ context.Context, userID string, filter repository.DiagnosticTestFilter, offset, limit int) ([]model.DiagnosticTest, int64, error) {
	var all []model.DiagnosticTest
	for _, t := range m.tests {
		if t.UserID != userID {
			continue
		}
		if filter.TestType != "" && t.TestType != filter.TestType {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.IsAbnormal != nil && t.IsAbnormal != *filter.IsAbnormal {
			continue
		}
		// 日期闭区间比较与 SQL 一致：按日期字符串比较
		day := t.Date.Format("2006-01-02")
		if filter.DateFrom != nil && day < filter.DateFrom.Format("2006-01-02") {
			continue
		}
		if filter.DateTo != nil && day > filter.DateTo.Format("2006-01-02") {
			continue
		}
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Date.After(all[j].Date)
	})
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockDiagnosticTestRepo) ListAll(_ context.Context, userID string) ([]model.DiagnosticTest, error) {
	var all []model.DiagnosticTest
	for _, t := range m.tests {
		if t.UserID == userID {
			all = append(all, *t)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Date.After(all[j].Date)
	})
	return all, nil
}

func (m *mockDiagnosticTestRepo) Summary(_ context.Context, userID string) (*repository.DiagnosticTestSummary, error) {
	summary := &repository.DiagnosticTestSummary{
		ByStatus:   make(map[string]int64),
		ByTestType: make(map[string]int64),
	}
	recentSince := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	for _, t := range m.tests {
		if t.UserID != userID {
			continue
		}
		summary.Total++
		summary.ByStatus[t.Status]++
		summary.ByTestType[t.TestType]++
		if t.IsAbnormal {
			summary.AbnormalCount++
		}
		if t.Date.Format("2006-01-02") >= recentSince {
			summary.RecentCount++
		}
	}
	return summary, nil
}

// ── 测试辅助 ──

func newTestRepository() (*repository.Repository, *mockUserRepo, *mockAlertRepo, *mockDiagnosticTestRepo) {
	userRepo := newMockUserRepo()
	alertRepo := newMockAlertRepo()
	testRepo := newMockDiagnosticTestRepo()
	repo := &repository.Repository{
		User:           userRepo,
		Alert:          alertRepo,
		DiagnosticTest: testRepo,
	}
	return repo, userRepo, alertRepo, testRepo
}
