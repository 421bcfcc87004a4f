package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
	"github.com/tdjunwei/lostark-raid-schedule/internal/realtime"
	"github.com/tdjunwei/lostark-raid-schedule/internal/repository"
	pkgerrors "github.com/tdjunwei/lostark-raid-schedule/pkg/errors"
)

// ── Mock AvailabilitySlotRepository ──

type mockAvailabilityRepo struct {
	slots   map[string]*model.AvailabilitySlot
	seq     int
	locks   []string
	failErr error
}

func newMockAvailabilityRepo() *mockAvailabilityRepo {
	return &mockAvailabilityRepo{slots: make(map[string]*model.AvailabilitySlot)}
}

// seed 直接写入一条时段，返回其 ID
func (m *mockAvailabilityRepo) seed(userID string, day int, start, end string) string {
	slot := &model.AvailabilitySlot{UserID: userID, DayOfWeek: day, StartTime: start, EndTime: end, Available: true}
	_ = m.Create(context.Background(), slot)
	return slot.ID
}

func (m *mockAvailabilityRepo) Create(_ context.Context, slot *model.AvailabilitySlot) error {
	if m.failErr != nil {
		return m.failErr
	}
	for _, s := range m.slots {
		if s.UserID == slot.UserID && s.DayOfWeek == slot.DayOfWeek && s.StartTime == slot.StartTime {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	m.seq++
	slot.ID = fmt.Sprintf("slot-%d", m.seq)
	slot.CreatedAt = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	slot.UpdatedAt = slot.CreatedAt
	cp := *slot
	m.slots[slot.ID] = &cp
	return nil
}

func (m *mockAvailabilityRepo) CreateBatch(ctx context.Context, slots []model.AvailabilitySlot) error {
	for i := range slots {
		if err := m.Create(ctx, &slots[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockAvailabilityRepo) GetByID(_ context.Context, id string) (*model.AvailabilitySlot, error) {
	if s, ok := m.slots[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAvailabilityRepo) ListByUser(_ context.Context, userID string) ([]model.AvailabilitySlot, error) {
	var out []model.AvailabilitySlot
	for _, s := range m.slots {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sortSlots(out)
	return out, nil
}

func (m *mockAvailabilityRepo) ListByUserAndDay(_ context.Context, userID string, day int) ([]model.AvailabilitySlot, error) {
	var out []model.AvailabilitySlot
	for _, s := range m.slots {
		if s.UserID == userID && s.DayOfWeek == day {
			out = append(out, *s)
		}
	}
	sortSlots(out)
	return out, nil
}

func (m *mockAvailabilityRepo) ListAll(_ context.Context) ([]model.AvailabilitySlot, error) {
	var out []model.AvailabilitySlot
	for _, s := range m.slots {
		out = append(out, *s)
	}
	sortSlots(out)
	return out, nil
}

func (m *mockAvailabilityRepo) Update(_ context.Context, slot *model.AvailabilitySlot) error {
	if _, ok := m.slots[slot.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *slot
	m.slots[slot.ID] = &cp
	return nil
}

func (m *mockAvailabilityRepo) Delete(_ context.Context, id string) error {
	delete(m.slots, id)
	return nil
}

func (m *mockAvailabilityRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for id, s := range m.slots {
		if s.UserID == userID {
			delete(m.slots, id)
			n++
		}
	}
	return n, nil
}

func (m *mockAvailabilityRepo) DeleteByUserAndDays(_ context.Context, userID string, days []int) error {
	for id, s := range m.slots {
		for _, d := range days {
			if s.UserID == userID && s.DayOfWeek == d {
				delete(m.slots, id)
			}
		}
	}
	return nil
}

func (m *mockAvailabilityRepo) Upsert(ctx context.Context, slot *model.AvailabilitySlot) error {
	for _, s := range m.slots {
		if s.UserID == slot.UserID && s.DayOfWeek == slot.DayOfWeek && s.StartTime == slot.StartTime {
			slot.ID = s.ID
			cp := *slot
			m.slots[s.ID] = &cp
			return nil
		}
	}
	return m.Create(ctx, slot)
}

func (m *mockAvailabilityRepo) LockOwnerDay(_ context.Context, userID string, day int) error {
	m.locks = append(m.locks, fmt.Sprintf("%s/%d", userID, day))
	return nil
}

func sortSlots(slots []model.AvailabilitySlot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].DayOfWeek != slots[j].DayOfWeek {
			return slots[i].DayOfWeek < slots[j].DayOfWeek
		}
		return slots[i].StartTime < slots[j].StartTime
	})
}

// ── Mock UserProfileRepository ──

type mockUserProfileRepo struct {
	profiles map[string]*model.UserProfile
}

func newMockUserProfileRepo(names ...string) *mockUserProfileRepo {
	m := &mockUserProfileRepo{profiles: make(map[string]*model.UserProfile)}
	for _, n := range names {
		m.profiles["user-"+n] = &model.UserProfile{ID: "user-" + n, Name: n, Role: model.RolePlayer}
	}
	return m
}

func (m *mockUserProfileRepo) GetByID(_ context.Context, id string) (*model.UserProfile, error) {
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserProfileRepo) GetByName(_ context.Context, name string) (*model.UserProfile, error) {
	for _, p := range m.profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserProfileRepo) ListByIDs(_ context.Context, ids []string) ([]model.UserProfile, error) {
	var out []model.UserProfile
	for _, id := range ids {
		if p, ok := m.profiles[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

// ── Mock JobRepository ──

type mockJobRepo struct {
	jobs        map[string]*model.Job
	categories  map[string]*model.JobCategory
	ensureCalls int
}

func newMockJobRepo() *mockJobRepo {
	return &mockJobRepo{
		jobs:       make(map[string]*model.Job),
		categories: make(map[string]*model.JobCategory),
	}
}

func (m *mockJobRepo) GetJobByName(_ context.Context, name string) (*model.Job, error) {
	if j, ok := m.jobs[name]; ok {
		cp := *j
		cp.Category = m.categoryByID(j.CategoryID)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockJobRepo) GetCategoryByName(_ context.Context, name string) (*model.JobCategory, error) {
	if c, ok := m.categories[name]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockJobRepo) EnsureCategory(_ context.Context, category *model.JobCategory) (*model.JobCategory, error) {
	if c, ok := m.categories[category.Name]; ok {
		return c, nil
	}
	cp := *category
	cp.ID = "cat-" + category.Name
	m.categories[category.Name] = &cp
	return &cp, nil
}

func (m *mockJobRepo) EnsureJob(_ context.Context, job *model.Job) (*model.Job, error) {
	m.ensureCalls++
	if j, ok := m.jobs[job.Name]; ok {
		cp := *j
		return &cp, nil
	}
	cp := *job
	cp.ID = "job-" + job.Name
	m.jobs[job.Name] = &cp
	out := cp
	return &out, nil
}

func (m *mockJobRepo) ListJobs(_ context.Context) ([]model.Job, error) {
	var out []model.Job
	for _, j := range m.jobs {
		cp := *j
		cp.Category = m.categoryByID(j.CategoryID)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Name < out[k].Name })
	return out, nil
}

func (m *mockJobRepo) ListCategories(_ context.Context) ([]model.JobCategory, error) {
	var out []model.JobCategory
	for _, c := range m.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Name < out[k].Name })
	return out, nil
}

func (m *mockJobRepo) categoryByID(id string) *model.JobCategory {
	for _, c := range m.categories {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ── Mock CharacterRepository ──

type mockCharacterRepo struct {
	characters []model.Character
}

func (m *mockCharacterRepo) Upsert(_ context.Context, c *model.Character) error {
	for i := range m.characters {
		if m.characters[i].UserID == c.UserID && m.characters[i].Nickname == c.Nickname {
			c.ID = m.characters[i].ID
			m.characters[i] = *c
			return nil
		}
	}
	c.ID = fmt.Sprintf("char-%d", len(m.characters)+1)
	m.characters = append(m.characters, *c)
	return nil
}

func (m *mockCharacterRepo) GetByUserAndNickname(_ context.Context, userID, nickname string) (*model.Character, error) {
	for i := range m.characters {
		if m.characters[i].UserID == userID && m.characters[i].Nickname == nickname {
			cp := m.characters[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCharacterRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]model.Character, int64, error) {
	var mine []model.Character
	for _, c := range m.characters {
		if c.UserID == userID {
			mine = append(mine, c)
		}
	}
	total := int64(len(mine))
	if offset >= len(mine) {
		return []model.Character{}, total, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], total, nil
}

// ── Mock RaidRepository ──

type mockRaidRepo struct {
	raids         map[string]*model.Raid
	statusUpdates int
	lockCalls     []string
}

func newMockRaidRepo() *mockRaidRepo {
	return &mockRaidRepo{raids: make(map[string]*model.Raid)}
}

func (m *mockRaidRepo) seed(id string, status model.RaidStatus) *model.Raid {
	r := &model.Raid{
		ID:              id,
		Name:            "天界 " + id,
		Type:            model.RaidTypeCelestial,
		Mode:            model.RaidModeNormal,
		ScheduledTime:   time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC),
		Status:          status,
		MaxPlayers:      8,
		RequiredDPS:     6,
		RequiredSupport: 2,
	}
	r.Version = 1
	m.raids[id] = r
	return r
}

func (m *mockRaidRepo) GetByID(_ context.Context, id string) (*model.Raid, error) {
	if r, ok := m.raids[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRaidRepo) GetForUpdate(ctx context.Context, id string) (*model.Raid, error) {
	m.lockCalls = append(m.lockCalls, id)
	return m.GetByID(ctx, id)
}

func (m *mockRaidRepo) List(_ context.Context, filter repository.RaidFilter) ([]model.Raid, int64, error) {
	var out []model.Raid
	for _, r := range m.raids {
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		if filter.Type != "" && string(r.Type) != filter.Type {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if filter.Offset >= len(out) {
		return []model.Raid{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[filter.Offset:end], total, nil
}

func (m *mockRaidRepo) UpdateStatus(_ context.Context, raid *model.Raid, status model.RaidStatus) error {
	stored, ok := m.raids[raid.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != raid.Version {
		return pkgerrors.ErrOptimisticLock
	}
	m.statusUpdates++
	stored.Status = status
	stored.Version++
	raid.Status = status
	raid.Version = stored.Version
	return nil
}

func (m *mockRaidRepo) Upsert(_ context.Context, raid *model.Raid) error {
	if raid.ID == "" {
		raid.ID = fmt.Sprintf("raid-%d", len(m.raids)+1)
	}
	cp := *raid
	m.raids[raid.ID] = &cp
	return nil
}

// ── Mock RaidGateRepository ──

type mockRaidGateRepo struct {
	gates map[string]*model.RaidGate
	seq   int
}

func newMockRaidGateRepo() *mockRaidGateRepo {
	return &mockRaidGateRepo{gates: make(map[string]*model.RaidGate)}
}

func (m *mockRaidGateRepo) Create(_ context.Context, gate *model.RaidGate) error {
	m.seq++
	gate.ID = fmt.Sprintf("gate-%d", m.seq)
	gate.Version = 1
	cp := *gate
	m.gates[gate.ID] = &cp
	return nil
}

func (m *mockRaidGateRepo) GetByID(_ context.Context, id string) (*model.RaidGate, error) {
	if g, ok := m.gates[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRaidGateRepo) GetByRaidAndGate(_ context.Context, raidID, gate string) (*model.RaidGate, error) {
	for _, g := range m.gates {
		if g.RaidID == raidID && g.Gate == gate {
			cp := *g
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRaidGateRepo) ListByRaid(_ context.Context, raidID string) ([]model.RaidGate, error) {
	var out []model.RaidGate
	for _, g := range m.gates {
		if g.RaidID == raidID {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Gate < out[j].Gate })
	return out, nil
}

func (m *mockRaidGateRepo) Update(_ context.Context, gate *model.RaidGate) error {
	stored, ok := m.gates[gate.ID]
	if !ok || stored.Version != gate.Version {
		return pkgerrors.ErrOptimisticLock
	}
	gate.Version++
	cp := *gate
	m.gates[gate.ID] = &cp
	return nil
}

func (m *mockRaidGateRepo) Delete(_ context.Context, id string) error {
	delete(m.gates, id)
	return nil
}

// ── Mock RaidParticipantRepository ──

type mockRaidParticipantRepo struct {
	participants []model.RaidParticipant
}

func (m *mockRaidParticipantRepo) Upsert(_ context.Context, p *model.RaidParticipant) error {
	for i := range m.participants {
		if m.participants[i].RaidID == p.RaidID && m.participants[i].CharacterID == p.CharacterID {
			p.ID = m.participants[i].ID
			m.participants[i] = *p
			return nil
		}
	}
	p.ID = fmt.Sprintf("part-%d", len(m.participants)+1)
	m.participants = append(m.participants, *p)
	return nil
}

func (m *mockRaidParticipantRepo) ListByRaid(_ context.Context, raidID string) ([]model.RaidParticipant, error) {
	var out []model.RaidParticipant
	for _, p := range m.participants {
		if p.RaidID == raidID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ── Mock Publisher ──

type mockPublisher struct {
	mu     sync.Mutex
	events []realtime.ChangeEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, ev realtime.ChangeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, ev)
	return nil
}

// count 统计某频道某动作的事件数
func (m *mockPublisher) count(channel string, action realtime.Action) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, ev := range m.events {
		if ev.Channel == channel && ev.Action == action {
			n++
		}
	}
	return n
}

// ── Mock Locker ──

type mockLocker struct {
	held     bool
	unlocked int
	tokens   []string
}

func (m *mockLocker) TryLock(_ context.Context, _ string, _ time.Duration) (string, error) {
	if m.held {
		return "", nil
	}
	m.held = true
	return "token-1", nil
}

func (m *mockLocker) Unlock(_ context.Context, _, token string) error {
	m.held = false
	m.unlocked++
	m.tokens = append(m.tokens, token)
	return nil
}
