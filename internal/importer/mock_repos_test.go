package importer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
	"github.com/tdjunwei/lostark-raid-schedule/internal/repository"
)

// 以冲突键为 map 键的内存仓储，行为与数据库的 ON CONFLICT 一致

// ── Mock AvailabilitySlotRepository ──

type mockAvailabilityRepo struct {
	slots map[string]*model.AvailabilitySlot
	seq   int
}

func newMockAvailabilityRepo() *mockAvailabilityRepo {
	return &mockAvailabilityRepo{slots: make(map[string]*model.AvailabilitySlot)}
}

func (m *mockAvailabilityRepo) Create(_ context.Context, slot *model.AvailabilitySlot) error {
	m.seq++
	slot.ID = fmt.Sprintf("slot-%d", m.seq)
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

func (m *mockAvailabilityRepo) LockOwnerDay(_ context.Context, _ string, _ int) error { return nil }

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

// ── Mock CharacterRepository ──

type mockCharacterRepo struct {
	byKey map[pairKey]*model.Character
}

func newMockCharacterRepo() *mockCharacterRepo {
	return &mockCharacterRepo{byKey: make(map[pairKey]*model.Character)}
}

func (m *mockCharacterRepo) Upsert(_ context.Context, c *model.Character) error {
	k := pairKey{c.UserID, c.Nickname}
	cp := *c
	if old, ok := m.byKey[k]; ok {
		c.ID = old.ID
		cp.ID = old.ID
		// 冲突时不覆盖 is_main 与 notes
		cp.IsMain = old.IsMain
		cp.Notes = old.Notes
	} else {
		c.ID = fmt.Sprintf("char-%d", len(m.byKey)+1)
		cp.ID = c.ID
	}
	m.byKey[k] = &cp
	return nil
}

func (m *mockCharacterRepo) GetByUserAndNickname(_ context.Context, userID, nickname string) (*model.Character, error) {
	if c, ok := m.byKey[pairKey{userID, nickname}]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCharacterRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]model.Character, int64, error) {
	var out []model.Character
	for _, c := range m.byKey {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

// ── Mock RaidRepository ──

type mockRaidRepo struct {
	byKey map[raidKey]*model.Raid
}

func newMockRaidRepo() *mockRaidRepo {
	return &mockRaidRepo{byKey: make(map[raidKey]*model.Raid)}
}

func (m *mockRaidRepo) key(r *model.Raid) raidKey {
	return raidKey{typ: string(r.Type), mode: string(r.Mode), date: r.ScheduledTime.Unix()}
}

func (m *mockRaidRepo) GetByID(_ context.Context, id string) (*model.Raid, error) {
	for _, r := range m.byKey {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRaidRepo) GetForUpdate(ctx context.Context, id string) (*model.Raid, error) {
	return m.GetByID(ctx, id)
}

func (m *mockRaidRepo) List(_ context.Context, _ repository.RaidFilter) ([]model.Raid, int64, error) {
	var out []model.Raid
	for _, r := range m.byKey {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (m *mockRaidRepo) UpdateStatus(_ context.Context, raid *model.Raid, status model.RaidStatus) error {
	raid.Status = status
	raid.Version++
	cp := *raid
	m.byKey[m.key(raid)] = &cp
	return nil
}

func (m *mockRaidRepo) Upsert(_ context.Context, raid *model.Raid) error {
	k := m.key(raid)
	if old, ok := m.byKey[k]; ok {
		raid.ID = old.ID
		raid.Version = old.Version + 1
	} else {
		raid.ID = fmt.Sprintf("raid-%d", len(m.byKey)+1)
		raid.Version = 1
	}
	cp := *raid
	// 已离开 PLANNED 的副本保留原状态
	if old, ok := m.byKey[k]; ok && old.Status != model.RaidStatusPlanned {
		cp.Status = old.Status
	}
	m.byKey[k] = &cp
	return nil
}

// ── Mock RaidParticipantRepository ──

type mockParticipantRepo struct {
	byKey map[pairKey]*model.RaidParticipant
}

func newMockParticipantRepo() *mockParticipantRepo {
	return &mockParticipantRepo{byKey: make(map[pairKey]*model.RaidParticipant)}
}

func (m *mockParticipantRepo) Upsert(_ context.Context, p *model.RaidParticipant) error {
	cp := *p
	m.byKey[pairKey{p.RaidID, p.CharacterID}] = &cp
	return nil
}

func (m *mockParticipantRepo) ListByRaid(_ context.Context, raidID string) ([]model.RaidParticipant, error) {
	var out []model.RaidParticipant
	for _, p := range m.byKey {
		if p.RaidID == raidID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].Position < *out[j].Position })
	return out, nil
}

// ── Mock EconomicsRepository ──

type mockEconomicsRepo struct {
	byKey map[pairKey]*model.RaidEconomics
}

func newMockEconomicsRepo() *mockEconomicsRepo {
	return &mockEconomicsRepo{byKey: make(map[pairKey]*model.RaidEconomics)}
}

func (m *mockEconomicsRepo) Upsert(_ context.Context, e *model.RaidEconomics) error {
	cp := *e
	m.byKey[pairKey{e.UserID, e.RaidName}] = &cp
	return nil
}

func (m *mockEconomicsRepo) ListByUser(_ context.Context, userID string) ([]model.RaidEconomics, error) {
	var out []model.RaidEconomics
	for _, e := range m.byKey {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

// ── Mock CatalogRepository ──

type mockCatalogRepo struct {
	rewards      map[pairKey]*model.RaidReward
	achievements map[string]*model.Achievement
	gems         map[gemKey]*model.GemPrice
	guides       map[string]*model.Guide
	missions     map[pairKey]*model.Mission
}

func newMockCatalogRepo() *mockCatalogRepo {
	return &mockCatalogRepo{
		rewards:      make(map[pairKey]*model.RaidReward),
		achievements: make(map[string]*model.Achievement),
		gems:         make(map[gemKey]*model.GemPrice),
		guides:       make(map[string]*model.Guide),
		missions:     make(map[pairKey]*model.Mission),
	}
}

func (m *mockCatalogRepo) UpsertReward(_ context.Context, r *model.RaidReward) error {
	m.rewards[pairKey{r.RaidName, r.ItemName}] = r
	return nil
}

func (m *mockCatalogRepo) UpsertAchievement(_ context.Context, a *model.Achievement) error {
	m.achievements[a.UserID+"/"+a.Category+"/"+a.Name] = a
	return nil
}

func (m *mockCatalogRepo) UpsertGemPrice(_ context.Context, g *model.GemPrice) error {
	m.gems[gemKey{category: g.Category, level: g.Level, gemType: g.GemType}] = g
	return nil
}

func (m *mockCatalogRepo) UpsertGuide(_ context.Context, g *model.Guide) error {
	m.guides[fmt.Sprintf("%s/%d", g.Category, g.RowNumber)] = g
	return nil
}

func (m *mockCatalogRepo) UpsertMission(_ context.Context, ms *model.Mission) error {
	m.missions[pairKey{ms.UserID, ms.Name}] = ms
	return nil
}

// ── Mock JobResolver ──

type mockJobResolver struct {
	known map[string]bool
}

func (m *mockJobResolver) ResolveOrCreateJob(_ context.Context, name string) (*model.Job, error) {
	if !m.known[name] {
		return nil, fmt.Errorf("未知职业")
	}
	return &model.Job{ID: "job-" + name, Name: name, Role: model.JobRoleDPS}, nil
}

// ── 组装 ──

type mockStore struct {
	availability *mockAvailabilityRepo
	profiles     *mockUserProfileRepo
	characters   *mockCharacterRepo
	raids        *mockRaidRepo
	participants *mockParticipantRepo
	economics    *mockEconomicsRepo
	catalog      *mockCatalogRepo
}

func newMockStore(profileNames ...string) *mockStore {
	return &mockStore{
		availability: newMockAvailabilityRepo(),
		profiles:     newMockUserProfileRepo(profileNames...),
		characters:   newMockCharacterRepo(),
		raids:        newMockRaidRepo(),
		participants: newMockParticipantRepo(),
		economics:    newMockEconomicsRepo(),
		catalog:      newMockCatalogRepo(),
	}
}

func (s *mockStore) repo() *repository.Repository {
	return &repository.Repository{
		Availability:    s.availability,
		UserProfile:     s.profiles,
		Character:       s.characters,
		Raid:            s.raids,
		RaidParticipant: s.participants,
		Economics:       s.economics,
		Catalog:         s.catalog,
	}
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
